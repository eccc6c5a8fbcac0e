package helper

import "math"

// SnapToScale прижимает цену к тиковой сетке инструмента:
// round(v * scale) / scale. scale <= 0 — сетка неизвестна, цена как есть.
func SnapToScale(v float64, scale int) float64 {
	if scale <= 0 {
		return v
	}
	s := float64(scale)
	return math.Round(v*s) / s
}

// SnapSeries — то же самое по месту для всего ряда.
func SnapSeries(vs []float64, scale int) {
	if scale <= 0 {
		return
	}
	for i, v := range vs {
		vs[i] = SnapToScale(v, scale)
	}
}
