package service

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

const (
	DefaultPeriod     = 10
	DefaultMultiplier = 3.0
)

// Supertrend — результат расчёта трендовой ленты. Все ряды той же длины,
// что и вход; индексы < Period не определены и читать их нельзя.
type Supertrend struct {
	Period int

	// Value — уровень ленты: нижняя полоса в бычьем тренде, верхняя в медвежьем
	Value []float64
	// Direction — +1/-1, определён начиная с индекса Period
	Direction []int

	RawUpper, RawLower     []float64
	FinalUpper, FinalLower []float64
}

// ComputeSupertrend считает ленту по ATR(period) и полосам hl2 ± multiplier*ATR.
// Строго последовательный пересчёт с нуля по всему окну: каждое значение
// зависит от предыдущего, скрытого состояния между вызовами нет.
func ComputeSupertrend(high, low, close []float64, period int, multiplier float64) Supertrend {
	n := len(close)
	st := Supertrend{
		Period:     period,
		Value:      make([]float64, n),
		Direction:  make([]int, n),
		RawUpper:   make([]float64, n),
		RawLower:   make([]float64, n),
		FinalUpper: make([]float64, n),
		FinalLower: make([]float64, n),
	}
	if n <= period {
		return st
	}

	atr := talib.Atr(high, low, close, period)

	for i := 0; i < n; i++ {
		hl2 := (high[i] + low[i]) / 2
		st.RawUpper[i] = hl2 + multiplier*atr[i]
		st.RawLower[i] = hl2 - multiplier*atr[i]
	}

	copy(st.FinalUpper, st.RawUpper)
	copy(st.FinalLower, st.RawLower)

	// сглаживание начинается после прогрева ATR: верхняя полоса может только
	// поджиматься вниз, пока цена под ней; пробой сбрасывает её на сырую
	for i := period + 1; i < n; i++ {
		if close[i-1] <= st.FinalUpper[i-1] {
			st.FinalUpper[i] = math.Min(st.RawUpper[i], st.FinalUpper[i-1])
		} else {
			st.FinalUpper[i] = st.RawUpper[i]
		}

		if close[i-1] >= st.FinalLower[i-1] {
			st.FinalLower[i] = math.Max(st.RawLower[i], st.FinalLower[i-1])
		} else {
			st.FinalLower[i] = st.RawLower[i]
		}
	}

	for i := period; i < n; i++ {
		switch {
		case close[i] > st.FinalUpper[i-1]:
			st.Direction[i] = 1
		case close[i] < st.FinalLower[i-1]:
			st.Direction[i] = -1
		case i > period:
			st.Direction[i] = st.Direction[i-1]
		default:
			// стартовая точка без пробоя: тренд считаем бычьим
			st.Direction[i] = 1
		}

		if st.Direction[i] == 1 {
			st.Value[i] = st.FinalLower[i]
		} else {
			st.Value[i] = st.FinalUpper[i]
		}
	}

	return st
}
