package service

import (
	"signal_bot/internal/helper"
	"signal_bot/internal/models"
)

// ZonePlan ловит смену направления ленты между свечой -3 (reference)
// и -2 (base). Последняя свеча ещё формируется и в решении не участвует.
type ZonePlan struct {
	period     int
	multiplier float64
}

func NewZonePlan() *ZonePlan {
	return &ZonePlan{
		period:     DefaultPeriod,
		multiplier: DefaultMultiplier,
	}
}

func (p *ZonePlan) Type() models.PlanType { return models.PlanZone }

func (p *ZonePlan) Applies(models.Interval) bool { return true }

func (p *ZonePlan) Evaluate(meta models.SessionMeta, candles []models.Candle) models.PlanResult {
	n := len(candles)
	// base и reference должны быть за прогревом индикатора
	if n < p.period+3 {
		return models.PlanResult{}
	}

	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	for i, c := range candles {
		high[i] = c.High
		low[i] = c.Low
		closes[i] = c.Close
	}

	st := ComputeSupertrend(high, low, closes, p.period, p.multiplier)
	helper.SnapSeries(st.Value, meta.PriceScale)

	reference := st.Direction[n-3]
	base := st.Direction[n-2]

	result := models.PlanResult{BaseTime: candles[n-2].Time}

	switch {
	case base > -1 && reference < 1:
		result.Zone = -1
		result.Triggered = true
		result.Message = "Price returns to PREMIUM zone"
	case base < 1 && reference > -1:
		result.Zone = 1
		result.Triggered = true
		result.Message = "Price returns to DISCOUNT zone"
	}

	return result
}
