package service

import (
	"signal_bot/internal/models"
	assets "signal_bot/internal/modules/assets/service"
)

// Plan — одна сигнальная стратегия. Набор закрыт: зона (возврат к ленте)
// и отбой от экстремумов старшей сессии.
type Plan interface {
	Type() models.PlanType

	// Applies — применима ли стратегия к интервалу подписки
	Applies(interval models.Interval) bool

	// Evaluate прогоняет стратегию по полному окну свечей.
	// Triggered=false / Zone=0 — сигнала на этом батче нет.
	Evaluate(meta models.SessionMeta, candles []models.Candle) models.PlanResult
}

// NewPlans — фиксированный порядок вычисления: сначала зона, потом отбой.
func NewPlans(catalogue *assets.Catalogue) []Plan {
	return []Plan{
		NewZonePlan(),
		NewRejectionPlan(catalogue),
	}
}
