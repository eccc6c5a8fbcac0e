package models

import "time"

type PlanType string

const (
	PlanZone      PlanType = "zone"
	PlanRejection PlanType = "rejection"
)

// PlanResult — ответ стратегии по одному батчу свечей.
// Zone: +1 discount (buy-side), -1 premium (sell-side), 0 — сигнала нет.
type PlanResult struct {
	Zone      int
	BaseTime  time.Time
	Triggered bool
	Message   string
}

// Sign — префикс строки алерта: '+' для discount, '-' для premium.
func (r PlanResult) Sign() string {
	if r.Zone > 0 {
		return "+"
	}
	return "-"
}
