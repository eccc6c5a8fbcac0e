package models

// Asset — запись из внешнего каталога инструментов.
// MarketOpen: "4h" либо "7h" — час открытия рынка, нужен RejectionPlan
// для границ торговых сессий.
type Asset struct {
	Name       string   `json:"-"`
	Exchanges  []string `json:"exchanges"`
	MarketOpen string   `json:"market_open"`
}

// OpenHour — числовой час открытия. Неизвестное значение трактуем как 4.
func (a Asset) OpenHour() int {
	switch a.MarketOpen {
	case "7h":
		return 7
	default:
		return 4
	}
}
