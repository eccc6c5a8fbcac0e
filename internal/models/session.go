package models

import "fmt"

// SessionMeta — метаданные подписки, которые видят стратегии.
// PriceScale лениво узнаётся из протокола (0 = ещё неизвестен).
type SessionMeta struct {
	SymbolID   string // "EXCHANGE:SYMBOL"
	Interval   Interval
	PriceScale int
}

// Key — ключ сессии и базовый ключ дедупа: "EXCHANGE:SYMBOL_1h".
func (m SessionMeta) Key() string {
	return fmt.Sprintf("%s_%s", m.SymbolID, m.Interval.Label())
}
