package models

import "time"

// Candle — одна OHLCV-свеча. Time уже переведён в таймзону сессии.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}
