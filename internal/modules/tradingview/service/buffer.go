package service

import (
	"sort"
	"time"

	"signal_bot/internal/models"
)

// CandleBuffer — скользящее окно свечей, ключ — сырой epoch-таймштамп бара.
// Повторный апдейт того же ключа идемпотентно заменяет бар: сервер уточняет
// ещё формирующуюся свечу несколькими сообщениями.
type CandleBuffer struct {
	capacity int
	bars     map[int64][]float64
}

func NewCandleBuffer(capacity int) *CandleBuffer {
	if capacity <= 0 {
		capacity = 300
	}
	return &CandleBuffer{
		capacity: capacity,
		bars:     make(map[int64][]float64, capacity),
	}
}

// Upsert кладёт бар [time, open, high, low, close, volume] по ключу времени,
// затем вытесняет самые старые бары до восстановления ёмкости.
func (b *CandleBuffer) Upsert(values []float64) {
	if len(values) < 5 {
		return
	}
	b.bars[int64(values[0])] = values
	b.evict()
}

func (b *CandleBuffer) evict() {
	for len(b.bars) > b.capacity {
		oldest := int64(0)
		first := true
		for ts := range b.bars {
			if first || ts < oldest {
				oldest = ts
				first = false
			}
		}
		delete(b.bars, oldest)
	}
}

func (b *CandleBuffer) Len() int { return len(b.bars) }

// Candles — содержимое окна по возрастанию времени, epoch переведён в loc.
func (b *CandleBuffer) Candles(loc *time.Location) []models.Candle {
	keys := make([]int64, 0, len(b.bars))
	for ts := range b.bars {
		keys = append(keys, ts)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]models.Candle, 0, len(keys))
	for _, ts := range keys {
		v := b.bars[ts]
		c := models.Candle{
			Time:  time.Unix(ts, 0).In(loc),
			Open:  v[1],
			High:  v[2],
			Low:   v[3],
			Close: v[4],
		}
		if len(v) >= 6 {
			c.Volume = v[5]
		}
		out = append(out, c)
	}
	return out
}
