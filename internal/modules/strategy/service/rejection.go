package service

import (
	"fmt"
	"strings"
	"time"

	"signal_bot/internal/models"
	assets "signal_bot/internal/modules/assets/service"
)

// Старшие сессии, по которым проверяется отбой. 15m/30m стратегия
// не обслуживает вовсе.
var higherFrames = map[models.Interval][]string{
	models.Interval1h: {"4h", "D", "W"},
	models.Interval4h: {"D", "W"},
}

var frameLabels = map[string]string{
	"4h": "4H",
	"D":  "DAY",
	"W":  "WEEK",
}

// RejectionPlan: цена прокалывает экстремум предыдущей старшей сессии и
// закрывается обратно за открытием текущей. Несколько сработавших сессий
// в одном проходе — побеждает последняя (last-write-wins).
type RejectionPlan struct {
	catalogue *assets.Catalogue
}

func NewRejectionPlan(catalogue *assets.Catalogue) *RejectionPlan {
	return &RejectionPlan{catalogue: catalogue}
}

func (p *RejectionPlan) Type() models.PlanType { return models.PlanRejection }

func (p *RejectionPlan) Applies(interval models.Interval) bool {
	_, ok := higherFrames[interval]
	return ok
}

func (p *RejectionPlan) Evaluate(meta models.SessionMeta, candles []models.Candle) models.PlanResult {
	frames, ok := higherFrames[meta.Interval]
	if !ok || len(candles) == 0 {
		return models.PlanResult{}
	}

	openHour := 4
	if _, symbol, found := strings.Cut(meta.SymbolID, ":"); found {
		if asset, known := p.catalogue.Get(symbol); known {
			openHour = asset.OpenHour()
		}
	}

	current := candles[len(candles)-1]
	result := models.PlanResult{BaseTime: current.Time}

	for _, frame := range frames {
		labels := bucketLabels(candles, frame, openHour)

		need := 2
		if frame == "W" {
			// недельный последний бакет ещё формируется — пропускаем его
			need = 3
		}
		if len(labels) < need {
			continue
		}

		periodStart := labels[len(labels)-need]
		periodEnd := labels[len(labels)-need+1]

		previous := candlesBetween(candles, periodStart, periodEnd)
		if len(previous) == 0 {
			continue
		}

		// последняя свеча диапазона открывает текущую сессию
		firstCurrent := previous[len(previous)-1]
		currentSession := candlesFrom(candles, firstCurrent.Time)
		previous = previous[:len(previous)-1]
		if len(previous) == 0 {
			continue
		}

		prevHigh := previous[0]
		prevLow := previous[0]
		for _, c := range previous[1:] {
			if c.High > prevHigh.High {
				prevHigh = c
			}
			if c.Low < prevLow.Low {
				prevLow = c
			}
		}

		result.BaseTime = firstCurrent.Time

		if anyLowBelow(currentSession, prevLow.Low) && current.Close > firstCurrent.Open {
			result.Zone = 1
			result.Triggered = true
			result.Message = fmt.Sprintf("Price rejects THE PREVIOUS %s LOW", frameLabels[frame])
		} else if anyHighAbove(currentSession, prevHigh.High) && current.Close < firstCurrent.Open {
			result.Zone = -1
			result.Triggered = true
			result.Message = fmt.Sprintf("Price rejects THE PREVIOUS %s HIGH", frameLabels[frame])
		}
	}

	return result
}

// bucketLabels — границы сессий по возрастанию, полная регулярная сетка от
// первой свечи окна до последней: пустые бакеты (выходные, гэпы) тоже в
// списке. Сетка всех частот смещена на час открытия рынка.
func bucketLabels(candles []models.Candle, frame string, openHour int) []time.Time {
	if len(candles) == 0 {
		return nil
	}

	first := bucketLabel(candles[0].Time, frame, openHour)
	last := bucketLabel(candles[len(candles)-1].Time, frame, openHour)
	if first.IsZero() || last.IsZero() {
		return nil
	}

	var out []time.Time
	for t := first; !t.After(last); t = nextLabel(t, frame) {
		out = append(out, t)
	}
	return out
}

// bucketLabel — граница сессии, которой принадлежит момент t. Свеча до часа
// открытия относится ещё к предыдущей сессии, поэтому сначала вычитаем
// смещение открытия, и только потом режем по сетке. Недельная граница — день
// после конца сдвинутой недели, в час открытия.
func bucketLabel(t time.Time, frame string, openHour int) time.Time {
	open := time.Duration(openHour) * time.Hour
	s := t.Add(-open)

	switch frame {
	case "4h":
		return time.Date(s.Year(), s.Month(), s.Day(), s.Hour()/4*4, 0, 0, 0, s.Location()).Add(open)
	case "D":
		return time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, s.Location()).Add(open)
	case "W":
		daysToSunday := (7 - int(s.Weekday())) % 7
		return time.Date(s.Year(), s.Month(), s.Day()+daysToSunday+1, openHour, 0, 0, 0, s.Location())
	}
	return time.Time{}
}

func nextLabel(t time.Time, frame string) time.Time {
	switch frame {
	case "4h":
		return t.Add(4 * time.Hour)
	case "D":
		return t.AddDate(0, 0, 1)
	default:
		return t.AddDate(0, 0, 7)
	}
}

func candlesBetween(candles []models.Candle, from, to time.Time) []models.Candle {
	var out []models.Candle
	for _, c := range candles {
		if !c.Time.Before(from) && !c.Time.After(to) {
			out = append(out, c)
		}
	}
	return out
}

func candlesFrom(candles []models.Candle, from time.Time) []models.Candle {
	var out []models.Candle
	for _, c := range candles {
		if !c.Time.Before(from) {
			out = append(out, c)
		}
	}
	return out
}

func anyLowBelow(candles []models.Candle, level float64) bool {
	for _, c := range candles {
		if c.Low < level {
			return true
		}
	}
	return false
}

func anyHighAbove(candles []models.Candle, level float64) bool {
	for _, c := range candles {
		if c.High > level {
			return true
		}
	}
	return false
}
