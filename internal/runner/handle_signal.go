package runner

import (
	"context"
	"fmt"
	"time"

	"signal_bot/internal/models"
	tv "signal_bot/internal/modules/tradingview/service"
	"signal_bot/pkg/logger"
)

// onBatch — один проход пайплайна: стратегии в фиксированном порядке,
// дедуп, рассылка. Стратегии одной сессии идут последовательно, разные
// сессии друг друга не ждут.
func (m *Manager) onBatch(ctx context.Context, client *tv.Client, candles []models.Candle) {
	m.state.TouchTick(time.Now())

	meta := client.Meta()

	for _, plan := range m.plans {
		if !plan.Applies(meta.Interval) {
			continue
		}

		result := plan.Evaluate(meta, candles)
		if !result.Triggered {
			continue
		}

		key := meta.Key()
		if plan.Type() == models.PlanRejection {
			// у отбоя дедуп независим по зонам
			key = fmt.Sprintf("%s#%+d", key, result.Zone)
		}

		// история фиксируется до начала рассылки: упавший посреди цикла
		// процесс после рестарта не продублирует уже начатый алерт
		fresh, err := m.history.MarkIfNew(ctx, plan.Type(), key, result.BaseTime.Unix())
		if err != nil {
			logger.Error("history %s: %v", key, err)
			continue
		}
		if !fresh {
			continue
		}

		content := renderAlert(meta, result)
		logger.Info("signal %s %s zone=%+d", key, plan.Type(), result.Zone)
		m.disp.Dispatch(ctx, content)
	}
}

func renderAlert(meta models.SessionMeta, result models.PlanResult) string {
	return fmt.Sprintf("Symbol: %s\nTimeframe: %s\n\n%s%s",
		meta.SymbolID, meta.Interval.Label(), result.Sign(), result.Message)
}
