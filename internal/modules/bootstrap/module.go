package bootstrap

import (
	"context"
	"time"

	"go.uber.org/fx"

	bootstrap "signal_bot/internal/modules/bootstrap/service"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
)

// Module подписывает стартовый вотчлист после подъёма приложения.
func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(
			func(cfg *config.Config) *bootstrap.Watchlist {
				return bootstrap.NewWatchlist(cfg.WatchlistPath)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, wl *bootstrap.Watchlist, m *runner.Manager) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go func() {
						entries, err := wl.Load()
						if err != nil {
							logger.Error("[BOOT] watchlist: %v", err)
							return
						}
						total := 0
						for _, e := range entries {
							for _, tf := range e.Timeframes {
								if err := m.Subscribe(e.Symbol, tf); err != nil {
									logger.Error("[BOOT] subscribe %s %s: %v", e.Symbol, tf, err)
									continue
								}
								total++
								// небольшой разбег между стартами сессий
								time.Sleep(30 * time.Millisecond)
							}
						}
						logger.Info("[BOOT] watchlist done: %d sessions", total)
					}()
					return nil
				},
			})
		}),
	)
}
