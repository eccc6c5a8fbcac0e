package runner

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/notify"
	"signal_bot/pkg/logger"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			func(cfg *config.Config) notify.EndpointSource {
				return notify.NewFileEndpoints(cfg.WebhooksPath)
			},
			func() notify.Sender {
				return notify.NewDiscordSender()
			},
			func(cfg *config.Config, src notify.EndpointSource, sender notify.Sender) Dispatcher {
				return notify.NewDispatcher(src, sender, cfg.DispatchPace)
			},
			func(cfg *config.Config) notify.Notifier {
				if cfg.Telegram.Token == "" {
					return notify.NewStdout()
				}
				t, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
				if err != nil {
					logger.Error("telegram notifier unavailable: %v", err)
					return notify.NewStdout()
				}
				return t
			},
			NewManager,
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			m *Manager,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go m.Start(ctx)
					return nil
				},
				OnStop: func(_ context.Context) error {
					m.CloseAll()
					return nil
				},
			})
		}),
	)
}
