package history

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/history/service"
	"signal_bot/internal/modules/history/service/pg"
	"signal_bot/pkg/db"
)

// Module выбирает реализацию истории: без DSN — память, с DSN — postgres.
func Module() fx.Option {
	return fx.Module("history",
		fx.Provide(
			func(lc fx.Lifecycle, ctx context.Context, cfg *config.Config) (service.Store, error) {
				if cfg.DB == "" {
					return service.NewMemory(), nil
				}

				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN: cfg.DB,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				if err = poolMaster.Ping(ctx); err != nil {
					return nil, err
				}

				tm := db.NewPgTxManager(poolMaster)
				lc.Append(fx.Hook{
					OnStop: func(context.Context) error {
						tm.Close()
						return nil
					},
				})

				return pg.New(tm), nil
			},
		),
	)
}
