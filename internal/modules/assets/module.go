package assets

import (
	"go.uber.org/fx"

	"signal_bot/internal/modules/assets/service"
	"signal_bot/internal/modules/config"
)

func Module() fx.Option {
	return fx.Module("assets",
		fx.Provide(
			func(cfg *config.Config) *service.Catalogue {
				return service.NewCatalogue(cfg.AssetsPath)
			},
		),
	)
}
