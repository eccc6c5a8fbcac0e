package strategy

import (
	"go.uber.org/fx"

	assets "signal_bot/internal/modules/assets/service"
	"signal_bot/internal/modules/strategy/service"
)

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			func(catalogue *assets.Catalogue) []service.Plan {
				return service.NewPlans(catalogue)
			},
		),
	)
}
