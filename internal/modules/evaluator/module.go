package evaluator

import (
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/evaluator/service"

	"go.uber.org/fx"
)

// Module registers every evaluator in the "evaluators" value group; the
// dispatcher runs whatever the group holds.
func Module() fx.Option {
	return fx.Module("evaluator",
		fx.Provide(
			fx.Annotate(
				func(cfg *config.Config) *service.MostAppearing {
					return service.NewMostAppearing(cfg.Evaluator.MostAppearingMin)
				},
				fx.As(new(service.Evaluator)),
				fx.ResultTags(`group:"evaluators"`),
			),
			fx.Annotate(
				func(cfg *config.Config) *service.AdaptiveThreshold {
					return service.NewAdaptiveThreshold(
						cfg.Evaluator.AdaptiveMinWindow,
						cfg.Evaluator.AdaptiveUnder,
						cfg.Evaluator.AdaptiveOver,
					)
				},
				fx.As(new(service.Evaluator)),
				fx.ResultTags(`group:"evaluators"`),
			),
		),
	)
}
