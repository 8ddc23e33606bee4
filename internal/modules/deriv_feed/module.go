package deriv_feed

import (
	"signal_bot/internal/modules/deriv_feed/service"
	dispatcher "signal_bot/internal/modules/dispatcher/service"

	"go.uber.org/fx"
)

// Module provides the Deriv tick source.
func Module() fx.Option {
	return fx.Module("deriv_feed",
		fx.Provide(
			service.NewClient, // *service.Client
		),
		// adapter: *service.Client -> dispatcher.TickSource
		fx.Provide(
			func(c *service.Client) dispatcher.TickSource {
				return c
			},
		),
	)
}
