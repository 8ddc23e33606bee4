package telegram

import (
	dispatcher "signal_bot/internal/modules/dispatcher/service"
	"signal_bot/internal/modules/telegram_bot/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			service.NewTelegram, // func(*config.Config, *zap.Logger) (*service.Telegram, error)
		),
		// adapter: *service.Telegram -> dispatcher.Notifier
		fx.Provide(
			func(t *service.Telegram) dispatcher.Notifier {
				return t
			},
		),
	)
}
