package main

import (
	"context"
	"log"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/deriv_feed"
	"signal_bot/internal/modules/dispatcher"
	"signal_bot/internal/modules/evaluator"
	"signal_bot/internal/modules/health"
	"signal_bot/internal/modules/journal"
	"signal_bot/internal/modules/postgres"
	telegram "signal_bot/internal/modules/telegram_bot"
	"signal_bot/internal/modules/telemetry"

	"github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to YAML config (env vars override it)")
	pflag.Parse()

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		config.Module(*configPath),
		telemetry.Module(),
		postgres.Module(),
		journal.Module(),
		health.Module(),
		deriv_feed.Module(),
		evaluator.Module(),
		telegram.Module(),
		dispatcher.Module(),
	)
	if err := app.Err(); err != nil {
		log.Fatal(err)
	}

	app.Run()
}
