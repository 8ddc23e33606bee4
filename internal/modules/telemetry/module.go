package telemetry

import (
	"context"

	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const ServiceName = "signal_bot"

// NewLogger builds the process logger and installs it behind the
// package-level pkg/logger helpers.
func NewLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	logger.SetServiceName(ServiceName)
	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.Init(l)

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = l.Sync()
			return nil
		},
	})
	return l, nil
}

// StartTracer installs the global tracer; a no-op one when no agent host is set.
func StartTracer(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) error {
	tracing.SetServiceName(ServiceName)
	_, closer, err := tracing.InitTracer(tracing.Config{
		Host: cfg.Tracing.Host,
		Port: cfg.Tracing.Port,
	})
	if err != nil {
		return err
	}
	if cfg.Tracing.Host != "" {
		log.Info("jaeger tracing enabled", zap.String("host", cfg.Tracing.Host), zap.Int("port", cfg.Tracing.Port))
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closer()
			return nil
		},
	})
	return nil
}

func Module() fx.Option {
	return fx.Module("telemetry",
		fx.Provide(NewLogger),
		fx.Invoke(StartTracer),
	)
}
