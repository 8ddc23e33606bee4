package dispatcher

import (
	"context"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/dispatcher/service"
	evaluator "signal_bot/internal/modules/evaluator/service"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config     *config.Config
	Source     service.TickSource
	Evaluators []evaluator.Evaluator `group:"evaluators"`
	Notifier   service.Notifier
	Journal    service.Journal  `optional:"true"`
	Observer   service.Observer `optional:"true"`
	Log        *zap.Logger
}

func New(p Params) (*service.Dispatcher, error) {
	return service.NewDispatcher(p.Config, service.Deps{
		Source:     p.Source,
		Evaluators: p.Evaluators,
		Notifier:   p.Notifier,
		Journal:    p.Journal,
		Observer:   p.Observer,
		Log:        p.Log,
	})
}

// Provide registers *service.Dispatcher without starting the loop.
func Provide() fx.Option {
	return fx.Provide(New)
}

// Module provides the dispatcher and runs its loop for the app's lifetime.
func Module() fx.Option {
	return fx.Module("dispatcher",
		Provide(),
		fx.Invoke(RunLoop),
	)
}

// RunLoop starts Run on OnStart; OnStop cancels it and waits for the
// in-flight cycle to return.
func RunLoop(lc fx.Lifecycle, d *service.Dispatcher) {
	var cancel context.CancelFunc
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			go func() {
				defer close(done)
				d.Run(ctx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
