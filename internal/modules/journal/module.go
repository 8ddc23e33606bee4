package journal

import (
	"context"

	dispatcher "signal_bot/internal/modules/dispatcher/service"
	"signal_bot/internal/modules/journal/service"
	"signal_bot/pkg/db"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// New returns the Postgres journal when a pool is available and a Discard
// journal otherwise. The table is created on start.
func New(lc fx.Lifecycle, tm *db.PgTxManager, log *zap.Logger) dispatcher.Journal {
	if tm == nil {
		log.Info("delivery journal disabled")
		return service.Discard{}
	}

	j := service.NewPostgres(tm, log)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return j.Migrate(ctx)
		},
	})
	return j
}

func Module() fx.Option {
	return fx.Module("journal",
		fx.Provide(New),
	)
}
