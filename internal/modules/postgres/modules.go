package postgres

import (
	"context"
	"time"

	"signal_bot/internal/modules/config"
	"signal_bot/pkg/db"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const pingTimeout = 10 * time.Second

// NewTxManager opens the pool when a DSN is configured. Without one it
// returns a nil manager and the journal falls back to discarding.
func NewTxManager(ctx context.Context, lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*db.PgTxManager, error) {
	if cfg.DB == "" {
		return nil, nil
	}

	poolMaster, err := db.NewPool(ctx, db.PoolConfig{
		DSN: cfg.DB,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create poolMaster")
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err = poolMaster.Ping(pingCtx); err != nil {
		poolMaster.Close()
		return nil, errors.Wrap(err, "postgres ping")
	}
	log.Info("postgres connected")

	tm := db.NewPgTxManager(poolMaster)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			tm.Close()
			return nil
		},
	})
	return tm, nil
}

func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(NewTxManager),
	)
}
