package service

import (
	"context"
	"time"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	createDeliveries = `CREATE TABLE IF NOT EXISTS signal_deliveries (
	id         BIGSERIAL PRIMARY KEY,
	cycle_id   TEXT        NOT NULL,
	symbol     TEXT        NOT NULL,
	kinds      TEXT[]      NOT NULL,
	caption    TEXT        NOT NULL,
	delivered  BOOLEAN     NOT NULL,
	error      TEXT        NOT NULL DEFAULT '',
	sent_at    TIMESTAMPTZ NOT NULL
)`

	insertDelivery = `INSERT INTO signal_deliveries
	(cycle_id, symbol, kinds, caption, delivered, error, sent_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	selectRecent = `SELECT cycle_id, symbol, kinds, caption, delivered, error, sent_at
	FROM signal_deliveries
	ORDER BY sent_at DESC, id DESC
	LIMIT $1`
)

type store interface {
	RunMaster(ctx context.Context, fn func(ctxTx context.Context, tx db.Transaction) error) error
	Conn() db.Transaction
}

// Postgres is the delivery journal: an append-only audit of what the relay
// sent. Nothing in the relay reads it back during a cycle.
type Postgres struct {
	db  store
	log *zap.Logger
}

func NewPostgres(db store, log *zap.Logger) *Postgres {
	return &Postgres{db: db, log: log.Named("journal")}
}

func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.Conn().Exec(ctx, createDeliveries); err != nil {
		return errors.Wrap(err, "journal: create table")
	}
	return nil
}

func (p *Postgres) Record(ctx context.Context, d models.Delivery) error {
	kinds := lo.Map(d.Kinds, func(k models.SignalKind, _ int) string { return string(k) })

	err := p.db.RunMaster(ctx, func(ctx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctx, insertDelivery,
			d.CycleID, d.Symbol, kinds, d.Caption, d.Delivered, d.Error, d.SentAt)
		return err
	})
	if err != nil {
		return errors.Wrapf(err, "journal: record %s", d.Symbol)
	}
	p.log.Debug("delivery recorded", zap.String("symbol", d.Symbol), zap.String("cycle", d.CycleID))
	return nil
}

// Recent returns the newest deliveries first.
func (p *Postgres) Recent(ctx context.Context, limit int) ([]models.Delivery, error) {
	rows, err := p.db.Conn().Query(ctx, selectRecent, limit)
	if err != nil {
		return nil, errors.Wrap(err, "journal: query recent")
	}
	defer rows.Close()

	var out []models.Delivery
	for rows.Next() {
		var (
			d      models.Delivery
			kinds  []string
			sentAt time.Time
		)
		if err := rows.Scan(&d.CycleID, &d.Symbol, &kinds, &d.Caption, &d.Delivered, &d.Error, &sentAt); err != nil {
			return nil, errors.Wrap(err, "journal: scan")
		}
		d.Kinds = lo.Map(kinds, func(k string, _ int) models.SignalKind { return models.SignalKind(k) })
		d.SentAt = sentAt
		out = append(out, d)
	}
	return out, errors.Wrap(rows.Err(), "journal: rows")
}

// Discard is used when no database is configured.
type Discard struct{}

func (Discard) Record(context.Context, models.Delivery) error { return nil }
