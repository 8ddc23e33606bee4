package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	evaluator "signal_bot/internal/modules/evaluator/service"
	"signal_bot/pkg/metrics"
	"signal_bot/pkg/tracing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type TickSource interface {
	FetchRecentTicks(ctx context.Context, symbol string, n int) ([]models.Tick, error)
}

type Notifier interface {
	Send(ctx context.Context, n models.Notification) error
}

// Journal stores one row per dispatched notification.
type Journal interface {
	Record(ctx context.Context, d models.Delivery) error
}

// Observer is told about every finished cycle.
type Observer interface {
	ObserveCycle(r CycleReport)
}

// Deps are the collaborators of a Dispatcher. Journal and Observer may be nil.
type Deps struct {
	Source     TickSource
	Evaluators []evaluator.Evaluator
	Notifier   Notifier
	Journal    Journal
	Observer   Observer
	Log        *zap.Logger
}

type Dispatcher struct {
	cfg      *config.Config
	src      TickSource
	evals    []evaluator.Evaluator
	notifier Notifier
	journal  Journal
	observer Observer
	log      *zap.Logger
	now      func() time.Time

	state   atomic.Int32
	cycleMu sync.Mutex
}

func NewDispatcher(cfg *config.Config, deps Deps) (*Dispatcher, error) {
	if deps.Source == nil || deps.Notifier == nil {
		return nil, errors.New("dispatcher: tick source and notifier are required")
	}
	if len(deps.Evaluators) == 0 {
		return nil, errors.New("dispatcher: no evaluators registered")
	}
	if len(cfg.Deriv.Markets) == 0 {
		return nil, errors.New("dispatcher: no markets configured")
	}
	if cfg.Dispatcher.Interval <= 0 {
		return nil, errors.New("dispatcher: interval must be positive")
	}

	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Dispatcher{
		cfg:      cfg,
		src:      deps.Source,
		evals:    deps.Evaluators,
		notifier: deps.Notifier,
		journal:  deps.Journal,
		observer: deps.Observer,
		log:      log.Named("dispatcher"),
		now:      time.Now,
	}, nil
}

func (d *Dispatcher) State() State { return State(d.state.Load()) }

func (d *Dispatcher) setState(s State) { d.state.Store(int32(s)) }

func (d *Dispatcher) windowSize() int {
	if d.cfg.Dispatcher.WindowSize > 0 {
		return d.cfg.Dispatcher.WindowSize
	}
	return models.DefaultWindowSize
}

// Run executes a cycle right away and then one per interval until ctx is
// cancelled. Cycles run on this goroutine, so they never overlap; a cycle
// that outlives the interval delays the next one instead.
func (d *Dispatcher) Run(ctx context.Context) {
	interval := d.cfg.Dispatcher.Interval
	d.log.Info("dispatcher started",
		zap.Duration("interval", interval),
		zap.Strings("markets", d.cfg.Deriv.Markets),
		zap.Strings("evaluators", lo.Map(d.evals, func(e evaluator.Evaluator, _ int) string { return e.Name() })),
	)

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		d.RunCycle(ctx)

		select {
		case <-ctx.Done():
			d.log.Info("dispatcher stopped")
			return
		case <-t.C:
		}
	}
}

// RunCycle makes one fetch, evaluate and dispatch pass over every market.
// Concurrent callers are serialized.
func (d *Dispatcher) RunCycle(ctx context.Context) CycleReport {
	d.cycleMu.Lock()
	defer d.cycleMu.Unlock()

	if timeout := d.cfg.Dispatcher.CycleTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	report := CycleReport{ID: uuid.New(), StartedAt: d.now()}
	span, ctx := tracing.StartSpan(ctx, "dispatcher.cycle")
	span.SetTag("cycle.id", report.ID.String())
	log := d.log.With(zap.Stringer("cycle", report.ID))

	for _, symbol := range d.cfg.Deriv.Markets {
		if err := ctx.Err(); err != nil {
			report.Markets = append(report.Markets, MarketReport{
				Symbol: symbol,
				Err:    errors.Wrap(err, "cycle aborted"),
			})
			continue
		}
		report.Markets = append(report.Markets, d.runMarket(ctx, log, report.ID, symbol))
	}

	d.setState(StateIdle)
	report.FinishedAt = d.now()

	outcome := report.Outcome()
	metrics.CyclesTotal.WithLabelValues(outcome).Inc()
	span.SetTag("outcome", outcome)
	span.Finish()

	log.Info("cycle finished",
		zap.String("outcome", outcome),
		zap.Int("markets", len(report.Markets)),
		zap.Int("failed", report.Failed()),
		zap.Int("signals", report.Signals()),
		zap.Int("delivered", report.Delivered()),
		zap.Duration("took", report.Duration()),
	)

	if d.observer != nil {
		d.observer.ObserveCycle(report)
	}
	return report
}

func (d *Dispatcher) runMarket(ctx context.Context, log *zap.Logger, cycleID uuid.UUID, symbol string) MarketReport {
	mr := MarketReport{Symbol: symbol}
	log = log.With(zap.String("symbol", symbol))
	defer d.setState(StateIdle)

	d.setState(StateFetching)
	size := d.windowSize()
	ticks, err := d.src.FetchRecentTicks(ctx, symbol, size)
	if err != nil {
		metrics.FetchFailuresTotal.WithLabelValues(symbol).Inc()
		log.Warn("fetch failed", zap.Error(err))
		mr.Err = err
		return mr
	}
	w := models.WindowOf(size, ticks)
	mr.Ticks = w.Len()

	d.setState(StateEvaluating)
	mr.Signals = d.evaluate(log, symbol, w)
	if len(mr.Signals) == 0 {
		log.Debug("no qualifying signal", zap.Int("ticks", mr.Ticks))
		return mr
	}

	d.setState(StateDispatching)
	n := BuildNotification(symbol, mr.Signals, mr.Ticks, d.cfg.Media.ImageRef, d.cfg.Media.VideoRef, d.now())
	mr.Notified = true

	status := "delivered"
	if err = d.notifier.Send(ctx, n); err != nil {
		status = "failed"
		mr.Err = err
		log.Error("delivery failed", zap.Error(err))
	} else {
		mr.Delivered = true
		log.Info("signal delivered", zap.Int("signals", len(mr.Signals)))
	}
	metrics.DeliveriesTotal.WithLabelValues(symbol, status).Inc()

	d.record(ctx, log, cycleID, n, err)
	return mr
}

// evaluate runs every evaluator on its own copy of w and keeps the
// qualifying signals. An evaluator that lacks data is skipped; the rest
// still run.
func (d *Dispatcher) evaluate(log *zap.Logger, symbol string, w *models.Window) []models.Signal {
	var out []models.Signal
	for _, e := range d.evals {
		sig, err := e.Evaluate(models.WindowOf(w.Cap(), w.Ticks()))
		if err != nil {
			if errors.Is(err, models.ErrInsufficientData) {
				log.Debug("evaluator skipped", zap.String("evaluator", e.Name()), zap.Error(err))
			} else {
				log.Warn("evaluator failed", zap.String("evaluator", e.Name()), zap.Error(err))
			}
			continue
		}
		if !sig.Qualifying {
			continue
		}
		if sig.Symbol == "" {
			sig.Symbol = symbol
		}
		metrics.SignalsTotal.WithLabelValues(symbol, string(sig.Kind)).Inc()
		out = append(out, sig)
	}
	return out
}

func (d *Dispatcher) record(ctx context.Context, log *zap.Logger, cycleID uuid.UUID, n models.Notification, sendErr error) {
	if d.journal == nil {
		return
	}

	entry := models.Delivery{
		CycleID:   cycleID.String(),
		Symbol:    n.Symbol,
		Kinds:     lo.Map(n.Signals, func(s models.Signal, _ int) models.SignalKind { return s.Kind }),
		Caption:   n.Caption,
		Delivered: sendErr == nil,
		SentAt:    d.now(),
	}
	if sendErr != nil {
		entry.Error = sendErr.Error()
	}

	if err := d.journal.Record(ctx, entry); err != nil {
		log.Warn("journal write failed", zap.Error(err))
	}
}
