// Command once runs a single dispatch cycle and exits. With --dry-run the
// notifications are printed instead of sent; --history lists the newest
// journal rows.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/deriv_feed"
	"signal_bot/internal/modules/dispatcher"
	dispatchersvc "signal_bot/internal/modules/dispatcher/service"
	"signal_bot/internal/modules/evaluator"
	"signal_bot/internal/modules/journal"
	journalsvc "signal_bot/internal/modules/journal/service"
	"signal_bot/internal/modules/postgres"
	telegram "signal_bot/internal/modules/telegram_bot"
	"signal_bot/internal/modules/telemetry"
	"signal_bot/pkg/logger"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"go.uber.org/fx"
)

// stdoutNotifier prints notifications instead of sending them.
type stdoutNotifier struct{}

func (stdoutNotifier) Send(_ context.Context, n models.Notification) error {
	fmt.Printf("--- %s (image=%q video=%q)\n%s\n", n.Symbol, n.ImageRef, n.VideoRef, n.Caption)
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	configPath := pflag.StringP("config", "c", "", "path to YAML config (env vars override it)")
	markets := pflag.StringSlice("markets", nil, "override MARKETS for this run")
	dryRun := pflag.Bool("dry-run", false, "print notifications instead of sending them")
	history := pflag.Int("history", 0, "print the newest N journal rows and exit")
	timeout := pflag.Duration("timeout", 3*time.Minute, "overall deadline")
	pflag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	notifier := telegram.Module()
	if *dryRun {
		notifier = fx.Provide(func() dispatchersvc.Notifier { return stdoutNotifier{} })
	}

	var (
		d *dispatchersvc.Dispatcher
		j dispatchersvc.Journal
	)
	app := fx.New(
		fx.Provide(func() context.Context { return ctx }),
		fx.NopLogger,
		config.Module(*configPath),
		fx.Decorate(func(cfg *config.Config) *config.Config {
			if len(*markets) == 0 {
				return cfg
			}
			c := *cfg
			c.Deriv.Markets = *markets
			return &c
		}),
		telemetry.Module(),
		postgres.Module(),
		journal.Module(),
		deriv_feed.Module(),
		evaluator.Module(),
		notifier,
		dispatcher.Provide(),
		fx.Populate(&d, &j),
	)
	if err := app.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() {
		_ = app.Stop(context.Background())
	}()

	if *history > 0 {
		return printHistory(ctx, j, *history)
	}

	report := d.RunCycle(ctx)
	for _, m := range report.Markets {
		status := "ok"
		switch {
		case m.Err != nil:
			status = "error: " + m.Err.Error()
		case m.Delivered:
			status = "delivered"
		case len(m.Signals) == 0:
			status = "no signal"
		}
		fmt.Printf("%-8s ticks=%-3d signals=%d %s\n", m.Symbol, m.Ticks, len(m.Signals), status)
	}
	logger.Info("cycle %s finished: %s in %s", report.ID, report.Outcome(), report.Duration())

	if report.Outcome() == dispatchersvc.OutcomeFailed {
		return 2
	}
	return 0
}

func printHistory(ctx context.Context, j dispatchersvc.Journal, n int) int {
	pg, ok := j.(*journalsvc.Postgres)
	if !ok {
		fmt.Fprintln(os.Stderr, "journal disabled: set DATABASE_DSN")
		return 1
	}
	rows, err := pg.Recent(ctx, n)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, r := range rows {
		kinds := lo.Map(r.Kinds, func(k models.SignalKind, _ int) string { return string(k) })
		fmt.Printf("%s %-8s %-40s delivered=%t %s\n",
			r.SentAt.Format(time.RFC3339), r.Symbol, strings.Join(kinds, ","), r.Delivered, r.Error)
	}
	return 0
}
