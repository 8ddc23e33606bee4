package service

import (
	"time"

	"signal_bot/internal/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
)

// MarketReport describes one market's pass inside a cycle.
type MarketReport struct {
	Symbol    string
	Ticks     int
	Signals   []models.Signal // qualifying only
	Notified  bool            // a notification was handed to the notifier
	Delivered bool
	Err       error // fetch or delivery failure
}

// CycleReport is what RunCycle returns; Run discards it after logging.
type CycleReport struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Markets    []MarketReport
}

func (r CycleReport) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

func (r CycleReport) Signals() int {
	return lo.SumBy(r.Markets, func(m MarketReport) int { return len(m.Signals) })
}

func (r CycleReport) Delivered() int {
	return lo.CountBy(r.Markets, func(m MarketReport) bool { return m.Delivered })
}

func (r CycleReport) Failed() int {
	return lo.CountBy(r.Markets, func(m MarketReport) bool { return m.Err != nil })
}

func (r CycleReport) Outcome() string {
	switch failed := r.Failed(); {
	case failed == 0:
		return OutcomeOK
	case failed == len(r.Markets):
		return OutcomeFailed
	default:
		return OutcomePartial
	}
}
