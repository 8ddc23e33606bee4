package service

import (
	"sync/atomic"
	"time"

	dispatcher "signal_bot/internal/modules/dispatcher/service"
)

// State is a read-mostly snapshot of the relay fed by the dispatcher after
// every cycle.
type State struct {
	ready     atomic.Bool
	startedAt time.Time

	feedReachable atomic.Bool
	cycles        atomic.Int64
	lastCycleUnix atomic.Int64 // unix seconds
	lastOutcome   atomic.Value // string
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	s.lastOutcome.Store("")
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

// FeedReachable is true when the last cycle fetched at least one market.
func (s *State) FeedReachable() bool { return s.feedReachable.Load() }

func (s *State) Cycles() int64 { return s.cycles.Load() }

func (s *State) LastCycle() time.Time {
	u := s.lastCycleUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) LastOutcome() string { return s.lastOutcome.Load().(string) }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

// ObserveCycle implements dispatcher.Observer. The relay is ready once a
// cycle has completed.
func (s *State) ObserveCycle(r dispatcher.CycleReport) {
	fetched := false
	for _, m := range r.Markets {
		if m.Ticks > 0 {
			fetched = true
			break
		}
	}

	s.feedReachable.Store(fetched)
	s.cycles.Add(1)
	s.lastCycleUnix.Store(r.FinishedAt.Unix())
	s.lastOutcome.Store(r.Outcome())
	s.ready.Store(true)
}
