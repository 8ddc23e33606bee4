package models

import "time"

// DefaultWindowSize is how many ticks a window keeps unless configured otherwise.
const DefaultWindowSize = 60

// Tick is one price sample from the synthetic-index feed.
type Tick struct {
	Symbol  string
	Quote   float64
	Seq     int // position in the fetched batch, 0 = oldest
	Epoch   time.Time
	PipSize int // decimals the feed quotes the symbol with
}

// Window is a fixed-capacity sequence of recent ticks; the oldest tick is
// evicted on overflow. It is not safe for concurrent use: a window is
// built and consumed inside a single cycle.
type Window struct {
	cap   int
	buf   []Tick
	start int
	n     int
}

func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultWindowSize
	}
	return &Window{
		cap: capacity,
		buf: make([]Tick, capacity),
	}
}

// WindowOf builds a window of the given capacity and pushes ticks in order.
func WindowOf(capacity int, ticks []Tick) *Window {
	w := NewWindow(capacity)
	for _, t := range ticks {
		w.Push(t)
	}
	return w
}

func (w *Window) Push(t Tick) {
	if w.n < w.cap {
		w.buf[(w.start+w.n)%w.cap] = t
		w.n++
		return
	}
	w.buf[w.start] = t
	w.start = (w.start + 1) % w.cap
}

func (w *Window) Len() int { return w.n }
func (w *Window) Cap() int { return w.cap }

// Ticks returns a copy ordered oldest first. Callers may modify it freely.
func (w *Window) Ticks() []Tick {
	out := make([]Tick, w.n)
	for i := 0; i < w.n; i++ {
		out[i] = w.buf[(w.start+i)%w.cap]
	}
	return out
}

// Last returns a copy of the newest k ticks (all of them if k >= Len).
func (w *Window) Last(k int) []Tick {
	all := w.Ticks()
	if k >= len(all) || k < 0 {
		return all
	}
	return all[len(all)-k:]
}
