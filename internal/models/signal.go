package models

import "time"

type SignalKind string

const (
	SignalMostAppearing SignalKind = "most-appearing"
	SignalAdaptiveUnder SignalKind = "adaptive-under"
	SignalAdaptiveOver  SignalKind = "adaptive-over"
)

// Signal is the output of one evaluator for one window.
type Signal struct {
	Kind       SignalKind
	Symbol     string
	Value      float64 // digit for most-appearing, statistic for adaptive
	Count      int     // occurrences of Value (most-appearing) or high-digit ticks (adaptive)
	Samples    int     // ticks actually evaluated
	Streak     int     // identical last digits at the tail of the window
	Qualifying bool
}

// Notification is what gets delivered to the chat: a caption with optional media.
type Notification struct {
	Symbol   string
	Caption  string
	ImageRef string
	VideoRef string
	Signals  []Signal
}

func (n Notification) HasImage() bool { return n.ImageRef != "" }
func (n Notification) HasVideo() bool { return n.VideoRef != "" }

// Delivery is one journal row: what was sent for a market in a cycle and
// whether Telegram accepted it.
type Delivery struct {
	CycleID   string
	Symbol    string
	Kinds     []SignalKind
	Caption   string
	Delivered bool
	Error     string
	SentAt    time.Time
}
