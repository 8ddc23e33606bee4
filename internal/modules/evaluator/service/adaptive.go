package service

import (
	"signal_bot/internal/helper"
	"signal_bot/internal/models"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// pivotDigit splits digits into low (0..4) and high (5..9).
const pivotDigit = 4

// AdaptiveThreshold measures the share of high last digits over an adaptive
// window and classifies it against exclusive under/over bounds.
type AdaptiveThreshold struct {
	minWindow int
	under     int
	over      int
}

func NewAdaptiveThreshold(minWindow, under, over int) *AdaptiveThreshold {
	if minWindow < 1 {
		minWindow = 1
	}
	return &AdaptiveThreshold{minWindow: minWindow, under: under, over: over}
}

func (e *AdaptiveThreshold) Name() string { return "adaptive-threshold" }

func (e *AdaptiveThreshold) Evaluate(w *models.Window) (models.Signal, error) {
	n := w.Len()
	if n < e.minWindow {
		return models.Signal{}, errors.Wrapf(models.ErrInsufficientData,
			"%s needs %d ticks, got %d", e.Name(), e.minWindow, n)
	}

	ticks := w.Ticks()
	digits := lastDigits(ticks)
	size := AdaptiveWindow(n, len(lo.Uniq(digits)), e.minWindow)
	tail := digits[n-size:]

	high := lo.CountBy(tail, func(d int) bool { return d > pivotDigit })
	stat := high * 100 / size

	sig := models.Signal{
		Symbol:  symbolOf(ticks),
		Value:   float64(stat),
		Count:   high,
		Samples: size,
		Streak:  helper.Streak(digits),
	}
	switch {
	case stat < e.under:
		sig.Kind, sig.Qualifying = models.SignalAdaptiveUnder, true
	case stat > e.over:
		sig.Kind, sig.Qualifying = models.SignalAdaptiveOver, true
	case stat*2 < e.under+e.over:
		sig.Kind = models.SignalAdaptiveUnder
	default:
		sig.Kind = models.SignalAdaptiveOver
	}
	return sig, nil
}

// AdaptiveWindow picks how many of the newest n ticks to read: the fewer
// distinct digits the window holds, the more ticks are used. The result is
// always within [min, n].
func AdaptiveWindow(n, unique, min int) int {
	if n <= min {
		return n
	}
	unique = lo.Clamp(unique, 0, 10)
	size := min + (n-min)*(10-unique)/10
	return lo.Clamp(size, min, n)
}
