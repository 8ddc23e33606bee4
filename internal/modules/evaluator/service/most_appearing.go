package service

import (
	"signal_bot/internal/helper"
	"signal_bot/internal/models"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// MostAppearingWindow is the number of ticks the most-appearing evaluator reads.
const MostAppearingWindow = 60

// MostAppearing reports the most frequent last digit of the newest 60 ticks.
type MostAppearing struct {
	minCount int
}

// NewMostAppearing: the signal qualifies once the top digit occurs more than minCount times.
func NewMostAppearing(minCount int) *MostAppearing {
	return &MostAppearing{minCount: minCount}
}

func (e *MostAppearing) Name() string { return string(models.SignalMostAppearing) }

func (e *MostAppearing) Evaluate(w *models.Window) (models.Signal, error) {
	if w.Len() < MostAppearingWindow {
		return models.Signal{}, errors.Wrapf(models.ErrInsufficientData,
			"%s needs %d ticks, got %d", e.Name(), MostAppearingWindow, w.Len())
	}

	ticks := w.Last(MostAppearingWindow)
	digits := lastDigits(ticks)
	digit, count := ModeDigit(digits)

	return models.Signal{
		Kind:       models.SignalMostAppearing,
		Symbol:     symbolOf(ticks),
		Value:      float64(digit),
		Count:      count,
		Samples:    len(digits),
		Streak:     helper.Streak(digits),
		Qualifying: count > e.minCount,
	}, nil
}

// ModeDigit returns the most frequent digit and its count; ties go to the
// lowest digit. An empty input yields (0, 0).
func ModeDigit(digits []int) (digit, count int) {
	counts := lo.CountValues(digits)
	for d := 0; d <= 9; d++ {
		if counts[d] > count {
			digit, count = d, counts[d]
		}
	}
	return digit, count
}
