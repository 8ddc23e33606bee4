package service

import (
	"testing"
	"time"

	"signal_bot/internal/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func windowOfDigits(capacity int, digits []int) *models.Window {
	start := time.Unix(1_700_000_000, 0)
	ticks := make([]models.Tick, len(digits))
	for i, d := range digits {
		ticks[i] = models.Tick{
			Symbol:  "R_50",
			Quote:   100 + float64(d)/100,
			Seq:     i,
			Epoch:   start.Add(time.Duration(i) * time.Second),
			PipSize: 2,
		}
	}
	return models.WindowOf(capacity, ticks)
}

// digitsWith returns total digits where target appears count times and the
// rest cycle through the other digits.
func digitsWith(target, count, total int) []int {
	out := make([]int, 0, total)
	for i := 0; i < count; i++ {
		out = append(out, target)
	}
	other := 0
	for len(out) < total {
		if other%10 != target {
			out = append(out, other%10)
		}
		other++
	}
	return out
}

// highLow returns total digits of which high are above 4, interleaved.
func highLow(high, total int) []int {
	out := make([]int, 0, total)
	for i := 0; i < total; i++ {
		if i < high {
			out = append(out, 5+i%5)
		} else {
			out = append(out, i%5)
		}
	}
	return out
}

func TestModeDigit(t *testing.T) {
	tests := []struct {
		name   string
		digits []int
		digit  int
		count  int
	}{
		{"clear winner", []int{0, 1, 1, 2, 2, 2, 9}, 2, 3},
		{"tie goes to lowest", []int{3, 3, 1, 1, 8}, 1, 2},
		{"single", []int{9}, 9, 1},
		{"empty", nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, c := ModeDigit(tt.digits)
			assert.Equal(t, tt.digit, d)
			assert.Equal(t, tt.count, c)
		})
	}
}

func TestMostAppearing_InsufficientData(t *testing.T) {
	e := NewMostAppearing(12)
	_, err := e.Evaluate(windowOfDigits(60, digitsWith(7, 20, 59)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInsufficientData))
}

func TestMostAppearing_Threshold(t *testing.T) {
	e := NewMostAppearing(12)

	sig, err := e.Evaluate(windowOfDigits(60, digitsWith(7, 13, 60)))
	require.NoError(t, err)
	assert.Equal(t, models.SignalMostAppearing, sig.Kind)
	assert.Equal(t, "R_50", sig.Symbol)
	assert.Equal(t, float64(7), sig.Value)
	assert.Equal(t, 13, sig.Count)
	assert.Equal(t, 60, sig.Samples)
	assert.True(t, sig.Qualifying)

	sig, err = e.Evaluate(windowOfDigits(60, digitsWith(7, 12, 60)))
	require.NoError(t, err)
	assert.Equal(t, float64(7), sig.Value)
	assert.Equal(t, 12, sig.Count)
	assert.False(t, sig.Qualifying, "count equal to the minimum must not qualify")
}

func TestMostAppearing_UsesNewestSixty(t *testing.T) {
	// 20 old ticks of 9 followed by 60 ticks led by 4.
	digits := append(digitsWith(9, 20, 20), digitsWith(4, 15, 60)...)
	sig, err := NewMostAppearing(12).Evaluate(windowOfDigits(80, digits))
	require.NoError(t, err)
	assert.Equal(t, float64(4), sig.Value)
	assert.Equal(t, 15, sig.Count)
	assert.Equal(t, 60, sig.Samples)
}

func TestMostAppearing_Streak(t *testing.T) {
	digits := digitsWith(2, 10, 57)
	digits = append(digits, 3, 3, 3)
	sig, err := NewMostAppearing(12).Evaluate(windowOfDigits(60, digits))
	require.NoError(t, err)
	assert.Equal(t, 3, sig.Streak)
}

func TestEvaluators_DoNotMutateWindow(t *testing.T) {
	w := windowOfDigits(60, digitsWith(5, 14, 60))
	before := w.Ticks()

	for _, e := range []Evaluator{NewMostAppearing(12), NewAdaptiveThreshold(20, 35, 65)} {
		_, err := e.Evaluate(w)
		require.NoError(t, err, e.Name())
	}
	assert.Equal(t, before, w.Ticks())
}

func TestAdaptiveThreshold_InsufficientData(t *testing.T) {
	_, err := NewAdaptiveThreshold(20, 35, 65).Evaluate(windowOfDigits(60, highLow(10, 19)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInsufficientData))
}

func TestAdaptiveThreshold_Bounds(t *testing.T) {
	// With a 100 tick window and a minimum of 100 every tick is one percent.
	e := NewAdaptiveThreshold(100, 35, 65)

	tests := []struct {
		high       int
		kind       models.SignalKind
		qualifying bool
	}{
		{0, models.SignalAdaptiveUnder, true},
		{34, models.SignalAdaptiveUnder, true},
		{35, models.SignalAdaptiveUnder, false},
		{50, models.SignalAdaptiveOver, false},
		{65, models.SignalAdaptiveOver, false},
		{66, models.SignalAdaptiveOver, true},
		{100, models.SignalAdaptiveOver, true},
	}
	for _, tt := range tests {
		sig, err := e.Evaluate(windowOfDigits(100, highLow(tt.high, 100)))
		require.NoError(t, err)
		assert.Equal(t, float64(tt.high), sig.Value, "high=%d", tt.high)
		assert.Equal(t, tt.kind, sig.Kind, "high=%d", tt.high)
		assert.Equal(t, tt.qualifying, sig.Qualifying, "high=%d", tt.high)
		assert.Equal(t, 100, sig.Samples)
	}
}

func TestAdaptiveThreshold_WindowGrowsAsVarietyDrops(t *testing.T) {
	e := NewAdaptiveThreshold(20, 35, 65)

	varied := make([]int, 60)
	for i := range varied {
		varied[i] = i % 10
	}
	sig, err := e.Evaluate(windowOfDigits(60, varied))
	require.NoError(t, err)
	assert.Equal(t, 20, sig.Samples)

	narrow := make([]int, 60)
	for i := range narrow {
		narrow[i] = 1 + 5*(i%2)
	}
	sig, err = e.Evaluate(windowOfDigits(60, narrow))
	require.NoError(t, err)
	assert.Equal(t, 52, sig.Samples)
	assert.Equal(t, float64(50), sig.Value)
	assert.False(t, sig.Qualifying)
}

func TestAdaptiveWindow(t *testing.T) {
	tests := []struct {
		n, unique, min, want int
	}{
		{60, 10, 20, 20},
		{60, 5, 20, 40},
		{60, 1, 20, 56},
		{60, 0, 20, 60},
		{20, 3, 20, 20},
		{15, 3, 20, 15},
		{60, 12, 20, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AdaptiveWindow(tt.n, tt.unique, tt.min),
			"n=%d unique=%d min=%d", tt.n, tt.unique, tt.min)
	}
}
