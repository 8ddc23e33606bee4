package service

import (
	"fmt"
	"strings"
	"time"

	"signal_bot/internal/models"

	"github.com/samber/lo"
)

// minStreak is the shortest run of identical digits worth mentioning.
const minStreak = 3

// BuildNotification turns the qualifying signals of one market into the
// message handed to the notifier.
func BuildNotification(symbol string, signals []models.Signal, samples int, imageRef, videoRef string, at time.Time) models.Notification {
	return models.Notification{
		Symbol:   symbol,
		Caption:  FormatCaption(symbol, signals, samples, at),
		ImageRef: imageRef,
		VideoRef: videoRef,
		Signals:  signals,
	}
}

// FormatCaption renders Telegram Markdown. The symbol goes in a code span
// because underscores in R_10 would otherwise open an italic entity.
func FormatCaption(symbol string, signals []models.Signal, samples int, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Signal* `%s`\n", symbol)
	fmt.Fprintf(&b, "Time: %s\n", at.UTC().Format("2006-01-02 15:04 UTC"))

	for _, s := range signals {
		switch s.Kind {
		case models.SignalMostAppearing:
			fmt.Fprintf(&b, "Most appearing: `%d` (%d/%d)\n", int(s.Value), s.Count, s.Samples)
		case models.SignalAdaptiveUnder:
			fmt.Fprintf(&b, "Adaptive under: `%d%%` high digits over %d ticks\n", int(s.Value), s.Samples)
		case models.SignalAdaptiveOver:
			fmt.Fprintf(&b, "Adaptive over: `%d%%` high digits over %d ticks\n", int(s.Value), s.Samples)
		}
	}

	streak := lo.MaxBy(signals, func(a, b models.Signal) bool { return a.Streak > b.Streak }).Streak
	if streak >= minStreak {
		fmt.Fprintf(&b, "Streak: x%d identical digits\n", streak)
	}

	fmt.Fprintf(&b, "Window samples: %d ticks used", samples)
	return b.String()
}
