package service

import (
	"signal_bot/internal/helper"
	"signal_bot/internal/models"

	"github.com/samber/lo"
)

// Evaluator maps a tick window to a Signal. Implementations are stateless
// and must not modify the window. A signal that should not be sent comes
// back with Qualifying == false; models.ErrInsufficientData means the
// window was too short to say anything.
type Evaluator interface {
	Name() string
	Evaluate(w *models.Window) (models.Signal, error)
}

func lastDigits(ticks []models.Tick) []int {
	return lo.Map(ticks, func(t models.Tick, _ int) int {
		return helper.LastDigit(t.Quote, t.PipSize)
	})
}

func symbolOf(ticks []models.Tick) string {
	if len(ticks) == 0 {
		return ""
	}
	return ticks[len(ticks)-1].Symbol
}
