package models

import "github.com/pkg/errors"

var (
	// ErrFeedUnavailable: upstream feed unreachable, timed out or returned malformed data.
	ErrFeedUnavailable = errors.New("feed unavailable")
	// ErrInsufficientData: fewer ticks than an evaluator requires.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDeliveryFailed: the chat API rejected the call or timed out.
	ErrDeliveryFailed = errors.New("delivery failed")
)
