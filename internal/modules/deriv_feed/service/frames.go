package service

import (
	"time"

	"signal_bot/internal/models"

	"github.com/pkg/errors"
)

const defaultPipSize = 2

// historyRequest: https://api.deriv.com/api-explorer#ticks_history
type historyRequest struct {
	TicksHistory string `json:"ticks_history"`
	Count        int    `json:"count"`
	End          string `json:"end"`
	Style        string `json:"style"`
	ReqID        int64  `json:"req_id"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type history struct {
	Prices []float64 `json:"prices"`
	Times  []int64   `json:"times"`
}

type historyResponse struct {
	MsgType string    `json:"msg_type"`
	ReqID   int64     `json:"req_id"`
	PipSize *float64  `json:"pip_size"`
	History *history  `json:"history"`
	Error   *apiError `json:"error"`
}

// ticks converts a history frame into at most n ticks, oldest first.
func (r historyResponse) ticks(symbol string, n int) ([]models.Tick, error) {
	if r.Error != nil {
		return nil, errors.Errorf("deriv error %s: %s", r.Error.Code, r.Error.Message)
	}
	if r.History == nil {
		return nil, errors.Errorf("unexpected msg_type %q without history", r.MsgType)
	}
	if len(r.History.Prices) != len(r.History.Times) {
		return nil, errors.Errorf("history has %d prices but %d times",
			len(r.History.Prices), len(r.History.Times))
	}

	pip := defaultPipSize
	if r.PipSize != nil {
		pip = int(*r.PipSize)
	}

	prices, times := r.History.Prices, r.History.Times
	if n > 0 && len(prices) > n {
		prices = prices[len(prices)-n:]
		times = times[len(times)-n:]
	}

	out := make([]models.Tick, len(prices))
	for i, p := range prices {
		out[i] = models.Tick{
			Symbol:  symbol,
			Quote:   p,
			Seq:     i,
			Epoch:   time.Unix(times[i], 0).UTC(),
			PipSize: pip,
		}
	}
	return out, nil
}
