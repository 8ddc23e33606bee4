package service

import (
	"context"
	"net/http"
	"time"

	"signal_bot/internal/models"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// deliver sends c, retrying transport errors, 5xx and 429 answers up to
// t.attempts times. Any other Bot API rejection is final.
func (t *Telegram) deliver(ctx context.Context, what string, c tgbot.Chattable) error {
	var lastErr error
	for attempt := 1; attempt <= t.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		_, err := t.bot.Send(c)
		if err == nil {
			if attempt > 1 {
				t.log.Info("delivered after retry", zap.String("kind", what), zap.Int("attempt", attempt))
			}
			return nil
		}
		lastErr = err

		wait, retry := t.retryAfter(err)
		if !retry || attempt == t.attempts {
			break
		}
		t.log.Warn("send failed, retrying",
			zap.String("kind", what),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		if err := t.sleep(ctx, wait); err != nil {
			lastErr = err
			break
		}
	}
	return errors.Wrapf(models.ErrDeliveryFailed, "send %s: %v", what, lastErr)
}

// retryAfter reports whether err is worth another attempt and how long to
// wait before it.
func (t *Telegram) retryAfter(err error) (time.Duration, bool) {
	apiErr, ok := asAPIError(err)
	if !ok {
		return t.backoff, true
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		if apiErr.RetryAfter > 0 {
			return time.Duration(apiErr.RetryAfter) * time.Second, true
		}
		return t.backoff, true
	case apiErr.Code >= http.StatusInternalServerError:
		return t.backoff, true
	default:
		return 0, false
	}
}

func asAPIError(err error) (tgbot.Error, bool) {
	var p *tgbot.Error
	if errors.As(err, &p) && p != nil {
		return *p, true
	}
	var v tgbot.Error
	if errors.As(err, &v) {
		return v, true
	}
	return tgbot.Error{}, false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
