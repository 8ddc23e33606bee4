package service

import (
	"context"
	"net/url"
	"sync/atomic"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/pkg/tracing"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Client fetches recent ticks from the Deriv WebSocket API. Every fetch uses
// its own connection; nothing is cached between calls.
type Client struct {
	url      string
	timeout  time.Duration
	wsDialer *websocket.Dialer
	log      *zap.Logger

	reqID atomic.Int64
}

func NewClient(cfg *config.Config, log *zap.Logger) (*Client, error) {
	u, err := url.Parse(cfg.Deriv.WSURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse DERIV_WS_URL")
	}
	q := u.Query()
	q.Set("app_id", cfg.Deriv.AppID)
	u.RawQuery = q.Encode()

	return &Client{
		url:      u.String(),
		timeout:  cfg.Deriv.Timeout,
		wsDialer: &websocket.Dialer{HandshakeTimeout: cfg.Deriv.Timeout},
		log:      log.Named("deriv"),
	}, nil
}

// FetchRecentTicks returns up to n latest ticks for symbol, oldest first.
// Every failure is reported as models.ErrFeedUnavailable.
func (c *Client) FetchRecentTicks(ctx context.Context, symbol string, n int) (ticks []models.Tick, err error) {
	span, ctx := tracing.StartSpan(ctx, "deriv.ticks_history")
	span.SetTag("symbol", symbol)
	defer func() { tracing.Finish(span, err) }()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, _, err := c.wsDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, errors.Wrapf(models.ErrFeedUnavailable, "dial: %v", err)
	}
	defer conn.Close()

	// unblock ReadMessage when the caller gives up
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(dl)
		_ = conn.SetWriteDeadline(dl)
	}

	req := historyRequest{
		TicksHistory: symbol,
		Count:        n,
		End:          "latest",
		Style:        "ticks",
		ReqID:        c.reqID.Add(1),
	}
	payload, err := sonic.Marshal(req)
	if err != nil {
		return nil, errors.Wrapf(models.ErrFeedUnavailable, "encode request: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return nil, errors.Wrapf(models.ErrFeedUnavailable, "send request: %v", err)
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrapf(models.ErrFeedUnavailable, "read: %v", ctx.Err())
			}
			return nil, errors.Wrapf(models.ErrFeedUnavailable, "read: %v", err)
		}

		var frame historyResponse
		if err := sonic.Unmarshal(msg, &frame); err != nil {
			return nil, errors.Wrapf(models.ErrFeedUnavailable, "decode frame: %v", err)
		}
		if frame.ReqID != req.ReqID {
			c.log.Debug("skip unrelated frame", zap.String("msg_type", frame.MsgType), zap.Int64("req_id", frame.ReqID))
			continue
		}

		out, ferr := frame.ticks(symbol, n)
		if ferr != nil {
			return nil, errors.Wrapf(models.ErrFeedUnavailable, "%s: %v", symbol, ferr)
		}
		c.log.Debug("ticks fetched", zap.String("symbol", symbol), zap.Int("count", len(out)))
		return out, nil
	}
}
