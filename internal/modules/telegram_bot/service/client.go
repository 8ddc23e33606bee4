package service

import (
	"context"
	"net/http"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/pkg/tracing"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// botSender is the part of *tgbot.BotAPI the notifier needs.
type botSender interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
}

// Telegram delivers notifications to a single chat or channel.
type Telegram struct {
	bot      botSender
	chat     chatTarget
	attempts int
	backoff  time.Duration
	log      *zap.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

func NewTelegram(cfg *config.Config, log *zap.Logger) (*Telegram, error) {
	client := &http.Client{Timeout: cfg.Telegram.Timeout}
	b, err := tgbot.NewBotAPIWithClient(cfg.Telegram.Token, tgbot.APIEndpoint, client)
	if err != nil {
		return nil, errors.Wrap(err, "telegram: init bot")
	}
	log.Info("telegram bot authorized", zap.String("username", b.Self.UserName))

	return newTelegram(b, cfg, log)
}

func newTelegram(bot botSender, cfg *config.Config, log *zap.Logger) (*Telegram, error) {
	chat, err := parseChat(cfg.Telegram.ChatID)
	if err != nil {
		return nil, err
	}

	attempts := cfg.Telegram.DeliveryAttempts
	if attempts < 1 {
		attempts = 1
	}

	return &Telegram{
		bot:      bot,
		chat:     chat,
		attempts: attempts,
		backoff:  cfg.Telegram.DeliveryBackoff,
		log:      log.Named("telegram"),
		sleep:    sleepCtx,
	}, nil
}

// Send posts the captioned image (or the bare caption when there is no
// image) and then the video, if any. The video is never sent after the
// first message failed.
func (t *Telegram) Send(ctx context.Context, n models.Notification) (err error) {
	span, ctx := tracing.StartSpan(ctx, "telegram.send")
	span.SetTag("symbol", n.Symbol)
	defer func() { tracing.Finish(span, err) }()

	if n.HasImage() {
		err = t.deliver(ctx, "photo", t.photo(n))
	} else {
		err = t.deliver(ctx, "message", t.message(n))
	}
	if err != nil {
		return err
	}

	if n.HasVideo() {
		return t.deliver(ctx, "video", t.video(n))
	}
	return nil
}

func (t *Telegram) message(n models.Notification) tgbot.MessageConfig {
	m := tgbot.NewMessage(t.chat.id, n.Caption)
	m.ParseMode = tgbot.ModeMarkdown
	m.DisableWebPagePreview = true
	t.chat.apply(&m.BaseChat)
	return m
}

func (t *Telegram) photo(n models.Notification) tgbot.PhotoConfig {
	p := tgbot.NewPhoto(t.chat.id, mediaFile(n.ImageRef))
	p.Caption = n.Caption
	p.ParseMode = tgbot.ModeMarkdown
	t.chat.apply(&p.BaseChat)
	return p
}

func (t *Telegram) video(n models.Notification) tgbot.VideoConfig {
	v := tgbot.NewVideo(t.chat.id, mediaFile(n.VideoRef))
	v.Caption = "Sponsored video `" + n.Symbol + "`"
	v.ParseMode = tgbot.ModeMarkdown
	v.SupportsStreaming = true
	t.chat.apply(&v.BaseChat)
	return v
}
