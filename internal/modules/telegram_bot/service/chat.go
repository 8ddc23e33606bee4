package service

import (
	"os"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// chatTarget is either a numeric chat id or a public @channel.
type chatTarget struct {
	id      int64
	channel string
}

func parseChat(raw string) (chatTarget, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "@") {
		if len(raw) == 1 {
			return chatTarget{}, errors.New("telegram: empty channel name")
		}
		return chatTarget{channel: raw}, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return chatTarget{}, errors.Wrapf(err, "telegram: chat id %q is neither numeric nor @channel", raw)
	}
	return chatTarget{id: id}, nil
}

func (c chatTarget) apply(b *tgbot.BaseChat) {
	if c.channel != "" {
		b.ChatID = 0
		b.ChannelUsername = c.channel
	}
}

// mediaFile resolves a configured media reference: URLs are passed to
// Telegram, existing local files are uploaded, anything else is a file_id.
func mediaFile(ref string) tgbot.RequestFileData {
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return tgbot.FileURL(ref)
	case isFile(ref):
		return tgbot.FilePath(ref)
	default:
		return tgbot.FileID(ref)
	}
}

func isFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}
