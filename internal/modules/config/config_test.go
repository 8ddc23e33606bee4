package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
}

func TestNewConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := NewConfig("")
	require.NoError(t, err)

	assert.Equal(t, "1089", cfg.Deriv.AppID)
	assert.Equal(t, []string{"R_10", "R_25", "R_50", "R_75", "R_100"}, cfg.Deriv.Markets)
	assert.Equal(t, 30*time.Minute, cfg.Dispatcher.Interval)
	assert.Equal(t, 60, cfg.Dispatcher.WindowSize)
	assert.Equal(t, 3, cfg.Telegram.DeliveryAttempts)
	assert.Equal(t, 35, cfg.Evaluator.AdaptiveUnder)
	assert.Equal(t, 65, cfg.Evaluator.AdaptiveOver)
	assert.Empty(t, cfg.Health.Addr)
	assert.Empty(t, cfg.DB)
}

func TestNewConfigFromFile(t *testing.T) {
	cfg, err := NewConfig(Path(filepath.Join("testdata", "config.yaml")))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "file-token", cfg.Telegram.Token)
	assert.Equal(t, "@signals", cfg.Telegram.ChatID)
	assert.Equal(t, 5, cfg.Telegram.DeliveryAttempts)
	assert.Equal(t, "4242", cfg.Deriv.AppID)
	assert.Equal(t, []string{"R_50", "R_100"}, cfg.Deriv.Markets)
	assert.Equal(t, 5*time.Second, cfg.Deriv.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.Dispatcher.Interval)
	assert.Equal(t, 9, cfg.Evaluator.MostAppearingMin)
	assert.Equal(t, "https://example.com/ad.jpg", cfg.Media.ImageRef)
	// untouched keys keep their defaults
	assert.Equal(t, 20, cfg.Evaluator.AdaptiveMinWindow)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("MARKETS", "1HZ100V, R_75")
	t.Setenv("SIGNAL_INTERVAL_MINUTES", "5")
	t.Setenv("FEED_TIMEOUT", "3s")
	t.Setenv("ADAPTIVE_OVER", "80")
	t.Setenv("MEDIA_VIDEO_URL", "https://example.com/ad.mp4")

	cfg, err := NewConfig(Path(filepath.Join("testdata", "config.yaml")))
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Telegram.Token)
	assert.Equal(t, []string{"1HZ100V", "R_75"}, cfg.Deriv.Markets)
	assert.Equal(t, 5*time.Minute, cfg.Dispatcher.Interval)
	assert.Equal(t, 3*time.Second, cfg.Deriv.Timeout)
	assert.Equal(t, 80, cfg.Evaluator.AdaptiveOver)
	assert.Equal(t, "https://example.com/ad.mp4", cfg.Media.VideoRef)
}

func TestNewConfigMissingFile(t *testing.T) {
	setRequired(t)

	_, err := NewConfig(Path(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "no token", mutate: func(c *Config) { c.Telegram.Token = "" }},
		{name: "no chat", mutate: func(c *Config) { c.Telegram.ChatID = "" }},
		{name: "no markets", mutate: func(c *Config) { c.Deriv.Markets = nil }},
		{name: "zero interval", mutate: func(c *Config) { c.Dispatcher.Interval = 0 }},
		{name: "zero attempts", mutate: func(c *Config) { c.Telegram.DeliveryAttempts = 0 }},
		{name: "window below adaptive min", mutate: func(c *Config) { c.Dispatcher.WindowSize = 10 }},
		{name: "inverted bounds", mutate: func(c *Config) { c.Evaluator.AdaptiveUnder = 70 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := defaults()
			c.Telegram.Token = "t"
			c.Telegram.ChatID = "1"
			require.NoError(t, c.Validate())

			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
