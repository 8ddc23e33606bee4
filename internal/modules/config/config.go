package config

import (
	"os"
	"strings"
	"time"

	"signal_bot/internal/helper"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"

	defaultDerivURL = "wss://ws.derivws.com/websockets/v3"
	defaultMarkets  = "R_10,R_25,R_50,R_75,R_100"
)

// Path is the optional YAML config file; environment variables win over it.
type Path string

// Config is built once at startup and never mutated afterwards.
type Config struct {
	LogLevel string `yaml:"log_level"`

	Telegram struct {
		Token            string        `yaml:"token"`
		ChatID           string        `yaml:"chat_id"` // -100123... or @channel
		Timeout          time.Duration `yaml:"timeout"`
		DeliveryAttempts int           `yaml:"delivery_attempts"`
		DeliveryBackoff  time.Duration `yaml:"delivery_backoff"`
	} `yaml:"telegram"`

	Deriv struct {
		AppID   string        `yaml:"app_id"`
		WSURL   string        `yaml:"ws_url"`
		Markets []string      `yaml:"markets"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"deriv"`

	Dispatcher struct {
		Interval     time.Duration `yaml:"interval"`
		CycleTimeout time.Duration `yaml:"cycle_timeout"`
		WindowSize   int           `yaml:"window_size"`
	} `yaml:"dispatcher"`

	Evaluator struct {
		MostAppearingMin  int `yaml:"most_appearing_min"`
		AdaptiveMinWindow int `yaml:"adaptive_min_window"`
		AdaptiveUnder     int `yaml:"adaptive_under"` // percent, exclusive
		AdaptiveOver      int `yaml:"adaptive_over"`  // percent, exclusive
	} `yaml:"evaluator"`

	Media struct {
		ImageRef string `yaml:"image"`
		VideoRef string `yaml:"video"`
	} `yaml:"media"`

	Health struct {
		Addr string `yaml:"addr"` // empty = disabled
	} `yaml:"health"`

	DB string `yaml:"db_dsn"` // empty = journal disabled

	Tracing struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"tracing"`
}

func defaults() Config {
	var c Config
	c.LogLevel = "info"
	c.Telegram.Timeout = 30 * time.Second
	c.Telegram.DeliveryAttempts = 3
	c.Telegram.DeliveryBackoff = 2 * time.Second
	c.Deriv.AppID = "1089"
	c.Deriv.WSURL = defaultDerivURL
	c.Deriv.Markets = helper.SplitList(defaultMarkets)
	c.Deriv.Timeout = 15 * time.Second
	c.Dispatcher.Interval = 30 * time.Minute
	c.Dispatcher.CycleTimeout = 2 * time.Minute
	c.Dispatcher.WindowSize = 60
	c.Evaluator.MostAppearingMin = 12
	c.Evaluator.AdaptiveMinWindow = 20
	c.Evaluator.AdaptiveUnder = 35
	c.Evaluator.AdaptiveOver = 65
	c.Tracing.Port = 6831
	return c
}

// NewConfig loads defaults, then the YAML file (if any), then the environment
// (including a local .env), and validates the result.
func NewConfig(path Path) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	file := string(path)
	if file == "" {
		file = os.Getenv(configFilePathENV)
	}
	if file != "" {
		if err := decodeFile(file, &cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(viper.New(), &cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeFile(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return errors.Wrap(err, "open config file")
	}
	defer func() {
		_ = f.Close()
	}()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return errors.Wrapf(err, "decode config file %s", file)
	}
	return nil
}

func applyEnv(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = strings.TrimSpace(v.GetString(key))
		}
	}
	num := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v.IsSet(key) {
			*dst = v.GetDuration(key)
		}
	}

	str("LOG_LEVEL", &cfg.LogLevel)

	str("TELEGRAM_BOT_TOKEN", &cfg.Telegram.Token)
	str("TELEGRAM_CHAT_ID", &cfg.Telegram.ChatID)
	dur("TELEGRAM_TIMEOUT", &cfg.Telegram.Timeout)
	num("DELIVERY_ATTEMPTS", &cfg.Telegram.DeliveryAttempts)
	dur("DELIVERY_BACKOFF", &cfg.Telegram.DeliveryBackoff)

	str("DERIV_APP_ID", &cfg.Deriv.AppID)
	str("DERIV_WS_URL", &cfg.Deriv.WSURL)
	if v.IsSet("MARKETS") {
		cfg.Deriv.Markets = helper.SplitList(v.GetString("MARKETS"))
	}
	dur("FEED_TIMEOUT", &cfg.Deriv.Timeout)

	if v.IsSet("SIGNAL_INTERVAL_MINUTES") {
		cfg.Dispatcher.Interval = time.Duration(v.GetInt("SIGNAL_INTERVAL_MINUTES")) * time.Minute
	}
	dur("CYCLE_TIMEOUT", &cfg.Dispatcher.CycleTimeout)
	num("TICKS_WINDOW", &cfg.Dispatcher.WindowSize)

	num("MOST_APPEARING_MIN", &cfg.Evaluator.MostAppearingMin)
	num("ADAPTIVE_MIN_WINDOW", &cfg.Evaluator.AdaptiveMinWindow)
	num("ADAPTIVE_UNDER", &cfg.Evaluator.AdaptiveUnder)
	num("ADAPTIVE_OVER", &cfg.Evaluator.AdaptiveOver)

	str("MEDIA_IMAGE_URL", &cfg.Media.ImageRef)
	str("MEDIA_VIDEO_URL", &cfg.Media.VideoRef)

	str("HEALTH_ADDR", &cfg.Health.Addr)
	str("DATABASE_DSN", &cfg.DB)
	str("JAEGER_HOST", &cfg.Tracing.Host)
	num("JAEGER_PORT", &cfg.Tracing.Port)
}

func (c *Config) Validate() error {
	switch {
	case c.Telegram.Token == "":
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	case c.Telegram.ChatID == "":
		return errors.New("TELEGRAM_CHAT_ID is required")
	case len(c.Deriv.Markets) == 0:
		return errors.New("MARKETS must name at least one symbol")
	case c.Dispatcher.Interval <= 0:
		return errors.New("SIGNAL_INTERVAL_MINUTES must be positive")
	case c.Dispatcher.CycleTimeout <= 0:
		return errors.New("CYCLE_TIMEOUT must be positive")
	case c.Deriv.Timeout <= 0 || c.Telegram.Timeout <= 0:
		return errors.New("FEED_TIMEOUT and TELEGRAM_TIMEOUT must be positive")
	case c.Telegram.DeliveryAttempts < 1:
		return errors.New("DELIVERY_ATTEMPTS must be at least 1")
	case c.Evaluator.AdaptiveMinWindow < 1:
		return errors.New("ADAPTIVE_MIN_WINDOW must be positive")
	case c.Dispatcher.WindowSize < c.Evaluator.AdaptiveMinWindow:
		return errors.Errorf("TICKS_WINDOW (%d) is smaller than ADAPTIVE_MIN_WINDOW (%d)",
			c.Dispatcher.WindowSize, c.Evaluator.AdaptiveMinWindow)
	case c.Evaluator.AdaptiveUnder >= c.Evaluator.AdaptiveOver:
		return errors.New("ADAPTIVE_UNDER must be < ADAPTIVE_OVER")
	}
	return nil
}
