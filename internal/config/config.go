package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken        string        `envconfig:"BOT_TOKEN"`
	DBPath          string        `envconfig:"DB_PATH" default:"./data/hydration.db"`
	DefaultTZ       string        `envconfig:"DEFAULT_TZ" default:"Europe/Moscow"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`      // debug|info|warn|error
	LogEncoding     string        `envconfig:"LOG_ENCODING" default:"json"`   // json|console
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`     // healthz
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"1m"` // scheduler tick
	MCPProfileID    int64         `envconfig:"MCP_PROFILE_ID" default:"1"`    // profile served over MCP
}

// ErrMissingBotToken is returned by RequireBot when BOT_TOKEN is unset.
var ErrMissingBotToken = errors.New("BOT_TOKEN is required")

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// RequireBot checks the settings only the Telegram process needs.
func (c Config) RequireBot() error {
	if c.BotToken == "" {
		return ErrMissingBotToken
	}
	return nil
}
