package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment        string `env:"ENVIRONMENT"          envDefault:"development"`
	LogLevelName       string `env:"LOG_LEVEL"            envDefault:"info"`
	LogFile            string `env:"LOG_FILE"`                                             // Console logs here, stdout belongs to the UI
	DataDir            string `env:"DATA_DIR"`                                             // Empty means the embedded scenarios
	Scenario           string `env:"SCENARIO"             envDefault:"witch_kitchen.json"` // Scenario file to play
	RedisURL           string `env:"REDIS_URL"`                                            // Empty disables event broadcasting
	EventChannelPrefix string `env:"EVENT_CHANNEL_PREFIX" envDefault:"cauldron:events:"`

	LogLevel slog.Level `env:"-"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	return &cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
