package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "LOG_LEVEL", "LOG_FILE", "DATA_DIR", "SCENARIO", "REDIS_URL", "EVENT_CHANNEL_PREFIX"} {
		t.Setenv(key, "") // restores the original value after the test
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "witch_kitchen.json", cfg.Scenario)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.DataDir)
	assert.Equal(t, "cauldron:events:", cfg.EventChannelPrefix)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FILE", "/tmp/cauldron.log")
	t.Setenv("DATA_DIR", "/srv/cauldron")
	t.Setenv("SCENARIO", "first_batch.json")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("EVENT_CHANNEL_PREFIX", "test:")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "/tmp/cauldron.log", cfg.LogFile)
	assert.Equal(t, "/srv/cauldron", cfg.DataDir)
	assert.Equal(t, "first_batch.json", cfg.Scenario)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "test:", cfg.EventChannelPrefix)
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
		"loud":    slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), "level %q", in)
	}
}
