package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/phishdefense/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                  ":8080",
		DBPath:                "test.db",
		LogLevel:              "INFO",
		RoundSeconds:          300,
		RoundSize:             10,
		HistoryLimit:          15,
		HistoryKey:            "tng-phish-scores",
		LeaderboardDisplay:    8,
		ShareURL:              "http://localhost:8080/",
		SessionTTLMinutes:     30,
		CapabilityWorkerCount: 1,
		CapabilityQueueSize:   16,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = "  "

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_RoundSeconds(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		wantErr bool
	}{
		{name: "zero", seconds: 0, wantErr: true},
		{name: "negative", seconds: -5, wantErr: true},
		{name: "too long", seconds: 3601, wantErr: true},
		{name: "minimum", seconds: 1},
		{name: "default", seconds: 300},
		{name: "maximum", seconds: 3600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.RoundSeconds = tt.seconds

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "ROUND_SECONDS")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{name: "invalid level", level: "INVALID"},
		{name: "empty level", level: ""},
		{name: "lowercase valid level", level: "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.level == "debug" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			}
		})
	}
}

func TestValidate_MissingCatalogFile(t *testing.T) {
	cfg := validConfig()
	cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_PATH")
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{LogLevel: "INVALID"}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "ROUND_SECONDS")
	assert.Contains(t, errStr, "ROUND_SIZE")
	assert.Contains(t, errStr, "HISTORY_LIMIT")
	assert.Contains(t, errStr, "HISTORY_KEY")
	assert.Contains(t, errStr, "LEADERBOARD_DISPLAY")
	assert.Contains(t, errStr, "SESSION_TTL_MINUTES")
	assert.Contains(t, errStr, "CAPABILITY_WORKER_COUNT")
	assert.Contains(t, errStr, "CAPABILITY_QUEUE_SIZE")
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DB_PATH", "ROUND_SECONDS", "ROUND_SIZE", "HISTORY_LIMIT", "HISTORY_KEY"} {
		t.Setenv(key, "")
	}

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 300, cfg.RoundSeconds)
	assert.Equal(t, 10, cfg.RoundSize)
	assert.Equal(t, 15, cfg.HistoryLimit)
	assert.Equal(t, "tng-phish-scores", cfg.HistoryKey)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("ROUND_SECONDS", "120")
	t.Setenv("ROUND_SIZE", "not-a-number")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 120, cfg.RoundSeconds)
	assert.Equal(t, 10, cfg.RoundSize, "invalid integers fall back to the default")
}
