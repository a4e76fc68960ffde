package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/phishdefense/internal/logger"
)

type Config struct {
	Addr                  string
	DBPath                string
	LogLevel              string
	RoundSeconds          int
	RoundSize             int
	HistoryLimit          int
	HistoryKey            string
	LeaderboardDisplay    int
	CatalogPath           string
	ShareURL              string
	SessionTTLMinutes     int
	CapabilityWorkerCount int
	CapabilityQueueSize   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "file:phishdefense.db"),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		RoundSeconds:          envIntOr("ROUND_SECONDS", 300),
		RoundSize:             envIntOr("ROUND_SIZE", 10),
		HistoryLimit:          envIntOr("HISTORY_LIMIT", 15),
		HistoryKey:            envOr("HISTORY_KEY", "tng-phish-scores"),
		LeaderboardDisplay:    envIntOr("LEADERBOARD_DISPLAY", 8),
		CatalogPath:           os.Getenv("CATALOG_PATH"),
		ShareURL:              envOr("SHARE_URL", "http://localhost:8080/"),
		SessionTTLMinutes:     envIntOr("SESSION_TTL_MINUTES", 30),
		CapabilityWorkerCount: envIntOr("CAPABILITY_WORKER_COUNT", 1),
		CapabilityQueueSize:   envIntOr("CAPABILITY_QUEUE_SIZE", 16),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if _, ok := logger.ParseLevelStrict(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if c.RoundSeconds < 1 || c.RoundSeconds > 3600 {
		errs = append(errs, fmt.Errorf("ROUND_SECONDS must be between 1 and 3600 (got %d)", c.RoundSeconds))
	}
	if c.RoundSize < 1 {
		errs = append(errs, fmt.Errorf("ROUND_SIZE must be positive (got %d)", c.RoundSize))
	}
	if c.HistoryLimit < 1 {
		errs = append(errs, fmt.Errorf("HISTORY_LIMIT must be positive (got %d)", c.HistoryLimit))
	}
	if strings.TrimSpace(c.HistoryKey) == "" {
		errs = append(errs, errors.New("HISTORY_KEY cannot be empty"))
	}
	if c.LeaderboardDisplay < 1 {
		errs = append(errs, fmt.Errorf("LEADERBOARD_DISPLAY must be positive (got %d)", c.LeaderboardDisplay))
	}
	if c.CatalogPath != "" {
		if _, err := os.Stat(c.CatalogPath); err != nil {
			errs = append(errs, fmt.Errorf("CATALOG_PATH %q: %w", c.CatalogPath, err))
		}
	}
	if c.SessionTTLMinutes < 1 {
		errs = append(errs, fmt.Errorf("SESSION_TTL_MINUTES must be positive (got %d)", c.SessionTTLMinutes))
	}
	if c.CapabilityWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("CAPABILITY_WORKER_COUNT must be positive (got %d)", c.CapabilityWorkerCount))
	}
	if c.CapabilityQueueSize < 1 {
		errs = append(errs, fmt.Errorf("CAPABILITY_QUEUE_SIZE must be positive (got %d)", c.CapabilityQueueSize))
	}

	return errors.Join(errs...)
}

// SessionTTL is how long an idle browser session is kept.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
