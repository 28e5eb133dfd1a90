package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL string
	SaveTTL  time.Duration

	AutosaveInterval time.Duration
	AutosaveSlot     uuid.UUID // uuid.Nil means pick one at startup

	WorldSeed   int64
	EnterRadius float64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),
	}

	var err error
	if cfg.SaveTTL, err = parseDuration("SAVE_TTL", "0"); err != nil {
		return nil, err
	}
	if cfg.AutosaveInterval, err = parseDuration("AUTOSAVE_INTERVAL", "5m"); err != nil {
		return nil, err
	}

	if slot := getEnv("AUTOSAVE_SLOT", ""); slot != "" {
		if cfg.AutosaveSlot, err = uuid.Parse(slot); err != nil {
			return nil, fmt.Errorf("invalid AUTOSAVE_SLOT %q: %w", slot, err)
		}
	}

	seed := getEnv("WORLD_SEED", "0")
	if cfg.WorldSeed, err = strconv.ParseInt(seed, 10, 64); err != nil {
		return nil, fmt.Errorf("invalid WORLD_SEED %q: %w", seed, err)
	}

	radius := getEnv("ENTER_RADIUS", "80")
	if cfg.EnterRadius, err = strconv.ParseFloat(radius, 64); err != nil {
		return nil, fmt.Errorf("invalid ENTER_RADIUS %q: %w", radius, err)
	}
	if cfg.EnterRadius <= 0 {
		return nil, fmt.Errorf("ENTER_RADIUS must be positive, got %g", cfg.EnterRadius)
	}

	return cfg, nil
}

// parseDuration accepts Go durations ("90s", "5m") or a bare number of
// seconds.
func parseDuration(key, defaultValue string) (time.Duration, error) {
	raw := getEnv(key, defaultValue)
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("%s must not be negative, got %d", key, secs)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", key, d)
	}
	return d, nil
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

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
