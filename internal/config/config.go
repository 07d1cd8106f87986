package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	Environment string
	LogLevel    slog.Level
	LogFile     string

	StorageBackend string
	RedisURL       string
	SQLitePath     string
	BadgeID        string

	WorldFile       string
	WrapWidth       int
	CheatCode       string
	FilterProfanity bool

	WiFiSSID     string
	WiFiPassword string

	FirmwareVersion string
	UpdateURL       string
	FirmwarePath    string

	SerialListen      string
	LegacyBadgeNearby bool
	IndicatorInterval time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		LogLevel:          parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:           getEnv("LOG_FILE", ""),
		StorageBackend:    strings.ToLower(getEnv("STORAGE_BACKEND", BackendSQLite)),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SQLitePath:        getEnv("SQLITE_PATH", "badge.db"),
		BadgeID:           getEnv("BADGE_ID", "default"),
		WorldFile:         getEnv("WORLD_FILE", ""),
		CheatCode:         getEnv("CHEAT_CODE", "motherlode"),
		WiFiSSID:          getEnv("WIFI_SSID", "OzSec"),
		WiFiPassword:      getEnv("WIFI_PASSWORD", ""),
		FirmwareVersion:   getEnv("FIRMWARE_VERSION", "1.0.0"),
		UpdateURL:         getEnv("UPDATE_URL", ""),
		FirmwarePath:      getEnv("FIRMWARE_PATH", "firmware.bin"),
		SerialListen:      getEnv("SERIAL_LISTEN", ""),
	}

	var errs []error
	var err error
	if cfg.WrapWidth, err = strconv.Atoi(getEnv("WRAP_WIDTH", "100")); err != nil || cfg.WrapWidth < 20 {
		errs = append(errs, fmt.Errorf("WRAP_WIDTH must be an integer of at least 20"))
	}
	if cfg.FilterProfanity, err = strconv.ParseBool(getEnv("FILTER_PROFANITY", "true")); err != nil {
		errs = append(errs, fmt.Errorf("FILTER_PROFANITY: %w", err))
	}
	if cfg.LegacyBadgeNearby, err = strconv.ParseBool(getEnv("LEGACY_BADGE_NEARBY", "false")); err != nil {
		errs = append(errs, fmt.Errorf("LEGACY_BADGE_NEARBY: %w", err))
	}
	if cfg.IndicatorInterval, err = time.ParseDuration(getEnv("INDICATOR_INTERVAL", "250ms")); err != nil || cfg.IndicatorInterval <= 0 {
		errs = append(errs, fmt.Errorf("INDICATOR_INTERVAL must be a positive duration"))
	}

	switch cfg.StorageBackend {
	case BackendMemory, BackendSQLite, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND %q is not one of memory, sqlite, redis", cfg.StorageBackend))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
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
