package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	Environment  string
	LogLevel     slog.Level
	RedisURL     string
	DataDir      string
	TickInterval time.Duration
}

// Load reads configuration from a .env file (when present) and the
// environment. Real environment variables win over .env entries.
func Load() *Config {
	// A missing .env is fine; deployments set real env vars.
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
		DataDir:      getEnv("DATA_DIR", "./data"),
		TickInterval: parseDuration(getEnv("TICK_INTERVAL", "1s")),
	}
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

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
