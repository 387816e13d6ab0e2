// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/dvloznov/risk-radar/internal/insights"
)

// Supported state store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config holds the runtime settings for the engine.
type Config struct {
	Port         string
	GeminiAPIKey string
	GeminiModel  string
	StateBackend string
	SQLitePath   string
	LogLevel     string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", insights.DefaultModelName),
		StateBackend: getEnv("STATE_BACKEND", BackendMemory),
		SQLitePath:   getEnv("SQLITE_DB_PATH", "data/risk-radar.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	if cfg.StateBackend != BackendMemory && cfg.StateBackend != BackendSQLite {
		return nil, fmt.Errorf("unsupported STATE_BACKEND %q (want %q or %q)",
			cfg.StateBackend, BackendMemory, BackendSQLite)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
