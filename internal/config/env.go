package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// EnvLogLevel overrides logging.level when set.
const EnvLogLevel = "SITEMAPPER_LOG_LEVEL"

// loadEnvFiles loads .env and .env.local when present. Variables already set in
// the process environment are not overwritten.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			slog.Warn("Failed to load environment file", "file", envPath, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "file", envPath)
	}
}

func applyEnvOverrides(cfg *Config) {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.Logging.Level = LogLevel(lvl)
	}
}
