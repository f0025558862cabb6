package config

import (
	"time"

	serrors "git.home.luguber.info/inful/sitemapper/internal/errors"
)

// ValidateConfig validates a configuration after defaults were applied.
func ValidateConfig(cfg *Config) error {
	if cfg.Version != CurrentVersion {
		return serrors.ValidationFailed("version", "unsupported configuration version "+cfg.Version+" (expected "+CurrentVersion+")")
	}

	if cfg.Sources.Sitemap == cfg.Output.Sitemap {
		return serrors.ValidationFailed("output.sitemap", "must differ from sources.sitemap")
	}

	if _, err := time.ParseDuration(cfg.Watch.Debounce); err != nil {
		return serrors.ValidationFailed("watch.debounce", err.Error())
	}
	if cfg.Watch.Interval != "" {
		d, err := time.ParseDuration(cfg.Watch.Interval)
		if err != nil {
			return serrors.ValidationFailed("watch.interval", err.Error())
		}
		if d < time.Second {
			return serrors.ValidationFailed("watch.interval", "must be at least 1s")
		}
	}

	if cfg.Notify.Enabled && cfg.Notify.Subject == "" {
		return serrors.ValidationFailed("notify.subject", "must not be empty when notify is enabled")
	}
	if cfg.History.Keep < 0 {
		return serrors.ValidationFailed("history.keep", "must not be negative")
	}

	if cfg.Notify.Retries < 0 {
		return serrors.ValidationFailed("notify.retries", "must not be negative")
	}
	switch cfg.Notify.Backoff {
	case "", "fixed", "linear", "exponential":
	default:
		return serrors.ValidationFailed("notify.backoff", "must be fixed, linear or exponential")
	}
	if cfg.Notify.RetryDelay != "" {
		if _, err := time.ParseDuration(cfg.Notify.RetryDelay); err != nil {
			return serrors.ValidationFailed("notify.retry_delay", err.Error())
		}
	}
	return nil
}
