package config

import (
	"fmt"
	"time"
)

const (
	defaultSitemapSource  = "config/raw_sitemap.yml"
	defaultPageTemplates  = "config/page_templates.yml"
	defaultBlockTemplates = "config/block_templates.yml"
	defaultArtifact       = "config/sitemap.yml"
	defaultManifest       = ".sitemapper/manifest.json"
	defaultHistory        = ".sitemapper/history.db"
	defaultSnapshotDir    = ".sitemapper/snapshots"
	defaultTextfile       = ".sitemapper/sitemapper.prom"
	defaultNATSURL        = "nats://127.0.0.1:4222"
	defaultSubject        = "sitemapper.generated"
	defaultDebounce       = 500 * time.Millisecond
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

type sourcesDefaults struct{}

func (sourcesDefaults) Domain() string { return "sources" }

func (sourcesDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Sources.Sitemap == "" {
		cfg.Sources.Sitemap = defaultSitemapSource
	}
	if cfg.Sources.PageTemplates == "" {
		cfg.Sources.PageTemplates = defaultPageTemplates
	}
	if cfg.Sources.BlockTemplates == "" {
		cfg.Sources.BlockTemplates = defaultBlockTemplates
	}
	return nil
}

type outputDefaults struct{}

func (outputDefaults) Domain() string { return "output" }

func (outputDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Sitemap == "" {
		cfg.Output.Sitemap = defaultArtifact
	}
	if cfg.Output.Manifest == "" {
		cfg.Output.Manifest = defaultManifest
	}
	return nil
}

type sideChannelDefaults struct{}

func (sideChannelDefaults) Domain() string { return "side-channels" }

func (sideChannelDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.History.Path == "" {
		cfg.History.Path = defaultHistory
	}
	if cfg.History.SnapshotDir == "" {
		cfg.History.SnapshotDir = defaultSnapshotDir
	}
	if cfg.Metrics.Textfile == "" {
		cfg.Metrics.Textfile = defaultTextfile
	}
	if cfg.Notify.URL == "" {
		cfg.Notify.URL = defaultNATSURL
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = defaultSubject
	}
	return nil
}

type runtimeDefaults struct{}

func (runtimeDefaults) Domain() string { return "runtime" }

func (runtimeDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = defaultDebounce.String()
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}

var defaultAppliers = []DefaultApplier{
	sourcesDefaults{},
	outputDefaults{},
	sideChannelDefaults{},
	runtimeDefaults{},
}

// applyDefaults applies default values to configuration
func applyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}
