// Package config loads the sitemapper project configuration (sitemapper.yaml).
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	serrors "git.home.luguber.info/inful/sitemapper/internal/errors"
)

// CurrentVersion is the configuration format version written by Init.
const CurrentVersion = "1.0"

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "sitemapper.yaml"

// Config represents the project configuration.
type Config struct {
	Version string        `yaml:"version"`
	Sources SourcesConfig `yaml:"sources"`
	Output  OutputConfig  `yaml:"output"`
	History HistoryConfig `yaml:"history"`
	Metrics MetricsConfig `yaml:"metrics"`
	Notify  NotifyConfig  `yaml:"notify"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`

	// BaseDir anchors relative paths. It is the directory of the loaded file.
	BaseDir string `yaml:"-"`
}

// SourcesConfig names the three input documents.
type SourcesConfig struct {
	Sitemap        string `yaml:"sitemap"`         // Raw sitemap (sequence of pages)
	PageTemplates  string `yaml:"page_templates"`  // Page template document
	BlockTemplates string `yaml:"block_templates"` // Block template document
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Sitemap       string `yaml:"sitemap"`        // Generated artifact
	Manifest      string `yaml:"manifest"`       // Build manifest (JSON); empty disables it
	SkipUnchanged bool   `yaml:"skip_unchanged"` // Skip the write when inputs match the last manifest
}

// HistoryConfig controls the SQLite build history.
type HistoryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	Snapshots   bool   `yaml:"snapshots"`    // Keep a copy of every generated artifact
	SnapshotDir string `yaml:"snapshot_dir"` // Content-addressed snapshot store
	Keep        int    `yaml:"keep"`         // Builds whose snapshots are kept; 0 keeps all
}

// MetricsConfig controls Prometheus textfile export.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Textfile string `yaml:"textfile"`
}

// NotifyConfig controls NATS build notifications.
type NotifyConfig struct {
	Enabled    bool   `yaml:"enabled"`
	URL        string `yaml:"url"`
	Subject    string `yaml:"subject"`
	Retries    int    `yaml:"retries"`     // Publish retries after the first failure
	Backoff    string `yaml:"backoff"`     // fixed|linear|exponential
	RetryDelay string `yaml:"retry_delay"` // Base delay between retries
}

// RetryDelayDuration returns the parsed base retry delay, or zero when unset.
func (n NotifyConfig) RetryDelayDuration() time.Duration {
	d, err := time.ParseDuration(n.RetryDelay)
	if err != nil {
		return 0
	}
	return d
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce string `yaml:"debounce"` // Quiet period after the last file event
	Interval string `yaml:"interval"` // Periodic rebuild interval; empty disables it
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// DebounceDuration returns the parsed debounce period.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return defaultDebounce
	}
	return d
}

// IntervalDuration returns the parsed rebuild interval, or zero when unset.
func (w WatchConfig) IntervalDuration() time.Duration {
	if w.Interval == "" {
		return 0
	}
	d, err := time.ParseDuration(w.Interval)
	if err != nil {
		return 0
	}
	return d
}

// Resolve returns p anchored at BaseDir unless it is absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion, BaseDir: "."}
	applyEnvOverrides(cfg)
	_ = applyDefaults(cfg)
	return cfg
}

// Load loads a configuration file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, serrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, serrors.ConfigInvalid(configPath, err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, serrors.ConfigInvalid(configPath, err)
	}
	config.BaseDir = filepath.Dir(configPath)

	applyEnvOverrides(&config)

	if err := applyDefaults(&config); err != nil {
		return nil, serrors.ConfigInvalid(configPath, err)
	}

	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
