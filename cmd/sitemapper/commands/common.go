package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitemapper/internal/build"
	"git.home.luguber.info/inful/sitemapper/internal/config"
	"git.home.luguber.info/inful/sitemapper/internal/eventstore"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
	"git.home.luguber.info/inful/sitemapper/internal/metrics"
	"git.home.luguber.info/inful/sitemapper/internal/notify"
	"git.home.luguber.info/inful/sitemapper/internal/observability"
	"git.home.luguber.info/inful/sitemapper/internal/retry"
	"git.home.luguber.info/inful/sitemapper/internal/storage"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	// Stdout receives command output. Nil means os.Stdout.
	Stdout io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitemapper.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Compute the sitemap and write the artifact"`
	Validate ValidateCmd `cmd:"" help:"Compute the sitemap without writing and report problems"`
	Show     ShowCmd     `cmd:"" help:"Render the sitemap (text, json, mermaid, markdown, html)"`
	Watch    WatchCmd    `cmd:"" help:"Rebuild whenever the sources change"`
	History  HistoryCmd  `cmd:"" help:"List recent builds"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration and source documents"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := observability.ParseLevel(os.Getenv(config.EnvLogLevel))
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(observability.NewHandler(os.Stderr, string(config.LogFormatText), level)))
	return nil
}

// loadConfig loads root.Config. When the flag was left at its default and no
// such file exists, the built-in defaults are used.
func loadConfig(root *CLI) (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(root.Config); os.IsNotExist(err) && root.Config == config.DefaultPath {
		slog.Debug("No configuration file, using defaults", logfields.Path(root.Config))
		cfg = config.Default()
	} else {
		cfg, err = config.Load(root.Config)
		if err != nil {
			return nil, err
		}
	}
	configureLogging(cfg, root.Verbose)
	return cfg, nil
}

// configureLogging reapplies the logger with the configured level and format.
// --verbose always wins.
func configureLogging(cfg *config.Config, verbose bool) {
	level := observability.ParseLevel(string(config.NormalizeLogLevel(string(cfg.Logging.Level))))
	if verbose {
		level = slog.LevelDebug
	}
	format := config.NormalizeLogFormat(string(cfg.Logging.Format))
	slog.SetDefault(slog.New(observability.NewHandler(os.Stderr, string(format), level)))
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// runtime holds the build service and the side channels wired from config.
// Side channels that cannot be opened are logged and left out.
type runtime struct {
	cfg       *config.Config
	service   *build.DefaultBuildService
	store     *eventstore.SQLiteStore
	recorder  *metrics.PrometheusRecorder
	publisher notify.Publisher
}

func newRuntime(cfg *config.Config) *runtime {
	rt := &runtime{cfg: cfg, service: build.NewBuildService()}

	if cfg.History.Enabled {
		store, err := eventstore.NewSQLiteStore(cfg.Resolve(cfg.History.Path))
		if err != nil {
			slog.Warn("Build history disabled", logfields.Path(cfg.History.Path), logfields.Error(err))
		} else {
			rt.store = store
			rt.service.WithHistory(store)
		}
	}

	if cfg.History.Snapshots {
		snapshots, err := storage.NewFSStore(cfg.Resolve(cfg.History.SnapshotDir))
		if err != nil {
			slog.Warn("Artifact snapshots disabled", logfields.Path(cfg.History.SnapshotDir), logfields.Error(err))
		} else {
			rt.service.WithSnapshots(snapshots, cfg.History.Keep)
		}
	}

	if cfg.Metrics.Enabled {
		rt.recorder = metrics.NewPrometheusRecorder(nil)
		rt.service.WithRecorder(rt.recorder)
	}

	if cfg.Notify.Enabled {
		publisher, err := notify.NewNATSPublisher(cfg.Notify.URL, cfg.Notify.Subject)
		if err != nil {
			slog.Warn("Build notifications disabled", logfields.Subject(cfg.Notify.Subject), logfields.Error(err))
		} else {
			policy := retry.NewPolicy(retry.Mode(cfg.Notify.Backoff), cfg.Notify.RetryDelayDuration(), 0, cfg.Notify.Retries)
			rt.publisher = notify.WithRetry(publisher, policy)
			rt.service.WithPublisher(rt.publisher)
		}
	}

	return rt
}

// flushMetrics writes the textfile when metrics are enabled.
func (rt *runtime) flushMetrics() {
	if rt.recorder == nil {
		return
	}
	path := rt.cfg.Resolve(rt.cfg.Metrics.Textfile)
	if err := rt.recorder.WriteTextfile(path); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
	}
}

func (rt *runtime) Close() {
	if rt.publisher != nil {
		rt.publisher.Close()
	}
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			slog.Warn("Failed to close build history", logfields.Error(err))
		}
	}
}
