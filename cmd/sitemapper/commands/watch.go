package commands

import (
	"context"
	"os"
	"time"

	"git.home.luguber.info/inful/sitemapper/internal/build"
	"git.home.luguber.info/inful/sitemapper/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Interval time.Duration `help:"Also rebuild periodically (overrides watch.interval)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	// Side channels are opened once; sources and output settings are
	// reloaded on every rebuild.
	rt := newRuntime(cfg)
	defer rt.Close()

	paths := []string{
		cfg.Resolve(cfg.Sources.Sitemap),
		cfg.Resolve(cfg.Sources.PageTemplates),
		cfg.Resolve(cfg.Sources.BlockTemplates),
	}
	if _, err := os.Stat(root.Config); err == nil {
		paths = append(paths, root.Config)
	}

	interval := w.Interval
	if interval == 0 {
		interval = cfg.Watch.IntervalDuration()
	}

	return watch.Run(ctx, watch.Options{
		Paths:    paths,
		Debounce: cfg.Watch.DebounceDuration(),
		Interval: interval,
		Rebuild: func(ctx context.Context, trigger string) error {
			current, err := loadConfig(root)
			if err != nil {
				return err
			}
			_, err = rt.service.Run(ctx, build.BuildRequest{
				Config:  current,
				Trigger: trigger,
				Options: build.BuildOptions{SkipIfUnchanged: current.Output.SkipUnchanged},
			})
			rt.flushMetrics()
			return err
		},
	})
}
