package watch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitemapper/internal/logfields"
)

// Trigger values passed to RebuildFunc.
const (
	TriggerInitial  = "initial"
	TriggerChange   = "watch"
	TriggerSchedule = "schedule"
)

// RebuildFunc performs one build. Errors are logged and watching continues.
type RebuildFunc func(ctx context.Context, trigger string) error

// Options configures Run.
type Options struct {
	// Paths are the files whose changes trigger a rebuild.
	Paths []string
	// Debounce is the quiet period after the last change.
	Debounce time.Duration
	// Interval schedules periodic rebuilds when positive.
	Interval time.Duration
	// Rebuild is called once at start and then per trigger.
	Rebuild RebuildFunc
}

// Run builds once, then rebuilds on every debounced change and every
// interval until ctx is done. Rebuilds never overlap; triggers arriving during
// a rebuild collapse into one follow-up run.
func Run(ctx context.Context, opts Options) error {
	if opts.Rebuild == nil {
		return errors.New("watch: rebuild function required")
	}

	watcher, err := NewWatcher(opts.Paths, opts.Debounce)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		_ = watcher.Stop()
		return err
	}
	defer func() { _ = watcher.Stop() }()

	scheduled := make(chan struct{}, 1)
	if opts.Interval > 0 {
		scheduler, err := NewScheduler()
		if err != nil {
			return err
		}
		if _, err := scheduler.SchedulePeriodic(opts.Interval, func() {
			select {
			case scheduled <- struct{}{}:
			default:
			}
		}); err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
		slog.Info("Periodic rebuilds enabled", slog.Duration("interval", opts.Interval))
	}

	rebuild(ctx, opts.Rebuild, TriggerInitial)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch stopped")
			return nil
		case path := <-watcher.Triggers():
			slog.Info("Sources changed, rebuilding", logfields.File(path))
			rebuild(ctx, opts.Rebuild, TriggerChange)
		case <-scheduled:
			rebuild(ctx, opts.Rebuild, TriggerSchedule)
		}
	}
}

func rebuild(ctx context.Context, fn RebuildFunc, trigger string) {
	if ctx.Err() != nil {
		return
	}
	if err := fn(ctx, trigger); err != nil {
		slog.Error("Rebuild failed", slog.String("trigger", trigger), logfields.Error(err))
	}
}
