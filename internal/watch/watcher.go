package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitemapper/internal/logfields"
)

// Watcher monitors a set of files and emits one trigger per burst of changes.
type Watcher struct {
	files    map[string]struct{}
	dirs     []string
	watcher  *fsnotify.Watcher
	debounce time.Duration

	changes  chan string
	triggers chan string
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher for paths. Events are coalesced until no change
// was seen for the debounce period.
func NewWatcher(paths []string, debounce time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		files:    make(map[string]struct{}, len(paths)),
		watcher:  watcher,
		debounce: debounce,
		changes:  make(chan string, 16),
		triggers: make(chan string, 1),
		stopChan: make(chan struct{}),
	}

	seenDirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to resolve path %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
		// Directories are watched because editors replace files on save.
		dir := filepath.Dir(abs)
		if !seenDirs[dir] {
			seenDirs[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Triggers delivers the path of the last changed file after each debounced
// burst. At most one trigger is pending at a time.
func (w *Watcher) Triggers() <-chan string {
	return w.triggers
}

// Start begins watching.
func (w *Watcher) Start(ctx context.Context) error {
	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	slog.Info("Watching sources", slog.Int("files", len(w.files)), slog.Int("directories", len(w.dirs)))

	go w.watchLoop(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if _, watched := w.files[filepath.Clean(event.Name)]; !watched {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			slog.Debug("Source change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
			select {
			case w.changes <- event.Name:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Source watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var last string
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case name := <-w.changes:
			last = name
			timer.Reset(w.debounce)
		case <-timer.C:
			select {
			case w.triggers <- last:
			default:
				// A rebuild is already pending
			}
		}
	}
}
