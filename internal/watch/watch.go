// Package watch re-runs synchronization passes when the root document changes
// and, optionally, on a fixed interval.
package watch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/tocer/internal/logfields"
)

// SyncFunc runs one synchronization pass.
type SyncFunc func(ctx context.Context) error

// Trigger names what started a pass.
type Trigger string

const (
	TriggerStartup  Trigger = "startup"
	TriggerChange   Trigger = "change"
	TriggerInterval Trigger = "interval"
)

// Watcher serializes passes triggered by file events and the interval timer.
type Watcher struct {
	tocPath  string
	syncFn   SyncFunc
	debounce time.Duration
	interval time.Duration

	mu       sync.Mutex
	lastSeen []byte
	passes   int
}

// New creates a watcher for tocPath. interval 0 disables periodic passes.
func New(tocPath string, fn SyncFunc, debounce, interval time.Duration) (*Watcher, error) {
	absPath, err := filepath.Abs(tocPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root document path: %w", err)
	}
	return &Watcher{
		tocPath:  absPath,
		syncFn:   fn,
		debounce: debounce,
		interval: interval,
	}, nil
}

// Run performs an initial pass and then watches until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if err := fsw.Close(); err != nil {
			slog.Warn("Error closing file watcher", logfields.Error(err))
		}
	}()

	// Editors replace files on save, so watch the directory.
	dir := filepath.Dir(w.tocPath)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	w.Pass(ctx, TriggerStartup)

	if w.interval > 0 {
		scheduler, err := w.schedule(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				slog.Warn("Error stopping scheduler", logfields.Error(err))
			}
		}()
	}

	slog.Info("Watching root document", logfields.Path(w.tocPath), slog.Duration("debounce", w.debounce))
	w.loop(ctx, fsw)
	return nil
}

func (w *Watcher) schedule(ctx context.Context) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() { w.Pass(ctx, TriggerInterval) }),
		gocron.WithName("periodic-sync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("failed to create periodic sync job: %w", err)
	}
	scheduler.Start()
	slog.Info("Periodic sync scheduled", slog.Duration("interval", w.interval))
	return scheduler, nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	name := filepath.Base(w.tocPath)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		// Let an in-flight pass finish before returning.
		w.mu.Lock()
		defer w.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Root document event", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() { w.Pass(ctx, TriggerChange) })
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

// Pass runs one synchronization pass unless ctx is done. A change-triggered
// pass is skipped when the root document still holds what the previous pass
// left, which is the case for events caused by that pass's own write.
func (w *Watcher) Pass(ctx context.Context, trigger Trigger) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ctx.Err() != nil {
		return
	}

	if trigger == TriggerChange {
		// #nosec G304 -- the root document is chosen by the user.
		current, err := os.ReadFile(w.tocPath)
		if err == nil && w.lastSeen != nil && bytes.Equal(current, w.lastSeen) {
			slog.Debug("Root document unchanged since last pass, skipping", logfields.Path(w.tocPath))
			return
		}
	}

	start := time.Now()
	slog.Info("Starting synchronization pass", slog.String("trigger", string(trigger)))
	if err := w.syncFn(ctx); err != nil {
		slog.Error("Synchronization pass failed", slog.String("trigger", string(trigger)), logfields.Error(err))
	} else {
		slog.Debug("Synchronization pass finished", logfields.Duration(time.Since(start)))
	}
	w.passes++

	// #nosec G304 -- the root document is chosen by the user.
	if data, err := os.ReadFile(w.tocPath); err == nil {
		w.lastSeen = data
	}
}

// Passes returns the number of passes run so far.
func (w *Watcher) Passes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.passes
}
