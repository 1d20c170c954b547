package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/tocer/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	SyncFlags `embed:""`

	Debounce time.Duration `help:"Wait this long after the last change before synchronizing"`
	Interval time.Duration `help:"Also synchronize on this interval to refresh code tag output; 0 disables it"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	r, err := newRunner(&w.SyncFlags, root)
	if err != nil {
		return err
	}

	debounce := r.cfg.Watch.Debounce
	if w.Debounce > 0 {
		debounce = w.Debounce
	}
	interval := r.cfg.Watch.Interval
	if w.Interval > 0 {
		interval = w.Interval
	}

	watcher, err := watch.New(r.cfg.TocFile, func(ctx context.Context) error {
		return r.pass(ctx, g.out())
	}, debounce, interval)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := watcher.Run(ctx); err != nil {
		return err
	}
	slog.Info("Watch stopped", slog.Int("passes", watcher.Passes()))
	return nil
}
