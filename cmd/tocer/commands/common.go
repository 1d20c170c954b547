package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
	// Out receives user-facing summaries; nil means stdout.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: .tocer.yaml next to the root document)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Sync  SyncCmd  `cmd:"" default:"withargs" help:"Synchronize the document tree with the table of contents (default)"`
	Watch WatchCmd `cmd:"" help:"Re-synchronize whenever the root document changes"`
	Init  InitCmd  `cmd:"" help:"Write a commented configuration file"`
}

// AfterApply runs after flag parsing; setup logging once. Commands replace
// the logger once the configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}
