package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"git.home.luguber.info/inful/tocer/internal/config"
	"git.home.luguber.info/inful/tocer/internal/docsync"
	"git.home.luguber.info/inful/tocer/internal/executor"
	"git.home.luguber.info/inful/tocer/internal/foundation/errors"
	"git.home.luguber.info/inful/tocer/internal/logfields"
	"git.home.luguber.info/inful/tocer/internal/metrics"
)

// SyncFlags are shared by the sync and watch commands. Set flags override
// the configuration file and the environment.
type SyncFlags struct {
	TocFile  string `arg:"" optional:"" name:"toc-file" help:"Root document holding the table of contents (default: README.md)"`
	Preamble string `arg:"" optional:"" name:"preamble" help:"Shell snippet run before every code tag command"`

	IndexName        string        `name:"index-name" help:"Index document name for topics with sub-topics (default: root document name)"`
	HomeCaption      string        `name:"home-caption" help:"Caption of the root document in breadcrumbs; empty leaves it out"`
	OnCommandFailure string        `name:"on-command-failure" help:"What to do when a code tag command fails: fail or embed"`
	CommandTimeout   time.Duration `name:"command-timeout" help:"Abort code tag commands running longer than this"`
	Shell            string        `help:"Shell used to run code tag commands"`
	DryRun           bool          `name:"dry-run" help:"Report planned changes without writing files or running commands"`
	NoGit            bool          `name:"no-git" help:"Rename documents on the filesystem even inside a git repository"`
	NoPrune          bool          `name:"no-prune" help:"Keep directories emptied by renames"`
	MetricsFile      string        `name:"metrics-file" help:"Write Prometheus metrics in text format to this file after each pass"`
}

// SyncCmd implements the default 'sync' command.
type SyncCmd struct {
	SyncFlags `embed:""`
}

func (s *SyncCmd) Run(g *Global, root *CLI) error {
	r, err := newRunner(&s.SyncFlags, root)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return r.pass(ctx, g.out())
}

// runner owns the collaborators of a synchronization pass.
type runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	sync     *docsync.Synchronizer
	recorder *metrics.PrometheusRecorder
}

func newRunner(flags *SyncFlags, root *CLI) (*runner, error) {
	cfgPath, explicit := config.Locate(root.Config, flags.TocFile)
	cfg, err := config.Load(cfgPath, explicit)
	if err != nil {
		return nil, err
	}
	if err := flags.apply(cfg); err != nil {
		return nil, err
	}

	logger := cfg.NewLogger(os.Stderr, root.Verbose)
	slog.SetDefault(logger)
	logger.Debug("Configuration loaded", logfields.Path(cfgPath), slog.String("toc_file", cfg.TocFile))

	exec := executor.NewShellExecutor(cfg.Shell, cfg.Preamble).
		WithDir(filepath.Dir(cfg.TocFile)).
		WithTimeout(cfg.CommandTimeout)

	r := &runner{cfg: cfg, logger: logger}
	options := []docsync.Option{docsync.WithLogger(logger)}
	if cfg.MetricsFile != "" {
		r.recorder = metrics.NewPrometheusRecorder(nil)
		options = append(options, docsync.WithRecorder(r.recorder))
	}

	r.sync = docsync.New(docsync.Options{
		TocPath:        cfg.TocFile,
		IndexName:      cfg.IndexName,
		Tags:           cfg.Tags,
		HomeCaption:    cfg.HomeCaption,
		GitAware:       cfg.GitAware,
		PruneEmptyDirs: cfg.PruneEmptyDirs,
		DryRun:         flags.DryRun,
		FailurePolicy:  cfg.OnCommandFailure,
	}, exec, options...)
	return r, nil
}

// pass runs one synchronization and prints its summary. Metrics are
// written even when the pass fails.
func (r *runner) pass(ctx context.Context, out io.Writer) error {
	result, err := r.sync.Run(ctx)
	if r.recorder != nil {
		if werr := metrics.WriteTextfile(r.cfg.MetricsFile, r.recorder.Registry()); werr != nil {
			r.logger.Warn("Failed to write metrics file", logfields.Path(r.cfg.MetricsFile), logfields.Error(werr))
		}
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, result.Summary())
	return nil
}

// apply copies the flags that were set onto cfg and validates the result.
func (f *SyncFlags) apply(cfg *config.Config) error {
	if f.TocFile != "" {
		cfg.TocFile = f.TocFile
	}
	if f.Preamble != "" {
		cfg.Preamble = f.Preamble
	}
	if f.IndexName != "" {
		cfg.IndexName = f.IndexName
	}
	if f.HomeCaption != "" {
		cfg.HomeCaption = f.HomeCaption
	}
	if f.OnCommandFailure != "" {
		policy, err := executor.ParseFailurePolicy(f.OnCommandFailure)
		if err != nil {
			return errors.ValidationError("invalid --on-command-failure").
				WithCause(err).
				UserAction().
				WithContext("value", f.OnCommandFailure).
				Build()
		}
		cfg.OnCommandFailure = policy
	}
	if f.CommandTimeout > 0 {
		cfg.CommandTimeout = f.CommandTimeout
	}
	if f.Shell != "" {
		cfg.Shell = f.Shell
	}
	if f.NoGit {
		cfg.GitAware = false
	}
	if f.NoPrune {
		cfg.PruneEmptyDirs = false
	}
	if f.MetricsFile != "" {
		cfg.MetricsFile = f.MetricsFile
	}
	return cfg.Validate()
}
