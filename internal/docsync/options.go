package docsync

import (
	"log/slog"

	"git.home.luguber.info/inful/tocer/internal/executor"
	"git.home.luguber.info/inful/tocer/internal/metrics"
	"git.home.luguber.info/inful/tocer/internal/tags"
)

// Options configure a synchronization pass.
type Options struct {
	// TocPath is the root document. Generated documents live below its directory.
	TocPath string
	// IndexName is the index document of every topic with children.
	// Defaults to the base name of TocPath.
	IndexName   string
	Tags        tags.Names
	HomeCaption string
	// GitAware relocates tracked documents through the git index.
	GitAware bool
	// PruneEmptyDirs removes directories emptied by relocations.
	PruneEmptyDirs bool
	// DryRun logs the planned changes without touching the disk or running commands.
	DryRun        bool
	FailurePolicy executor.FailurePolicy
}

// Option customizes a Synchronizer.
type Option func(*Synchronizer)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Synchronizer) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Synchronizer) {
		if l != nil {
			s.logger = l
		}
	}
}
