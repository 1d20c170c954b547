package metrics

import "time"

// ResultLabel enumerates code-tag command results for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	// ResultEmbedded is a failed command whose output was embedded anyway.
	ResultEmbedded ResultLabel = "embedded"
)

// OutcomeLabel enumerates final synchronization pass outcomes.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// ActionLabel enumerates what a pass did to a document or directory.
type ActionLabel string

const (
	ActionCreated   ActionLabel = "created"
	ActionRenamed   ActionLabel = "renamed"
	ActionUpdated   ActionLabel = "updated"
	ActionUnchanged ActionLabel = "unchanged"
	ActionPruned    ActionLabel = "pruned"
)

// Recorder defines observability hooks for synchronization passes. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe for nil receivers
// when using the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveSyncDuration(d time.Duration)
	IncSyncOutcome(outcome OutcomeLabel)
	IncDocumentAction(action ActionLabel)
	ObserveCommandDuration(d time.Duration, result ResultLabel)
	IncCommandResult(result ResultLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveSyncDuration(time.Duration)                 {}
func (NoopRecorder) IncSyncOutcome(OutcomeLabel)                       {}
func (NoopRecorder) IncDocumentAction(ActionLabel)                     {}
func (NoopRecorder) ObserveCommandDuration(time.Duration, ResultLabel) {}
func (NoopRecorder) IncCommandResult(ResultLabel)                      {}
