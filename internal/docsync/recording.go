package docsync

import (
	"context"
	stderrors "errors"
	"time"

	"git.home.luguber.info/inful/tocer/internal/executor"
	"git.home.luguber.info/inful/tocer/internal/metrics"
)

// recordingExecutor reports every command to a metrics recorder.
type recordingExecutor struct {
	inner    executor.Executor
	recorder metrics.Recorder
	policy   executor.FailurePolicy
}

func (r recordingExecutor) Execute(ctx context.Context, script string) (string, error) {
	start := time.Now()
	out, err := r.inner.Execute(ctx, script)

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultFailed
		var exitErr *executor.ExitError
		if stderrors.As(err, &exitErr) && r.policy == executor.FailurePolicyEmbed {
			result = metrics.ResultEmbedded
		}
	}
	r.recorder.ObserveCommandDuration(time.Since(start), result)
	r.recorder.IncCommandResult(result)
	return out, err
}
