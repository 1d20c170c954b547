// Package executor runs the scripts found in code tags.
package executor

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/tocer/internal/foundation/normalization"
)

// Executor runs a script and returns its combined stdout and stderr.
//
// A script that runs but exits unsuccessfully returns its output together
// with an error wrapping *ExitError, so callers can still embed the text.
type Executor interface {
	Execute(ctx context.Context, script string) (string, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, script string) (string, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, script string) (string, error) {
	return f(ctx, script)
}

// ExitError reports a script that ran to completion with a non-zero status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// FailurePolicy decides what happens when a code-tag script exits non-zero.
type FailurePolicy string

const (
	// FailurePolicyFail aborts the run with an execution error.
	FailurePolicyFail FailurePolicy = "fail"
	// FailurePolicyEmbed embeds the output (including error text) and continues.
	FailurePolicyEmbed FailurePolicy = "embed"
)

var failurePolicyNormalizer = normalization.NewNormalizer("command failure policy", map[string]FailurePolicy{
	"fail":  FailurePolicyFail,
	"embed": FailurePolicyEmbed,
}, FailurePolicyFail)

// ParseFailurePolicy validates raw; the empty string selects FailurePolicyFail.
func ParseFailurePolicy(raw string) (FailurePolicy, error) {
	return failurePolicyNormalizer.NormalizeWithValidation(raw)
}
