package executor

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"git.home.luguber.info/inful/tocer/internal/foundation/errors"
	"git.home.luguber.info/inful/tocer/internal/logfields"
)

// DefaultShell runs code-tag scripts.
const DefaultShell = "bash"

// DefaultPreamble sources the user's bashrc when one exists so scripts see the
// same aliases and PATH as an interactive shell.
const DefaultPreamble = `if [ -f "$HOME/.bashrc" ]; then source "$HOME/.bashrc"; fi;`

// ShellExecutor runs scripts through `<shell> -c`, prefixed by a preamble.
type ShellExecutor struct {
	shell    string
	preamble string
	dir      string
	timeout  time.Duration
	env      []string
}

// NewShellExecutor creates an executor for shell (DefaultShell when empty).
func NewShellExecutor(shell, preamble string) *ShellExecutor {
	if shell == "" {
		shell = DefaultShell
	}
	return &ShellExecutor{shell: shell, preamble: preamble}
}

// WithDir sets the working directory scripts run in.
func (e *ShellExecutor) WithDir(dir string) *ShellExecutor {
	e.dir = dir
	return e
}

// WithTimeout bounds every script; zero means no limit.
func (e *ShellExecutor) WithTimeout(d time.Duration) *ShellExecutor {
	e.timeout = d
	return e
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func (e *ShellExecutor) WithEnv(env ...string) *ShellExecutor {
	e.env = append(e.env, env...)
	return e
}

// Script returns the text handed to the shell for code.
func (e *ShellExecutor) Script(code string) string {
	if strings.TrimSpace(e.preamble) == "" {
		return code
	}
	return e.preamble + "\n" + code
}

// Execute runs code and returns its combined output.
func (e *ShellExecutor) Execute(ctx context.Context, code string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	// #nosec G204 -- running document-provided scripts is the purpose of code tags.
	cmd := exec.CommandContext(ctx, e.shell, "-c", e.Script(code))
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), e.env...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	slog.Debug("Running code tag", slog.String("shell", e.shell), slog.String("dir", e.dir))
	start := time.Now()
	err := cmd.Run()
	output := out.String()
	if err == nil {
		slog.Debug("Code tag finished", logfields.Duration(time.Since(start)))
		return output, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return output, errors.ExecutionError("command did not finish").
			WithCause(ctxErr).
			WithRetry(errors.RetryNever).
			WithContext("timeout", e.timeout.String()).
			Build()
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return output, errors.ExecutionError("command exited with non-zero status").
			WithCause(&ExitError{Code: exitErr.ExitCode()}).
			WithContext("exit_code", exitErr.ExitCode()).
			Build()
	}

	return output, errors.ExecutionError("failed to start command").
		WithCause(err).
		UserAction().
		WithContext("shell", e.shell).
		Build()
}
