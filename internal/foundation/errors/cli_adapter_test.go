package errors

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "plain error", err: errors.New("boom"), expected: 1},
		{name: "validation", err: ValidationError("bad").Build(), expected: 2},
		{name: "collision", err: AlreadyExistsError("exists").Build(), expected: 2},
		{name: "parse", err: ParseError("bad fence").Build(), expected: 3},
		{name: "execution", err: ExecutionError("exit 1").Build(), expected: 4},
		{name: "config", err: ConfigError("bad yaml").Build(), expected: 7},
		{name: "git", err: GitError("index").Build(), expected: 8},
		{name: "filesystem", err: FileSystemError("denied").Build(), expected: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("expected exit code %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	err := FileSystemError("failed to rename document").
		WithContext("old_path", "a.md").
		WithContext("new_path", "b.md").
		Build()

	quiet := NewCLIErrorAdapter(false, nil).FormatError(err)
	if !strings.Contains(quiet, "failed to rename document") ||
		!strings.Contains(quiet, "old_path=a.md") ||
		!strings.Contains(quiet, "re-run") {
		t.Errorf("unexpected message: %s", quiet)
	}

	verbose := NewCLIErrorAdapter(true, nil).FormatError(err)
	if !strings.Contains(verbose, "[filesystem:fatal]") {
		t.Errorf("expected verbose message to include classification, got %s", verbose)
	}
}

func TestCLIErrorAdapter_FormatRetryHint(t *testing.T) {
	err := ExecutionError("command exited with non-zero status").WithContext("exit_code", 3).Build()

	msg := NewCLIErrorAdapter(false, nil).FormatError(err)
	if !strings.Contains(msg, "(exit_code=3)") || !strings.Contains(msg, "re-running may succeed") {
		t.Errorf("unexpected message: %s", msg)
	}
}
