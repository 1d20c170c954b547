package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryParse, "code tag has no fenced block").
			WithSeverity(SeverityFatal).
			WithContext("path", "guide/setup.md").
			Build()

		if err.Category() != CategoryParse {
			t.Errorf("expected category %s, got %s", CategoryParse, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}

		path, exists := err.Context().Get("path")
		if !exists || path != "guide/setup.md" {
			t.Errorf("expected context path=guide/setup.md, got %v", path)
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		inner := FileSystemError("failed to write document").Build()
		wrapped := fmt.Errorf("sync: %w", inner)

		classified, ok := AsClassified(wrapped)
		if !ok {
			t.Fatal("expected wrapped error to be classified")
		}
		if classified.Severity() != SeverityFatal {
			t.Error("expected fatal severity")
		}
		if !HasCategory(wrapped, CategoryFileSystem) {
			t.Error("expected filesystem category")
		}
		if HasCategory(errors.New("plain"), CategoryFileSystem) {
			t.Error("expected plain errors to carry no category")
		}
	})

	t.Run("Cause is reachable", func(t *testing.T) {
		wrapped := WrapError(os.ErrNotExist, CategoryFileSystem, "failed to read document").Build()
		if !errors.Is(wrapped, os.ErrNotExist) {
			t.Error("expected errors.Is to reach the cause of WrapError")
		}

		built := FileSystemError("failed to read document").WithCause(os.ErrPermission).Build()
		if !errors.Is(built, os.ErrPermission) || built.Cause() != os.ErrPermission {
			t.Error("expected errors.Is to reach the cause set by WithCause")
		}
		if !built.IsCategory(CategoryFileSystem) || built.RetryStrategy() != RetryUserAction {
			t.Error("expected WithCause to keep the constructor's classification")
		}
	})

	t.Run("WithContext does not mutate the receiver", func(t *testing.T) {
		base := ExecutionError("command failed").Build()
		derived := base.WithContext("exit_code", 3)

		if _, ok := base.Context().Get("exit_code"); ok {
			t.Error("expected base context to stay untouched")
		}
		code, ok := derived.Context().Get("exit_code")
		if !ok || code != 3 {
			t.Errorf("expected exit_code=3, got %v", code)
		}
	})
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
		retry    RetryStrategy
	}{
		{"ConfigError", ConfigError("test"), CategoryConfig, RetryUserAction},
		{"ValidationError", ValidationError("test"), CategoryValidation, RetryNever},
		{"AlreadyExistsError", AlreadyExistsError("test"), CategoryAlreadyExists, RetryUserAction},
		{"ParseError", ParseError("test"), CategoryParse, RetryUserAction},
		{"FileSystemError", FileSystemError("test"), CategoryFileSystem, RetryUserAction},
		{"GitError", GitError("test"), CategoryGit, RetryNever},
		{"ExecutionError", ExecutionError("test"), CategoryExecution, RetryImmediate},
		{"InternalError", InternalError("test"), CategoryInternal, RetryNever},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Build()
			if err.Category() != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, err.Category())
			}
			if err.Severity() != SeverityFatal {
				t.Errorf("expected %s to be fatal", tt.name)
			}
			if err.RetryStrategy() != tt.retry {
				t.Errorf("expected retry strategy %s, got %s", tt.retry, err.RetryStrategy())
			}
			if err.CanRetry() != (tt.retry == RetryImmediate) {
				t.Errorf("unexpected CanRetry for %s", tt.name)
			}
		})
	}
}
