package watch

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestPass_SkipsOwnWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	writeDoc(t, path, "before\n")

	var calls atomic.Int32
	w, err := New(path, func(context.Context) error {
		calls.Add(1)
		writeDoc(t, path, "rewritten\n")
		return nil
	}, 0, 0)
	require.NoError(t, err)

	ctx := context.Background()
	w.Pass(ctx, TriggerStartup)
	w.Pass(ctx, TriggerChange)
	assert.Equal(t, int32(1), calls.Load(), "event from the pass's own write is ignored")

	writeDoc(t, path, "edited by the user\n")
	w.Pass(ctx, TriggerChange)
	assert.Equal(t, int32(2), calls.Load())

	w.Pass(ctx, TriggerInterval)
	assert.Equal(t, int32(3), calls.Load(), "interval passes always run")
	assert.Equal(t, 3, w.Passes())
}

func TestPass_FailureIsNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	writeDoc(t, path, "doc\n")

	w, err := New(path, func(context.Context) error { return stderrors.New("boom") }, 0, 0)
	require.NoError(t, err)

	w.Pass(context.Background(), TriggerStartup)
	assert.Equal(t, 1, w.Passes())
}

func TestPass_CanceledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	writeDoc(t, path, "doc\n")
	w, err := New(path, func(context.Context) error { return nil }, 0, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Pass(ctx, TriggerStartup)
	assert.Equal(t, 0, w.Passes())
}

func TestRun_ReactsToEdits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")
	writeDoc(t, path, "v1\n")

	var calls atomic.Int32
	w, err := New(path, func(context.Context) error {
		calls.Add(1)
		return nil
	}, 20*time.Millisecond, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	// Give the watcher time to register before editing.
	time.Sleep(100 * time.Millisecond)
	writeDoc(t, filepath.Join(dir, "other.md"), "ignored\n")
	writeDoc(t, path, "v2\n")

	require.Eventually(t, func() bool { return calls.Load() == 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_Interval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	writeDoc(t, path, "doc\n")

	var calls atomic.Int32
	w, err := New(path, func(context.Context) error {
		calls.Add(1)
		return nil
	}, time.Second, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}
