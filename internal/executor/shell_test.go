package executor

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/tocer/internal/foundation/errors"
)

func TestShellExecutor_CombinedOutput(t *testing.T) {
	e := NewShellExecutor("sh", "")

	out, err := e.Execute(context.Background(), "echo out; echo err 1>&2")
	require.NoError(t, err)
	assert.Contains(t, out, "out\n")
	assert.Contains(t, out, "err\n")
}

func TestShellExecutor_PreambleRunsFirst(t *testing.T) {
	e := NewShellExecutor("sh", "GREETING=hello")

	out, err := e.Execute(context.Background(), `echo "$GREETING"`)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
	assert.Equal(t, "GREETING=hello\necho x", e.Script("echo x"))
}

func TestShellExecutor_Dir(t *testing.T) {
	dir := t.TempDir()
	e := NewShellExecutor("sh", "").WithDir(dir)

	out, err := e.Execute(context.Background(), "pwd")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), dir[strings.LastIndex(dir, "/"):]))
}

func TestShellExecutor_NonZeroExitKeepsOutput(t *testing.T) {
	e := NewShellExecutor("sh", "")

	out, err := e.Execute(context.Background(), "echo partial; exit 3")
	require.Error(t, err)
	assert.Equal(t, "partial\n", out)

	var exitErr *ExitError
	require.True(t, stderrors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.True(t, errors.HasCategory(err, errors.CategoryExecution))
}

func TestShellExecutor_Timeout(t *testing.T) {
	e := NewShellExecutor("sh", "").WithTimeout(50 * time.Millisecond)

	_, err := e.Execute(context.Background(), "sleep 5")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryExecution))

	var exitErr *ExitError
	assert.False(t, stderrors.As(err, &exitErr))
}

func TestShellExecutor_MissingShell(t *testing.T) {
	e := NewShellExecutor("/nonexistent/shell", "")

	_, err := e.Execute(context.Background(), "true")
	require.Error(t, err)
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.RetryUserAction, classified.RetryStrategy())
}

func TestParseFailurePolicy(t *testing.T) {
	p, err := ParseFailurePolicy("")
	require.NoError(t, err)
	assert.Equal(t, FailurePolicyFail, p)

	p, err = ParseFailurePolicy("EMBED")
	require.NoError(t, err)
	assert.Equal(t, FailurePolicyEmbed, p)

	_, err = ParseFailurePolicy("ignore")
	require.Error(t, err)
}
