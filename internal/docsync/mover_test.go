package docsync

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helpers "git.home.luguber.info/inful/tocer/internal/testutil/testutils"
)

func TestRun_GitAwareRename(t *testing.T) {
	repo, w, dir := helpers.SetupTestGitRepo(t)
	helpers.WriteFile(t, dir, "docs/README.md", "<!--startToc-->\n* [Renamed Topic](topic.md)\n<!--endToc-->\n")
	helpers.WriteFile(t, dir, "docs/topic.md", "topic body\n")
	helpers.CommitAll(t, w, "initial docs")

	s := New(Options{TocPath: filepath.Join(dir, "docs", "README.md"), GitAware: true}, noCommands(t))
	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Rename{{From: "topic.md", To: "renamed-topic.md"}}, res.Renamed)
	assert.True(t, helpers.IsTracked(t, repo, "docs/renamed-topic.md"))
	assert.False(t, helpers.IsTracked(t, repo, "docs/topic.md"))
	helpers.NewFileAssertions(t, dir).
		AssertNotExists("docs/topic.md").
		AssertFileContains("docs/renamed-topic.md", "topic body")
}

func TestRun_GitAwareUntrackedFallsBack(t *testing.T) {
	repo, _, dir := helpers.SetupTestGitRepo(t)
	helpers.WriteFile(t, dir, "README.md", "<!--startToc-->\n* [Fresh](draft.md)\n<!--endToc-->\n")
	helpers.WriteFile(t, dir, "draft.md", "draft\n")

	s := New(Options{TocPath: filepath.Join(dir, "README.md"), GitAware: true}, noCommands(t))
	_, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, helpers.IsTracked(t, repo, "fresh.md"))
	helpers.NewFileAssertions(t, dir).
		AssertNotExists("draft.md").
		AssertFileContains("fresh.md", "draft")
}

func TestNewMover(t *testing.T) {
	logger := slog.Default()

	_, isFS := newMover(t.TempDir(), true, logger).(fsMover)
	assert.True(t, isFS, "directory outside a repository")

	_, _, repoDir := helpers.SetupTestGitRepo(t)
	m, isGit := newMover(repoDir, true, logger).(*gitMover)
	require.True(t, isGit)

	rel, ok := m.repoPath(filepath.Join(repoDir, "docs", "..", "a.md"))
	assert.True(t, ok)
	assert.Equal(t, "a.md", rel)

	_, ok = m.repoPath(filepath.Join(filepath.Dir(repoDir), "outside.md"))
	assert.False(t, ok)
	assert.False(t, strings.Contains(rel, "\\"))

	_, isFS = newMover(repoDir, false, logger).(fsMover)
	assert.True(t, isFS, "git awareness disabled")
}
