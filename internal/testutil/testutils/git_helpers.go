package helpers

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// SetupTestGitRepo initializes a temporary git repository for testing.
// Returns the repository, its worktree, and the absolute path to the temporary directory.
func SetupTestGitRepo(t *testing.T) (*git.Repository, *git.Worktree, string) {
	t.Helper()

	tempDir := t.TempDir()

	repo, err := git.PlainInit(tempDir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	return repo, w, tempDir
}

// CommitAll stages every change in the worktree and commits it.
func CommitAll(t *testing.T, w *git.Worktree, message string) {
	t.Helper()

	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("failed to stage changes: %v", err)
	}
	_, err := w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
}

// IsTracked reports whether path (slash separated, relative to the
// repository root) has an index entry.
func IsTracked(t *testing.T, repo *git.Repository, path string) bool {
	t.Helper()

	idx, err := repo.Storer.Index()
	if err != nil {
		t.Fatalf("failed to read index: %v", err)
	}
	_, err = idx.Entry(path)
	return err == nil
}
