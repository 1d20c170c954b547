package docsync

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/tocer/internal/foundation/errors"
	"git.home.luguber.info/inful/tocer/internal/logfields"
)

// mover relocates a document. Callers create the target's directory first.
type mover interface {
	Move(from, to string) error
}

type fsMover struct{}

func (fsMover) Move(from, to string) error {
	if err := os.Rename(from, to); err != nil {
		return errors.FileSystemError("rename failed").
			WithCause(err).
			WithContext("old_path", from).
			WithContext("new_path", to).
			Build()
	}
	return nil
}

// gitMover moves tracked documents with the worktree so the index records the
// rename. Untracked documents fall back to a plain rename.
type gitMover struct {
	repo     *git.Repository
	worktree *git.Worktree
	root     string
	fallback fsMover
}

// newMover returns a git-aware mover when dir is inside a git worktree.
func newMover(dir string, gitAware bool, logger *slog.Logger) mover {
	if !gitAware {
		return fsMover{}
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if !stderrors.Is(err, git.ErrRepositoryNotExists) {
			logger.Warn("Cannot open git repository, using plain renames", logfields.Path(dir), logfields.Error(err))
		}
		return fsMover{}
	}
	w, err := repo.Worktree()
	if err != nil {
		logger.Warn("Git repository has no worktree, using plain renames", logfields.Path(dir), logfields.Error(err))
		return fsMover{}
	}
	root, err := filepath.EvalSymlinks(w.Filesystem.Root())
	if err != nil {
		return fsMover{}
	}

	logger.Debug("Relocating tracked documents through git", logfields.Path(root))
	return &gitMover{repo: repo, worktree: w, root: root}
}

func (m *gitMover) Move(from, to string) error {
	relFrom, okFrom := m.repoPath(from)
	relTo, okTo := m.repoPath(to)
	if !okFrom || !okTo || !m.tracked(relFrom) {
		return m.fallback.Move(from, to)
	}

	if _, err := m.worktree.Move(relFrom, relTo); err != nil {
		return errors.GitError("failed to move file in git").
			WithCause(err).
			WithContext("old_path", relFrom).
			WithContext("new_path", relTo).
			Build()
	}
	return nil
}

// repoPath returns p relative to the repository root with forward slashes.
// The parent directory of p must exist.
func (m *gitMover) repoPath(p string) (string, bool) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", false
	}
	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(m.root, filepath.Join(dir, filepath.Base(abs)))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (m *gitMover) tracked(rel string) bool {
	idx, err := m.repo.Storer.Index()
	if err != nil {
		return false
	}
	_, err = idx.Entry(rel)
	return err == nil
}
