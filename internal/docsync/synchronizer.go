package docsync

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/tocer/internal/executor"
	"git.home.luguber.info/inful/tocer/internal/foundation/errors"
	"git.home.luguber.info/inful/tocer/internal/logfields"
	"git.home.luguber.info/inful/tocer/internal/metrics"
	"git.home.luguber.info/inful/tocer/internal/tags"
	"git.home.luguber.info/inful/tocer/internal/toc"
)

const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
)

// Synchronizer runs synchronization passes for one root document.
type Synchronizer struct {
	opts     Options
	exec     executor.Executor
	recorder metrics.Recorder
	logger   *slog.Logger
}

// New creates a Synchronizer. exec runs code tags; it is never called in a dry run.
func New(opts Options, exec executor.Executor, options ...Option) *Synchronizer {
	if opts.Tags == (tags.Names{}) {
		opts.Tags = tags.DefaultNames()
	}
	if opts.FailurePolicy == "" {
		opts.FailurePolicy = executor.FailurePolicyFail
	}
	s := &Synchronizer{
		opts:     opts,
		exec:     exec,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// pass holds the state of one Run.
type pass struct {
	*Synchronizer
	logger    *slog.Logger
	baseDir   string
	rootName  string
	tree      *toc.Tree
	mover     mover
	code      *tags.CodeProcessor
	result    *Result
	seen      map[string]toc.NodeID
	vacated   map[string]struct{}
	scaffolds map[string]struct{}
}

// Run performs one synchronization pass.
func (s *Synchronizer) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: uuid.NewString(), DryRun: s.opts.DryRun}
	logger := s.logger.With(logfields.RunID(result.RunID))

	err := s.run(ctx, logger, result)
	result.Duration = time.Since(start)
	s.recorder.ObserveSyncDuration(result.Duration)

	switch {
	case err == nil:
		s.recorder.IncSyncOutcome(metrics.OutcomeSuccess)
		logger.Info("Synchronization complete", slog.String("summary", result.Summary()), logfields.Duration(result.Duration))
	case ctx.Err() != nil:
		s.recorder.IncSyncOutcome(metrics.OutcomeCanceled)
	default:
		s.recorder.IncSyncOutcome(metrics.OutcomeFailed)
	}
	return result, err
}

func (s *Synchronizer) run(ctx context.Context, logger *slog.Logger, result *Result) error {
	tocPath := s.opts.TocPath
	content, err := os.ReadFile(tocPath)
	if err != nil {
		return fsError(err, "failed to read root document", tocPath)
	}

	baseDir := filepath.Dir(tocPath)
	rootName := filepath.Base(tocPath)
	indexName := s.opts.IndexName
	if indexName == "" {
		indexName = rootName
	}

	lines := strings.Split(string(content), "\n")
	tree := toc.Build(lines, toc.Options{
		IndexName:   indexName,
		RootName:    rootName,
		RegionTag:   s.opts.Tags.Toc,
		HomeCaption: s.opts.HomeCaption,
	})
	if tree.IsEmpty() {
		logger.Warn("No TOC items found", logfields.Path(tocPath), logfields.Tag(tags.StartTag(s.opts.Tags.Toc)))
	}

	p := &pass{
		Synchronizer: s,
		logger:       logger,
		baseDir:      baseDir,
		rootName:     rootName,
		tree:         tree,
		result:       result,
		seen:         map[string]toc.NodeID{},
		vacated:      map[string]struct{}{},
		scaffolds:    map[string]struct{}{},
	}
	if !s.opts.DryRun {
		p.mover = newMover(baseDir, s.opts.GitAware, logger)
		p.code = tags.NewCodeProcessor(s.opts.Tags.Code, recordingExecutor{
			inner:    s.exec,
			recorder: s.recorder,
			policy:   s.opts.FailurePolicy,
		}, s.opts.FailurePolicy)
		p.code.Logger = logger
	}

	for _, id := range tree.PreOrder(toc.RootID) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.syncTopic(ctx, id); err != nil {
			return err
		}
	}

	rewritten := tree.RewriteLines(lines)
	for _, id := range tree.PreOrder(toc.RootID) {
		if idx := tree.Node(id).LineIndex; idx >= 0 && rewritten[idx] != lines[idx] {
			logger.Debug(p.verb("Rewriting TOC line"),
				logfields.Line(idx+1),
				logfields.Caption(tree.Node(id).Caption),
				logfields.NewPath(tree.Resolve(id)))
		}
	}
	rootText := strings.Join(rewritten, "\n")
	if err := p.finish(ctx, rootName, tocPath, string(content), rootText); err != nil {
		return err
	}

	if s.opts.PruneEmptyDirs && !s.opts.DryRun {
		p.prune()
	}
	return nil
}

// syncTopic brings the document of one topic up to date.
func (p *pass) syncTopic(ctx context.Context, id toc.NodeID) error {
	node := p.tree.Node(id)
	rel := p.tree.Resolve(id)
	abs := p.abs(rel)
	logger := p.logger.With(logfields.Caption(node.Caption), logfields.Path(rel))

	if err := p.claim(id, rel); err != nil {
		return err
	}

	if !p.opts.DryRun {
		if err := os.MkdirAll(filepath.Dir(abs), dirPerm); err != nil {
			return fsError(err, "failed to create directory", filepath.Dir(abs))
		}
	}

	// In a dry run the document may still sit at its old path.
	source := abs
	if p.tree.DidMove(id) {
		moved, err := p.relocate(id, rel, logger)
		if err != nil {
			return err
		}
		if moved && p.opts.DryRun {
			source = p.abs(p.tree.OldPath(id))
		}
	}

	original, exists, err := readOptional(source)
	if err != nil {
		return err
	}
	if !exists {
		original = Scaffold(p.opts.Tags, node.Caption)
		p.result.Created = append(p.result.Created, rel)
		p.recorder.IncDocumentAction(metrics.ActionCreated)
		logger.Info(p.verb("Creating document"))
		if !p.opts.DryRun {
			if err := writeFile(abs, original); err != nil {
				return err
			}
		}
		p.scaffolds[rel] = struct{}{}
	}

	updated := tags.ReplaceRegion(p.opts.Tags.Header, p.tree.Header(id), original)
	updated = tags.ReplaceRegion(p.opts.Tags.SubTopic, p.tree.SubTopics(id), updated)
	return p.finish(ctx, rel, abs, original, updated)
}

// claim rejects a canonical path that is already taken by the root document
// or another topic.
func (p *pass) claim(id toc.NodeID, rel string) error {
	if rel == p.rootName {
		return errors.AlreadyExistsError("topic resolves to the root document").
			WithContext("caption", p.tree.Node(id).Caption).
			WithContext("path", rel).
			Build()
	}
	if other, ok := p.seen[rel]; ok {
		return errors.AlreadyExistsError("two topics resolve to the same document").
			WithContext("caption", p.tree.Node(id).Caption).
			WithContext("other_caption", p.tree.Node(other).Caption).
			WithContext("path", rel).
			Build()
	}
	p.seen[rel] = id
	return nil
}

// relocate moves the document at the topic's previous link to its canonical
// path. It reports whether there was anything to move.
func (p *pass) relocate(id toc.NodeID, rel string, logger *slog.Logger) (bool, error) {
	oldRel := p.tree.OldPath(id)
	if oldRel == p.rootName {
		logger.Warn("Topic linked to the root document, not moving it", logfields.OldPath(oldRel))
		return false, nil
	}
	oldAbs := p.abs(oldRel)
	info, err := os.Stat(oldAbs)
	if err != nil || info.IsDir() {
		logger.Debug("Previous document not found, nothing to move", logfields.OldPath(oldRel))
		return false, nil
	}

	abs := p.abs(rel)
	if _, err := os.Lstat(abs); err == nil {
		return false, errors.AlreadyExistsError("rename target already exists").
			WithContext("old_path", oldRel).
			WithContext("new_path", rel).
			Build()
	}

	logger.Info(p.verb("Moving document"), logfields.OldPath(oldRel), logfields.NewPath(rel))
	if !p.opts.DryRun {
		if err := p.mover.Move(oldAbs, abs); err != nil {
			return false, err
		}
		p.vacated[filepath.Dir(oldAbs)] = struct{}{}
	}
	p.result.Renamed = append(p.result.Renamed, Rename{From: oldRel, To: rel})
	p.recorder.IncDocumentAction(metrics.ActionRenamed)
	return true, nil
}

// finish runs the code tags of updated and writes it when it differs from
// original.
func (p *pass) finish(ctx context.Context, rel, abs, original, updated string) error {
	if p.code != nil {
		text, ran, err := p.code.Process(ctx, rel, updated)
		p.result.Commands += ran
		if err != nil {
			return err
		}
		updated = text
	}

	_, created := p.scaffolds[rel]
	if updated == original {
		if !created {
			p.result.Unchanged = append(p.result.Unchanged, rel)
			p.recorder.IncDocumentAction(metrics.ActionUnchanged)
			p.logger.Debug("Document unchanged", logfields.Path(rel))
		}
		return nil
	}

	if !created {
		p.result.Updated = append(p.result.Updated, rel)
		p.recorder.IncDocumentAction(metrics.ActionUpdated)
		p.logger.Info(p.verb("Updating document"), logfields.Path(rel))
	}
	if p.opts.DryRun {
		return nil
	}
	return writeFile(abs, updated)
}

// prune removes directories emptied by relocations, walking up towards the
// root document's directory.
func (p *pass) prune() {
	dirs := make([]string, 0, len(p.vacated))
	for d := range p.vacated {
		dirs = append(dirs, d)
	}
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })

	for _, dir := range dirs {
		for p.below(dir) {
			entries, err := os.ReadDir(dir)
			if err != nil || len(entries) > 0 {
				break
			}
			if err := os.Remove(dir); err != nil {
				p.logger.Warn("Failed to remove empty directory", logfields.Path(dir), logfields.Error(err))
				break
			}
			rel := p.relPath(dir)
			p.result.Pruned = append(p.result.Pruned, rel)
			p.recorder.IncDocumentAction(metrics.ActionPruned)
			p.logger.Info("Removed empty directory", logfields.Path(rel))
			dir = filepath.Dir(dir)
		}
	}
}

// below reports whether dir lies strictly inside the base directory.
func (p *pass) below(dir string) bool {
	rel := p.relPath(dir)
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, "../") && !filepath.IsAbs(rel)
}

func (p *pass) relPath(abs string) string {
	rel, err := filepath.Rel(p.baseDir, abs)
	if err != nil {
		return abs
	}
	return filepath.ToSlash(rel)
}

func (p *pass) abs(rel string) string {
	return filepath.Join(p.baseDir, filepath.FromSlash(rel))
}

func (p *pass) verb(msg string) string {
	if p.opts.DryRun {
		return "[dry-run] " + msg
	}
	return msg
}

func readOptional(path string) (string, bool, error) {
	// #nosec G304 -- documents are named by the TOC being synchronized.
	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), true, nil
	}
	if stderrors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	return "", false, fsError(err, "failed to read document", path)
}

func writeFile(path, content string) error {
	// #nosec G306 -- generated documents are meant to be world readable.
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		return fsError(err, "failed to write document", path)
	}
	return nil
}

func fsError(err error, message, path string) error {
	return errors.FileSystemError(message).
		WithCause(err).
		WithContext("path", path).
		Build()
}
