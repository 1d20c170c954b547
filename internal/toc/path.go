package toc

import (
	"path"
	"path/filepath"
	"strings"
)

// untitled stands in for captions that slug to nothing.
const untitled = "untitled"

// Segment is the path element contributed by id.
func (t *Tree) Segment(id NodeID) string {
	if s := Slug(t.nodes[id].Caption); s != "" {
		return s
	}
	return untitled
}

// Resolve returns the canonical document path of id relative to the base
// directory, using forward slashes. Leaves resolve to "<slugs>.md", other
// nodes to "<slugs>/<IndexName>", and the root to RootName.
func (t *Tree) Resolve(id NodeID) string {
	if id == RootID {
		return t.opts.RootName
	}

	segments := make([]string, 0, 4)
	for _, a := range t.Ancestors(id)[1:] {
		segments = append(segments, t.Segment(a))
	}
	segments = append(segments, t.Segment(id))

	p := strings.Join(segments, "/")
	if t.nodes[id].IsLeaf() {
		return p + ".md"
	}
	return p + "/" + t.opts.IndexName
}

// Dir is the directory holding the document of id.
func (t *Tree) Dir(id NodeID) string {
	return path.Dir(t.Resolve(id))
}

// RelativeTo returns the document path of id as seen from baseDir.
func (t *Tree) RelativeTo(id NodeID, baseDir string) string {
	return relativePath(baseDir, t.Resolve(id))
}

// DidMove reports whether id carried a link that differs from its canonical path.
func (t *Tree) DidMove(id NodeID) bool {
	old := t.nodes[id].ExistingLink
	return old != "" && path.Clean(old) != t.Resolve(id)
}

// OldPath returns the cleaned link id carried before this run.
func (t *Tree) OldPath(id NodeID) string {
	if t.nodes[id].ExistingLink == "" {
		return ""
	}
	return path.Clean(t.nodes[id].ExistingLink)
}

func relativePath(base, target string) string {
	rel, err := filepath.Rel(filepath.FromSlash(base), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}
