package toc

import (
	"git.home.luguber.info/inful/tocer/internal/tags"
)

// NodeID indexes a node in its Tree.
type NodeID int

const (
	// RootID is the synthetic root standing for the root document.
	RootID NodeID = 0
	// NoParent is the parent of the root.
	NoParent NodeID = -1
)

// Node is one topic of the TOC.
type Node struct {
	ID          NodeID
	Caption     string
	Indentation string
	// ExistingLink is the link the item carried before this run, if any. It
	// only drives rename detection; the caption decides the new path.
	ExistingLink string
	// LineIndex is the item's line in the root document, -1 for the root.
	LineIndex int
	CR        bool
	Parent    NodeID
	Children  []NodeID
}

// IndentationWidth is the number of leading whitespace bytes of the item.
func (n *Node) IndentationWidth() int {
	return len(n.Indentation)
}

// IsRoot reports whether n is the synthetic root.
func (n *Node) IsRoot() bool {
	return n.Parent == NoParent
}

// IsLeaf reports whether n has no children. Leaves are single documents,
// other nodes are directories with an index document.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Options control how a tree lays out documents.
type Options struct {
	// IndexName is the index document of every non-leaf directory.
	IndexName string
	// RootName is the root document's path relative to the base directory.
	// Defaults to IndexName.
	RootName string
	// RegionTag names the TOC region markers.
	RegionTag string
	// HomeCaption, when set, starts every breadcrumb with a link to the root
	// document.
	HomeCaption string
}

// Tree is a TOC parsed from the lines of a root document.
type Tree struct {
	nodes []Node
	opts  Options
}

// Build parses the list items found between the TOC region markers of lines.
//
// A new item becomes a child of the closest preceding item with a strictly
// smaller indentation width, so widths only need to be consistent along a
// path, not a multiple of any fixed size.
func Build(lines []string, opts Options) *Tree {
	if opts.RegionTag == "" {
		opts.RegionTag = tags.DefaultNames().Toc
	}
	if opts.RootName == "" {
		opts.RootName = opts.IndexName
	}

	t := &Tree{
		nodes: []Node{{ID: RootID, LineIndex: -1, Parent: NoParent}},
		opts:  opts,
	}

	stack := []NodeID{RootID}
	inRegion := false
	for i, raw := range lines {
		switch {
		case tags.IsStartLine(raw, opts.RegionTag):
			inRegion = true
			continue
		case tags.IsEndLine(raw, opts.RegionTag):
			inRegion = false
			continue
		case !inRegion:
			continue
		}

		line := Classify(raw)
		if !line.IsItem() {
			continue
		}

		for len(stack) > 1 && t.nodes[stack[len(stack)-1]].IndentationWidth() >= len(line.Indentation) {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]

		id := NodeID(len(t.nodes))
		t.nodes = append(t.nodes, Node{
			ID:           id,
			Caption:      line.Caption,
			Indentation:  line.Indentation,
			ExistingLink: line.Link,
			LineIndex:    i,
			CR:           line.CR,
			Parent:       parent,
		})
		t.nodes[parent].Children = append(t.nodes[parent].Children, id)
		stack = append(stack, id)
	}
	return t
}

// Options returns the layout options the tree was built with.
func (t *Tree) Options() Options {
	return t.opts
}

// Len is the number of nodes, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node for id. The pointer stays valid until the tree is discarded.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Root returns the synthetic root.
func (t *Tree) Root() *Node {
	return &t.nodes[RootID]
}

// IsEmpty reports whether the TOC region held no items.
func (t *Tree) IsEmpty() bool {
	return len(t.nodes) == 1
}

// PreOrder returns the descendants of id, parents before children, excluding id.
func (t *Tree) PreOrder(id NodeID) []NodeID {
	var out []NodeID
	var walk func(NodeID)
	walk = func(n NodeID) {
		for _, child := range t.nodes[n].Children {
			out = append(out, child)
			walk(child)
		}
	}
	walk(id)
	return out
}

// Ancestors returns the ancestors of id from the top down, root included.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for p := t.nodes[id].Parent; p != NoParent; p = t.nodes[p].Parent {
		out = append([]NodeID{p}, out...)
	}
	return out
}

// Depth is the number of ancestors of id, not counting the root.
func (t *Tree) Depth(id NodeID) int {
	if id == RootID {
		return 0
	}
	return len(t.Ancestors(id)) - 1
}

// LinkLine renders the TOC line for id in link form.
func (t *Tree) LinkLine(id NodeID) string {
	n := &t.nodes[id]
	line := n.Indentation + "* [" + n.Caption + "](" + t.Resolve(id) + ")"
	if n.CR {
		line += "\r"
	}
	return line
}

// RewriteLines returns a copy of lines with every item replaced by its link form.
func (t *Tree) RewriteLines(lines []string) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	for _, id := range t.PreOrder(RootID) {
		if idx := t.nodes[id].LineIndex; idx >= 0 && idx < len(out) {
			out[idx] = t.LinkLine(id)
		}
	}
	return out
}
