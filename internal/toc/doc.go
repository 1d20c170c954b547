// Package toc turns the table-of-contents region of a root document into a
// tree of topics and derives each topic's canonical document path.
//
// The tree is an arena: nodes live in one slice and refer to each other by
// NodeID. The synthetic root (NodeID 0) stands for the root document itself
// and never corresponds to a list item.
package toc
