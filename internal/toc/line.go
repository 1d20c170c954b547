package toc

import "strings"

// LineKind classifies one line of the TOC region.
type LineKind int

const (
	// Plain lines pass through unmodified.
	Plain LineKind = iota
	// Item is a bulleted entry with a bare caption: `  * Caption`.
	Item
	// LinkedItem is a bulleted entry in link form: `  * [Caption](link)`.
	LinkedItem
)

func (k LineKind) String() string {
	switch k {
	case Item:
		return "item"
	case LinkedItem:
		return "linked-item"
	default:
		return "plain"
	}
}

// Line is the classification of a single source line.
type Line struct {
	Kind        LineKind
	Indentation string
	Caption     string
	Link        string
	// CR records a trailing carriage return so rewritten lines can keep it.
	CR bool
}

// IsItem reports whether the line is a list item of either form.
func (l Line) IsItem() bool {
	return l.Kind != Plain
}

// Classify recognizes list items. It never fails: anything that is not a
// well-formed item is Plain, and a malformed link form falls back to a bare
// caption.
func Classify(raw string) Line {
	text, cr := strings.CutSuffix(raw, "\r")

	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	indentation := text[:i]
	rest, ok := strings.CutPrefix(text[i:], "* ")
	if !ok {
		return Line{Kind: Plain, CR: cr}
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return Line{Kind: Plain, CR: cr}
	}

	if caption, link, ok := splitLink(rest); ok {
		return Line{Kind: LinkedItem, Indentation: indentation, Caption: caption, Link: link, CR: cr}
	}
	return Line{Kind: Item, Indentation: indentation, Caption: rest, CR: cr}
}

// splitLink parses `[caption](link)` spanning all of s. The caption extends to
// the last "](" so brackets inside a caption survive.
func splitLink(s string) (string, string, bool) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	sep := strings.LastIndex(s, "](")
	if sep < 1 {
		return "", "", false
	}
	caption := strings.TrimSpace(s[1:sep])
	link := strings.TrimSpace(s[sep+2 : len(s)-1])
	if caption == "" || link == "" {
		return "", "", false
	}
	return caption, link, true
}
