package toc

import "strings"

// Breadcrumb links every ancestor of id, top down, joined by " > ". The root
// appears only when a home caption is configured; the root document itself
// has no breadcrumb.
func (t *Tree) Breadcrumb(id NodeID) string {
	if id == RootID {
		return ""
	}
	dir := t.Dir(id)
	crumbs := make([]string, 0, 4)
	for _, a := range t.Ancestors(id) {
		caption := t.nodes[a].Caption
		if a == RootID {
			if t.opts.HomeCaption == "" {
				continue
			}
			caption = t.opts.HomeCaption
		}
		crumbs = append(crumbs, "["+caption+"]("+t.RelativeTo(a, dir)+")")
	}
	return strings.Join(crumbs, " > ")
}

// Header is the content of the header region: the breadcrumb, if any, over a
// level-one heading.
func (t *Tree) Header(id NodeID) string {
	heading := "# " + t.nodes[id].Caption
	if crumb := t.Breadcrumb(id); crumb != "" {
		return crumb + "\n" + heading
	}
	return heading
}

// SubTopics is the content of the sub-topic region: a nested list of every
// descendant linked from the document of id, or "" for a leaf.
func (t *Tree) SubTopics(id NodeID) string {
	if t.nodes[id].IsLeaf() {
		return ""
	}
	dir := t.Dir(id)
	base := len(t.Ancestors(id))
	lines := []string{"# Sub-topics"}
	for _, d := range t.PreOrder(id) {
		indent := strings.Repeat("  ", len(t.Ancestors(d))-base-1)
		lines = append(lines, indent+"* ["+t.nodes[d].Caption+"]("+t.RelativeTo(d, dir)+")")
	}
	return strings.Join(lines, "\n")
}
