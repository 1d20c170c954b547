package docsync

import "git.home.luguber.info/inful/tocer/internal/tags"

// Scaffold is the content of a newly created topic document: empty header
// and sub-topic regions around a placeholder line.
func Scaffold(names tags.Names, caption string) string {
	return tags.RenderRegion(names.Header, "") + "\n" +
		"\n" +
		"TODO: Write about " + caption + "\n" +
		"\n" +
		tags.RenderRegion(names.SubTopic, "") + "\n"
}
