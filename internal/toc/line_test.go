package toc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Line
	}{
		{name: "plain text", in: "Some prose", want: Line{Kind: Plain}},
		{name: "empty", in: "", want: Line{Kind: Plain}},
		{name: "bullet without space", in: "*bold*", want: Line{Kind: Plain}},
		{name: "dash bullet is plain", in: "- item", want: Line{Kind: Plain}},
		{name: "blank caption", in: "  *    ", want: Line{Kind: Plain}},
		{name: "bare item", in: "* Topic", want: Line{Kind: Item, Caption: "Topic"}},
		{name: "indented item", in: "    * Sub Topic  ", want: Line{Kind: Item, Indentation: "    ", Caption: "Sub Topic"}},
		{name: "tab indentation", in: "\t* Tabbed", want: Line{Kind: Item, Indentation: "\t", Caption: "Tabbed"}},
		{name: "linked item", in: "  * [A](a.md)", want: Line{Kind: LinkedItem, Indentation: "  ", Caption: "A", Link: "a.md"}},
		{name: "brackets in caption", in: "* [[draft] Notes](draft-notes.md)", want: Line{Kind: LinkedItem, Caption: "[draft] Notes", Link: "draft-notes.md"}},
		{name: "text after link falls back", in: "* [A](a.md) extra", want: Line{Kind: Item, Caption: "[A](a.md) extra"}},
		{name: "empty link falls back", in: "* [A]()", want: Line{Kind: Item, Caption: "[A]()"}},
		{name: "unclosed bracket falls back", in: "* [A(a.md)", want: Line{Kind: Item, Caption: "[A(a.md)"}},
		{name: "crlf", in: "* [A](a.md)\r", want: Line{Kind: LinkedItem, Caption: "A", Link: "a.md", CR: true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.in))
		})
	}
}

func TestLineKind_String(t *testing.T) {
	assert.Equal(t, "plain", Plain.String())
	assert.Equal(t, "item", Item.String())
	assert.Equal(t, "linked-item", LinkedItem.String())
}
