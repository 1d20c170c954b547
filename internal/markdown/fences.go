// Package markdown holds the goldmark-backed helpers used to inspect and edit
// document bodies without re-rendering them.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FencedBlock is a fenced code block located in a source text.
//
// Opening and Closing are the fence lines exactly as written (Closing is empty
// for a block left open until the end of the source). Start and End are byte
// offsets spanning the opening fence line through the closing fence line; both
// are -1 when the block has neither an info string nor content lines and its
// position cannot be recovered from the AST.
type FencedBlock struct {
	Language string
	Info     string
	Code     string
	Opening  string
	Closing  string
	Start    int
	End      int
}

// FencedBlocks parses source and returns its fenced code blocks in document order.
func FencedBlocks(source []byte) []FencedBlock {
	root := goldmark.New().Parser().Parse(text.NewReader(source))

	blocks := make([]FencedBlock, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		fcb, ok := n.(*gmast.FencedCodeBlock)
		if !ok {
			return gmast.WalkContinue, nil
		}
		blocks = append(blocks, locate(fcb, source))
		return gmast.WalkSkipChildren, nil
	})
	return blocks
}

// FirstFencedBlock returns the first fenced code block of source.
func FirstFencedBlock(source []byte) (FencedBlock, bool) {
	blocks := FencedBlocks(source)
	if len(blocks) == 0 {
		return FencedBlock{}, false
	}
	return blocks[0], true
}

func locate(fcb *gmast.FencedCodeBlock, source []byte) FencedBlock {
	block := FencedBlock{Start: -1, End: -1}
	if lang := fcb.Language(source); lang != nil {
		block.Language = string(lang)
	}

	var code strings.Builder
	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}
	block.Code = strings.TrimRight(code.String(), "\n")

	// Any position on the opening line anchors the search for the fence.
	anchor := -1
	switch {
	case fcb.Info != nil:
		anchor = fcb.Info.Segment.Start
		block.Info = string(fcb.Info.Segment.Value(source))
	case lines.Len() > 0:
		anchor = bytes.LastIndexByte(source[:lines.At(0).Start], '\n')
	}
	if anchor < 0 {
		return block
	}

	openStart := bytes.LastIndexByte(source[:anchor], '\n') + 1
	openEnd := lineEnd(source, openStart)
	block.Opening = strings.TrimRight(string(source[openStart:openEnd]), "\r")
	block.Start = openStart

	contentEnd := openEnd + 1
	if lines.Len() > 0 {
		contentEnd = lines.At(lines.Len() - 1).Stop
		if contentEnd > 0 && source[contentEnd-1] != '\n' {
			contentEnd = lineEnd(source, contentEnd) + 1
		}
	}
	if contentEnd > len(source) {
		block.End = len(source)
		return block
	}

	closeEnd := lineEnd(source, contentEnd)
	candidate := strings.TrimRight(string(source[contentEnd:closeEnd]), "\r")
	if isClosingFence(block.Opening, candidate) {
		block.Closing = candidate
		block.End = closeEnd
		return block
	}
	block.End = contentEnd
	return block
}

func lineEnd(source []byte, from int) int {
	if from >= len(source) {
		return len(source)
	}
	if idx := bytes.IndexByte(source[from:], '\n'); idx >= 0 {
		return from + idx
	}
	return len(source)
}

// FenceRun returns the fence character and run length that open line.
func FenceRun(line string) (byte, int) {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" || (trimmed[0] != '`' && trimmed[0] != '~') {
		return 0, 0
	}
	c := trimmed[0]
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	return c, n
}

func isClosingFence(opening, line string) bool {
	c, n := FenceRun(opening)
	if n < 3 {
		return false
	}
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < n {
		return false
	}
	return strings.Trim(trimmed, string(c)) == ""
}

// LongestRun returns the length of the longest run of c in s.
func LongestRun(s string, c byte) int {
	longest, current := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			current++
			if current > longest {
				longest = current
			}
			continue
		}
		current = 0
	}
	return longest
}
