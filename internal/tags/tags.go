// Package tags implements the delimited-region templating used by generated
// documents: `<!--startName-->` ... `<!--endName-->` pairs whose content is
// regenerated on every run.
package tags

import (
	"regexp"
	"strings"
	"sync"
)

// Names holds the tag names recognized in documents.
type Names struct {
	Toc      string `yaml:"toc"`
	Header   string `yaml:"header"`
	SubTopic string `yaml:"subtopic"`
	Code     string `yaml:"code"`
}

// DefaultNames returns the tag names written by the scaffold.
func DefaultNames() Names {
	return Names{
		Toc:      "toc",
		Header:   "tocHeader",
		SubTopic: "TocSubTopic",
		Code:     "code",
	}
}

// Region is one start/end tag pair located in a text. Start and End cover the
// markers; BodyStart and BodyEnd cover only the enclosed content.
type Region struct {
	Start     int
	End       int
	BodyStart int
	BodyEnd   int
}

// Canonical upper-cases the first ASCII letter of name, so "tocHeader"
// renders as "TocHeader".
func Canonical(name string) string {
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			return name[:i] + string(c-'a'+'A') + name[i+1:]
		}
		if c >= 'A' && c <= 'Z' {
			return name
		}
	}
	return name
}

// StartTag renders the opening marker for name.
func StartTag(name string) string {
	return "<!--start" + Canonical(name) + "-->"
}

// EndTag renders the closing marker for name.
func EndTag(name string) string {
	return "<!--end" + Canonical(name) + "-->"
}

var markerBreaker = strings.NewReplacer("<!--start", "<!-- start", "<!--end", "<!-- end")

// Neutralize breaks every region marker in text ("<!--endCode-->" becomes
// "<!-- endCode-->"), so embedded text can neither open nor close a region.
func Neutralize(text string) string {
	return markerBreaker.Replace(text)
}

var (
	patternMu    sync.Mutex
	patternCache = map[string]*tagPatterns{}
)

type tagPatterns struct {
	start  *regexp.Regexp
	end    *regexp.Regexp
	region *regexp.Regexp
}

func patternsFor(name string) *tagPatterns {
	patternMu.Lock()
	defer patternMu.Unlock()
	if p, ok := patternCache[name]; ok {
		return p
	}
	quoted := regexp.QuoteMeta(name)
	p := &tagPatterns{
		start:  regexp.MustCompile(`^\s*<!--start(?i:` + quoted + `)-->`),
		end:    regexp.MustCompile(`^\s*<!--end(?i:` + quoted + `)-->`),
		region: regexp.MustCompile(`(?s)<!--start(?i:` + quoted + `)-->(.*?)<!--end(?i:` + quoted + `)-->`),
	}
	patternCache[name] = p
	return p
}

// IsStartLine reports whether line begins with the start marker for name.
func IsStartLine(line, name string) bool {
	return patternsFor(name).start.MatchString(line)
}

// IsEndLine reports whether line begins with the end marker for name.
func IsEndLine(line, name string) bool {
	return patternsFor(name).end.MatchString(line)
}

// FindRegions returns every non-overlapping region for name, in text order.
func FindRegions(name, text string) []Region {
	matches := patternsFor(name).region.FindAllStringSubmatchIndex(text, -1)
	regions := make([]Region, 0, len(matches))
	for _, m := range matches {
		regions = append(regions, Region{Start: m[0], End: m[1], BodyStart: m[2], BodyEnd: m[3]})
	}
	return regions
}

// RenderRegion renders a complete region. Blank content yields the two bare
// markers on consecutive lines.
func RenderRegion(name, content string) string {
	if strings.TrimSpace(content) == "" {
		return StartTag(name) + "\n" + EndTag(name)
	}
	return StartTag(name) + "\n" + content + "\n" + EndTag(name)
}

// ReplaceRegion replaces the first region for name in text with content. Text
// without such a region is returned unchanged.
func ReplaceRegion(name, content, text string) string {
	loc := patternsFor(name).region.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + RenderRegion(name, content) + text[loc[1]:]
}

// Body returns the content of the first region for name, without the
// surrounding newlines added by RenderRegion.
func Body(name, text string) (string, bool) {
	m := patternsFor(name).region.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.Trim(m[1], "\n"), true
}

// RegionContains reports whether text holds at least one region for name.
func RegionContains(name, text string) bool {
	return patternsFor(name).region.MatchString(text)
}
