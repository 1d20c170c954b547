package toc

import (
	"strings"
	"unicode"
)

// Slug turns a caption into a lowercase, hyphen-separated identifier built
// from [a-z0-9-]. Any other character, accented letters included, acts as a
// separator ("Café Notes" becomes "caf-notes"), and camel-case boundaries are
// split ("ReadMe" becomes "read-me"). Slug is idempotent.
func Slug(caption string) string {
	rs := []rune(caption)
	var b strings.Builder
	separate := false
	for i, r := range rs {
		if !isAlnum(r) {
			separate = true
			continue
		}
		if !separate && i > 0 && isUpper(r) && camelBoundary(rs, i) {
			separate = true
		}
		if separate && b.Len() > 0 {
			b.WriteByte('-')
		}
		separate = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// camelBoundary reports whether the upper-case rune at i starts a new word:
// "aB", "1B" and the "rS" in "HTTPServer" all do.
func camelBoundary(rs []rune, i int) bool {
	prev := rs[i-1]
	if isLower(prev) || isDigit(prev) {
		return true
	}
	return isUpper(prev) && i+1 < len(rs) && isLower(rs[i+1])
}

func isAlnum(r rune) bool { return isLower(r) || isUpper(r) || isDigit(r) }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }
