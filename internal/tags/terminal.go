package tags

import (
	"regexp"
	"strings"
)

var (
	// A line followed by cursor-up is redrawn by the next write.
	overwrittenLine = regexp.MustCompile(`.*[\n\r]\x1b\[\d*A`)
	// A line followed by erase-line is cleared.
	erasedLine = regexp.MustCompile(`.*\x1b\[2K[\r\n]`)
	csiSequence = regexp.MustCompile(`\x1b\[[0-9;?*]*[a-zA-Z]`)
	oscSequence = regexp.MustCompile(`\x1b\][^\x07\x1b]*(\x07|\x1b\\)`)
)

// StripTerminal removes terminal control output from captured command text:
// redrawn progress lines, erased lines, CSI (colors, cursor movement) and OSC
// sequences. Carriage-return overwrites keep only the final segment of a line.
func StripTerminal(text string) string {
	text = overwrittenLine.ReplaceAllString(text, "")
	text = erasedLine.ReplaceAllString(text, "")
	text = csiSequence.ReplaceAllString(text, "")
	text = oscSequence.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if idx := strings.LastIndexByte(line, '\r'); idx >= 0 {
			line = line[idx+1:]
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
