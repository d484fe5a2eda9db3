package segment

import (
	"regexp"
	"strings"
)

var (
	horizontalWS = regexp.MustCompile(`[ \t]+`)

	// Runs of 4+ blank lines (5+ newlines) collapse to exactly two blank
	// lines. Two blank lines are kept deliberately: they are the section
	// break signal the page-break detector splits on.
	excessBlanks = regexp.MustCompile(`\n{5,}`)
)

// Normalize cleans raw extracted text before structural analysis:
// line endings become \n, horizontal whitespace runs collapse to a
// single space, each line is trimmed, and extreme vertical padding is
// capped. It always succeeds; empty input yields an empty string.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalWS.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")

	text = excessBlanks.ReplaceAllString(text, "\n\n\n")

	return strings.TrimSpace(text)
}
