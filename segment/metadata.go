package segment

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	metadataScanLines = 20  // lines inspected for title/author
	titleScanLines    = 5   // title must appear this early or the filename wins
	maxTitleLen       = 150 // longer lines are body text, not a title
	minTitleLen       = 3
)

// UnknownAuthor is the sentinel used when no author line is found.
const UnknownAuthor = "Unknown Author"

var (
	byLinePrefix = regexp.MustCompile(`(?i)^by\s+`)

	// A strict Firstname Lastname line: exactly two capitalized words.
	authorNameLine = regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+$`)

	dashOrUnderscore = regexp.MustCompile(`[_\-]+`)
	multiSpace       = regexp.MustCompile(`\s+`)
)

// Metadata is the best-effort title/author guess for a document.
type Metadata struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// ExtractMetadata inspects the opening lines of the normalized text for
// a title and author. Lines that are blank, heading-like, or outside
// the plausible title length are skipped. The first qualifying line
// becomes the title; later qualifying lines are checked only for an
// author ("by ..." prefix or a bare Firstname Lastname line). When no
// title shows up within the first few lines, the filename — extension
// stripped, separators spaced — is used instead.
func ExtractMetadata(text, fileName string) Metadata {
	meta := Metadata{Author: UnknownAuthor}

	lines := strings.Split(text, "\n")
	if len(lines) > metadataScanLines {
		lines = lines[:metadataScanLines]
	}

	titleLine := -1
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) < minTitleLen || len(line) > maxTitleLen {
			continue
		}
		if isHeadingLine(line) {
			continue
		}

		if meta.Title == "" {
			meta.Title = line
			titleLine = i
			continue
		}

		if loc := byLinePrefix.FindString(line); loc != "" {
			meta.Author = strings.TrimSpace(line[len(loc):])
			break
		}
		if authorNameLine.MatchString(line) {
			meta.Author = line
			break
		}
	}

	if meta.Title == "" || titleLine >= titleScanLines {
		meta.Title = titleFromFileName(fileName)
	}
	return meta
}

// titleFromFileName derives a display title from a file name: the
// extension is dropped and underscores/hyphens become spaces.
func titleFromFileName(fileName string) string {
	base := filepath.Base(fileName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = dashOrUnderscore.ReplaceAllString(base, " ")
	base = multiSpace.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)
	if base == "" {
		return "Untitled"
	}
	return base
}
