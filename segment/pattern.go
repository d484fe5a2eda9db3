package segment

import (
	"fmt"
	"regexp"
	"strings"
)

// maxHeadingLen is the longest line that is still considered as a
// heading candidate. Real headings are short; anything longer is body
// text that happens to start with a heading-like token.
const maxHeadingLen = 200

// preambleMinWords is the threshold above which text before the first
// heading becomes its own "Introduction" chapter instead of being
// discarded as front matter.
const preambleMinWords = 200

type headingKind int

const (
	kindChapter headingKind = iota
	kindPart
	kindNumbered
	kindRoman
	kindSection
)

func (k headingKind) word() string {
	switch k {
	case kindPart:
		return "Part"
	case kindSection:
		return "Section"
	default:
		return "Chapter"
	}
}

// headingPatterns is the ordered priority list of heading styles. The
// first pattern matching a line wins for that line. Each regexp
// captures the numeral token and any trailing title text.
var headingPatterns = []struct {
	kind headingKind
	re   *regexp.Regexp
}{
	{kindChapter, regexp.MustCompile(`(?i)^chapter\s+(\d+|[a-z]+)\s*[:.\-]?\s*(.*)$`)},
	{kindPart, regexp.MustCompile(`(?i)^part\s+(\d+|[a-z]+)\s*[:.\-]?\s*(.*)$`)},
	{kindNumbered, regexp.MustCompile(`^(\d{1,3})[.)]\s*(.*)$`)},
	{kindRoman, regexp.MustCompile(`^([IVXivx]+)([.):]?)\s*(.*)$`)},
	{kindSection, regexp.MustCompile(`(?i)^section\s+(\d+|[a-z]+)\s*[:.\-]?\s*(.*)$`)},
}

// heading is one accepted heading candidate.
type heading struct {
	line   int
	kind   headingKind
	number int
	title  string // trailing title text, may be empty
}

// matchHeading tests a trimmed line against the pattern table.
func matchHeading(line string) (heading, bool) {
	for _, p := range headingPatterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		if p.kind == kindRoman {
			// A bare capital I or V at the start of a sentence matches the
			// character class, so Roman headings are held to a stricter
			// standard: the token must be a valid numeral, and any title
			// text must be introduced by punctuation.
			token, punct, rest := m[1], m[2], strings.TrimSpace(m[3])
			if _, ok := romanNumbers[strings.ToLower(token)]; !ok {
				continue
			}
			if punct == "" && rest != "" {
				continue
			}
			return heading{kind: p.kind, number: ParseChapterNumber(token), title: rest}, true
		}

		return heading{kind: p.kind, number: ParseChapterNumber(m[1]), title: strings.TrimSpace(m[2])}, true
	}
	return heading{}, false
}

// isHeadingLine reports whether a line looks like a structural heading.
// Shared with the metadata extractor so title guessing skips headings.
func isHeadingLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || len(line) >= maxHeadingLen {
		return false
	}
	_, ok := matchHeading(line)
	return ok
}

// hasTrailingContent checks that at least one of the two lines after
// index i is non-blank. A heading with nothing after it is a stray
// mention, not a chapter boundary.
func hasTrailingContent(lines []string, i int) bool {
	for j := i + 1; j <= i+2 && j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) != "" {
			return true
		}
	}
	return false
}

// DetectByPattern carves the text into chapters at validated heading
// lines. It is the highest-confidence strategy and returns nil unless
// at least two headings with non-empty bodies are found.
func DetectByPattern(text string, opts Options) *Result {
	lines := strings.Split(text, "\n")

	var heads []heading
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || len(trimmed) >= maxHeadingLen {
			continue
		}
		h, ok := matchHeading(trimmed)
		if !ok {
			continue
		}
		if !hasTrailingContent(lines, i) {
			continue
		}
		h.line = i
		heads = append(heads, h)
	}

	// A lone heading is too weak a signal: the document might just
	// mention "Chapter 3" once in passing.
	if len(heads) < 2 {
		return nil
	}

	var chapters []Chapter
	keyworded := false // saw an explicit Chapter/Part heading
	for idx, h := range heads {
		end := len(lines)
		if idx+1 < len(heads) {
			end = heads[idx+1].line
		}
		content := strings.TrimSpace(strings.Join(lines[h.line+1:end], "\n"))
		if content == "" {
			// Two headings on adjacent lines; nothing to emit.
			continue
		}

		title := h.title
		if title == "" {
			title = fmt.Sprintf("%s %d", h.kind.word(), h.number)
		}

		chapters = append(chapters, Chapter{
			Title:     title,
			Content:   content,
			WordCount: countWords(content),
			StartLine: h.line,
			EndLine:   end,
		})
		if h.kind == kindChapter || h.kind == kindPart {
			keyworded = true
		}
	}

	// Text before the first heading is either real introductory content
	// or front matter (title page, dedication). Only substantial
	// preambles survive; short ones are discarded, never silently merged
	// into the first chapter.
	if len(chapters) > 0 && heads[0].line > 0 {
		pre := strings.TrimSpace(strings.Join(lines[:heads[0].line], "\n"))
		if countWords(pre) > preambleMinWords {
			intro := Chapter{
				Title:     "Introduction",
				Content:   pre,
				WordCount: countWords(pre),
				StartLine: 0,
				EndLine:   heads[0].line,
			}
			chapters = append([]Chapter{intro}, chapters...)
		}
	}

	if len(chapters) < 2 {
		return nil
	}
	renumber(chapters)

	method := MethodNumberedSections
	if keyworded {
		method = MethodChapterHeading
	}
	return &Result{Chapters: chapters, Method: method}
}
