package segment

import (
	"fmt"
	"regexp"
	"strings"
)

// sectionBreak matches a run of three or more newlines: at least two
// blank lines, the strongest break signal Normalize leaves in place.
var sectionBreak = regexp.MustCompile(`\n{3,}`)

// remainderMinWords is the smallest trailing remainder that may stand
// as its own chapter; anything shorter is folded into the previous one.
const remainderMinWords = 100

// maxInferredTitleLen bounds first lines that may serve as a chapter
// title. Longer first lines are body text.
const maxInferredTitleLen = 100

// DetectByPageBreaks is the fallback strategy for documents without
// recognizable headings. It splits on blank-line runs and accretes
// consecutive sections into chapters until each reaches the minimum
// word threshold. Returns nil when the text has fewer than two
// sections, or when accretion produces fewer than two chapters.
func DetectByPageBreaks(text string, opts Options) *Result {
	opts = opts.withDefaults()

	var parts []string
	for _, s := range sectionBreak.Split(text, -1) {
		s = strings.TrimSpace(s)
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) < 2 {
		return nil
	}

	var chapters []Chapter
	var buf []string
	bufWords := 0

	for _, p := range parts {
		buf = append(buf, p)
		bufWords += countWords(p)
		if bufWords >= opts.MinChapterWords {
			chapters = append(chapters, accretedChapter(buf, len(chapters)+1))
			buf, bufWords = nil, 0
		}
	}

	// The leftover buffer either stands as a final chapter or, when
	// too small, is appended to the previous chapter rather than
	// emitted as a degenerate fragment.
	if len(buf) > 0 {
		if bufWords >= remainderMinWords {
			chapters = append(chapters, accretedChapter(buf, len(chapters)+1))
		} else if len(chapters) > 0 {
			last := &chapters[len(chapters)-1]
			last.Content = last.Content + "\n\n" + strings.Join(buf, "\n\n")
			last.WordCount = countWords(last.Content)
		}
	}

	if len(chapters) < 2 {
		return nil
	}
	renumber(chapters)
	return &Result{Chapters: chapters, Method: MethodPageBreaks}
}

// accretedChapter finalizes an accretion buffer into one chapter,
// inferring a title from a short first line when one exists.
func accretedChapter(parts []string, n int) Chapter {
	content := strings.TrimSpace(strings.Join(parts, "\n\n"))
	title := fmt.Sprintf("Chapter %d", n)

	lines := strings.Split(content, "\n")
	if len(lines) > 1 {
		first := strings.TrimSpace(lines[0])
		rest := strings.TrimSpace(strings.Join(lines[1:], "\n"))
		if first != "" && len(first) < maxInferredTitleLen && rest != "" {
			title = first
			content = rest
		}
	}

	return Chapter{
		Title:     title,
		Content:   content,
		WordCount: countWords(content),
	}
}
