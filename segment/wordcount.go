package segment

import (
	"fmt"
	"strings"
)

// sentenceCutoff is how far into an accumulated buffer a sentence end
// must fall for the splitter to prefer it over a raw word boundary.
// Cutting earlier would produce badly undersized chapters.
const sentenceCutoff = 0.7

// SplitByWordCount is the last-resort strategy: it cuts the text into
// fixed-size chapters of roughly PreferredChapterWords words, breaking
// at the last sentence end when one falls inside the tolerance window.
// Unlike the other strategies it never fails, and the final partial
// buffer is always emitted regardless of size.
func SplitByWordCount(text string, opts Options) *Result {
	opts = opts.withDefaults()

	words := strings.Fields(text)
	var chapters []Chapter
	var buf []string

	emit := func(content string) {
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}
		chapters = append(chapters, Chapter{
			Title:     fmt.Sprintf("Chapter %d", len(chapters)+1),
			Content:   content,
			WordCount: countWords(content),
		})
	}

	for _, w := range words {
		buf = append(buf, w)
		if len(buf) < opts.PreferredChapterWords {
			continue
		}

		chunk := strings.Join(buf, " ")
		if cut := strings.LastIndex(chunk, ". "); cut > int(float64(len(chunk))*sentenceCutoff) {
			// Sentence-respecting break: keep the period, carry the
			// remainder into the next chapter's buffer.
			emit(chunk[:cut+1])
			buf = strings.Fields(chunk[cut+2:])
		} else {
			// No sentence end close enough; accept a mid-sentence break
			// rather than an undersized chapter.
			emit(chunk)
			buf = nil
		}
	}

	if len(buf) > 0 {
		emit(strings.Join(buf, " "))
	}

	renumber(chapters)
	return &Result{Chapters: chapters, Method: MethodWordCountSplit}
}
