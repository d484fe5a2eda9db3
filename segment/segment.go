// Package segment recovers chapter structure from flat manuscript text.
//
// The entry point is Segment, which runs a fixed cascade of detection
// strategies over normalized text: heading-pattern matching first, then
// page-break accretion, then (for long documents only) fixed-size
// word-count splitting. All functions are pure and perform no I/O;
// concurrent callers need no coordination.
package segment

import (
	"errors"
	"strings"
)

// Method identifies which detection strategy produced a chapter set.
type Method string

const (
	MethodChapterHeading   Method = "chapter_heading"
	MethodNumberedSections Method = "numbered_sections"
	MethodPageBreaks       Method = "page_breaks"
	MethodWordCountSplit   Method = "word_count_split"
	MethodSingleChapter    Method = "single_chapter"
)

// ErrTooLittleText is returned when a document has too little text
// content to segment (empty, or under MinDocumentWords words).
var ErrTooLittleText = errors.New("segment: too little text content")

// MinDocumentWords is the minimum word count a document must have
// before segmentation is attempted at all.
const MinDocumentWords = 100

// Chapter is one detected chapter. Number is always a 1-based position
// within its containing sequence; every detection and editing operation
// renumbers, so numbers are contiguous with no gaps or duplicates.
type Chapter struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	WordCount int    `json:"wordCount"`

	// Line-offset provenance into the normalized text. Advisory only;
	// set by the heading detector, zero elsewhere.
	StartLine int `json:"startLine,omitempty"`
	EndLine   int `json:"endLine,omitempty"`
}

// Result is the outcome of a successful segmentation.
type Result struct {
	Chapters []Chapter `json:"chapters"`
	Method   Method    `json:"method"`

	// Truncated reports that the chapter list was cut at MaxChapters
	// and trailing content was dropped.
	Truncated bool `json:"truncated,omitempty"`
}

// Options controls the segmentation thresholds.
// Zero-value fields are replaced with the documented defaults.
type Options struct {
	MinChapterWords       int // page-break accretion threshold (default 500)
	PreferredChapterWords int // word-count split target (default 3000)
	MaxChapters           int // hard cap on emitted chapters (default 100)
}

func (o Options) withDefaults() Options {
	if o.MinChapterWords == 0 {
		o.MinChapterWords = 500
	}
	if o.PreferredChapterWords == 0 {
		o.PreferredChapterWords = 3000
	}
	if o.MaxChapters == 0 {
		o.MaxChapters = 100
	}
	return o
}

// Strategy is one detection approach. It returns nil when the text does
// not carry enough signal for the strategy to commit to a result.
type Strategy func(text string, opts Options) *Result

// strategies is the fallback chain, tried in order. The word-count
// splitter is not in this list: it never fails and is applied last,
// outside the chain, only to documents long enough to warrant it.
var strategies = []Strategy{
	DetectByPattern,
	DetectByPageBreaks,
}

// Segment runs the detection cascade over normalized text and returns
// the first successful result. Text is expected to have passed through
// Normalize already. It fails only when the document is empty or under
// MinDocumentWords words; every longer document yields chapters.
func Segment(text string, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	totalWords := countWords(text)
	if totalWords < MinDocumentWords {
		return nil, ErrTooLittleText
	}

	var res *Result
	for _, s := range strategies {
		if r := s(text, opts); r != nil {
			res = r
			break
		}
	}

	if res == nil {
		if totalWords < 2*opts.PreferredChapterWords {
			// Short documents stay whole rather than being force-split.
			content := strings.TrimSpace(text)
			res = &Result{
				Chapters: []Chapter{{
					Number:    1,
					Title:     "Full Content",
					Content:   content,
					WordCount: countWords(content),
				}},
				Method: MethodSingleChapter,
			}
		} else {
			res = SplitByWordCount(text, opts)
		}
	}

	if len(res.Chapters) > opts.MaxChapters {
		res.Chapters = res.Chapters[:opts.MaxChapters]
		res.Truncated = true
		renumber(res.Chapters)
	}

	return res, nil
}

// countWords reports the number of whitespace-separated words in text.
// Chapter word counts are always recomputed with this function; they
// are never carried over from caller-supplied values.
func countWords(text string) int {
	return len(strings.Fields(text))
}

// CountWords is the exported form of the word counter, so callers can
// verify the word-count invariant on returned chapters.
func CountWords(text string) int {
	return countWords(text)
}

// renumber reassigns Number over chapters as a contiguous 1-based
// sequence, overwriting whatever the detector or heading text implied.
func renumber(chapters []Chapter) {
	for i := range chapters {
		chapters[i].Number = i + 1
	}
}
