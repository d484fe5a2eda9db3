package segment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMergeIndices is returned for out-of-range or non-adjacent
	// merge indices.
	ErrMergeIndices = errors.New("segment: invalid chapter indices for merge")

	// ErrSplitIndex is returned for an out-of-range split index.
	ErrSplitIndex = errors.New("segment: invalid chapter index for split")

	// ErrSplitEmpty is returned when a split position leaves one half
	// with no content.
	ErrSplitEmpty = errors.New("segment: split would result in an empty chapter")
)

// MergeChapters combines two adjacent chapters into one. The merged
// chapter keeps the lower-indexed chapter's title; the two bodies are
// joined with a blank line and the word count recomputed. The input
// slice is never mutated; a freshly renumbered sequence is returned.
func MergeChapters(chapters []Chapter, i, j int) ([]Chapter, error) {
	if i > j {
		i, j = j, i
	}
	if i < 0 || j >= len(chapters) || j-i != 1 {
		return nil, fmt.Errorf("%w: %d, %d", ErrMergeIndices, i, j)
	}

	content := chapters[i].Content + "\n\n" + chapters[j].Content
	merged := Chapter{
		Title:     chapters[i].Title,
		Content:   content,
		WordCount: countWords(content),
	}

	out := make([]Chapter, 0, len(chapters)-1)
	out = append(out, chapters[:i]...)
	out = append(out, merged)
	out = append(out, chapters[j+1:]...)
	renumber(out)
	return out, nil
}

// SplitChapter divides the chapter at index into two at the given byte
// position within its content. Both halves must be non-empty after
// trimming; an edit that would emit an empty chapter fails instead.
// The first half keeps the original title; the second half takes
// newTitle, or a synthesized "Chapter N" when newTitle is empty. The
// input slice is never mutated.
func SplitChapter(chapters []Chapter, index, position int, newTitle string) ([]Chapter, error) {
	if index < 0 || index >= len(chapters) {
		return nil, fmt.Errorf("%w: %d", ErrSplitIndex, index)
	}

	content := chapters[index].Content
	if position < 0 || position > len(content) {
		return nil, fmt.Errorf("%w: position %d out of range", ErrSplitIndex, position)
	}

	first := strings.TrimSpace(content[:position])
	second := strings.TrimSpace(content[position:])
	if first == "" || second == "" {
		return nil, fmt.Errorf("%w (position %d)", ErrSplitEmpty, position)
	}

	if newTitle == "" {
		newTitle = fmt.Sprintf("Chapter %d", index+2)
	}

	out := make([]Chapter, 0, len(chapters)+1)
	out = append(out, chapters[:index]...)
	out = append(out,
		Chapter{
			Title:     chapters[index].Title,
			Content:   first,
			WordCount: countWords(first),
		},
		Chapter{
			Title:     newTitle,
			Content:   second,
			WordCount: countWords(second),
		},
	)
	out = append(out, chapters[index+1:]...)
	renumber(out)
	return out, nil
}
