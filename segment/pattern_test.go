package segment

import (
	"strings"
	"testing"
)

func TestMatchHeading(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantOK    bool
		wantKind  headingKind
		wantNum   int
		wantTitle string
	}{
		{"chapter_colon", "Chapter 1: The Beginning", true, kindChapter, 1, "The Beginning"},
		{"chapter_dash", "Chapter 12 - Homecoming", true, kindChapter, 12, "Homecoming"},
		{"chapter_bare", "Chapter 3", true, kindChapter, 3, ""},
		{"chapter_word", "Chapter Seven: Rain", true, kindChapter, 7, "Rain"},
		{"chapter_lower", "chapter two", true, kindChapter, 2, ""},
		{"part", "Part 2: The War Years", true, kindPart, 2, "The War Years"},
		{"part_word", "PART THREE", true, kindPart, 3, ""},
		{"numbered_dot", "1. Introduction", true, kindNumbered, 1, "Introduction"},
		{"numbered_paren", "12) Methods", true, kindNumbered, 12, "Methods"},
		{"roman_dot", "IV. The Siege", true, kindRoman, 4, "The Siege"},
		{"roman_colon", "XII: Winter", true, kindRoman, 12, "Winter"},
		{"roman_bare", "VII", true, kindRoman, 7, ""},
		{"roman_lower", "iii. interlude", true, kindRoman, 3, "interlude"},
		{"section", "Section 4: Payments", true, kindSection, 4, "Payments"},
		{"plain_sentence", "It was a dark and stormy night.", false, 0, 0, ""},
		{"sentence_starting_i", "I went to the harbor that morning", false, 0, 0, ""},
		{"sentence_starting_v", "V is a letter not a chapter here", false, 0, 0, ""},
		{"invalid_roman", "IIII. Not a numeral", false, 0, 0, ""},
		{"chapter_mid_sentence", "That chapter 3 discussion continued.", false, 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := matchHeading(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("matchHeading(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if h.kind != tt.wantKind {
				t.Errorf("kind = %d, want %d", h.kind, tt.wantKind)
			}
			if h.number != tt.wantNum {
				t.Errorf("number = %d, want %d", h.number, tt.wantNum)
			}
			if h.title != tt.wantTitle {
				t.Errorf("title = %q, want %q", h.title, tt.wantTitle)
			}
		})
	}
}

func TestDetectByPatternChapterHeadings(t *testing.T) {
	text := strings.Join([]string{
		"Chapter 1: The Beginning",
		"It was a dark and stormy night. The rain fell without pause.",
		"",
		"Chapter 2: The Middle",
		"Events unfolded in ways nobody expected that year.",
		"",
		"Chapter 3 - The End",
		"All questions found their answers at last.",
	}, "\n")

	res := DetectByPattern(text, Options{})
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Method != MethodChapterHeading {
		t.Errorf("Method = %q, want %q", res.Method, MethodChapterHeading)
	}
	if len(res.Chapters) != 3 {
		t.Fatalf("got %d chapters, want 3", len(res.Chapters))
	}

	wantTitles := []string{"The Beginning", "The Middle", "The End"}
	for i, want := range wantTitles {
		if res.Chapters[i].Title != want {
			t.Errorf("chapter[%d].Title = %q, want %q", i, res.Chapters[i].Title, want)
		}
	}
	if !strings.Contains(res.Chapters[1].Content, "nobody expected") {
		t.Errorf("chapter[1] content wrong: %q", res.Chapters[1].Content)
	}
	assertSequence(t, res.Chapters)
}

func TestDetectByPatternNumberedSections(t *testing.T) {
	text := strings.Join([]string{
		"1. Scope",
		"This document covers the full scope of delivery.",
		"",
		"2. Definitions",
		"Terms used throughout are defined here.",
		"",
		"3. Obligations",
		"Each party agrees to the following.",
	}, "\n")

	res := DetectByPattern(text, Options{})
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Method != MethodNumberedSections {
		t.Errorf("Method = %q, want %q", res.Method, MethodNumberedSections)
	}
	if len(res.Chapters) != 3 {
		t.Fatalf("got %d chapters, want 3", len(res.Chapters))
	}
	if res.Chapters[0].Title != "Scope" {
		t.Errorf("first title = %q, want %q", res.Chapters[0].Title, "Scope")
	}
	assertSequence(t, res.Chapters)
}

func TestDetectByPatternSynthesizesTitles(t *testing.T) {
	text := strings.Join([]string{
		"Chapter One",
		"The first body paragraph sits here.",
		"Chapter Two",
		"The second body paragraph sits here.",
	}, "\n")

	res := DetectByPattern(text, Options{})
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Chapters[0].Title != "Chapter 1" {
		t.Errorf("title = %q, want %q", res.Chapters[0].Title, "Chapter 1")
	}
	if res.Chapters[1].Title != "Chapter 2" {
		t.Errorf("title = %q, want %q", res.Chapters[1].Title, "Chapter 2")
	}
}

func TestDetectByPatternSingleHeadingRejected(t *testing.T) {
	text := "Chapter 1: Alone\nSome content follows the only heading.\nMore content here."
	if res := DetectByPattern(text, Options{}); res != nil {
		t.Errorf("expected nil for a single heading, got %d chapters", len(res.Chapters))
	}
}

func TestDetectByPatternHeadingWithoutContent(t *testing.T) {
	// The trailing "Chapter 3" has nothing after it; it must not
	// become a chapter.
	text := strings.Join([]string{
		"Chapter 1",
		"First chapter body.",
		"Chapter 2",
		"Second chapter body.",
		"Chapter 3",
	}, "\n")

	res := DetectByPattern(text, Options{})
	if res == nil {
		t.Fatal("expected a result")
	}
	if len(res.Chapters) != 2 {
		t.Fatalf("got %d chapters, want 2", len(res.Chapters))
	}
}

func TestDetectByPatternLongPreambleBecomesIntroduction(t *testing.T) {
	text := prose(250) + "\n" + strings.Join([]string{
		"Chapter 1",
		"First chapter body.",
		"Chapter 2",
		"Second chapter body.",
	}, "\n")

	res := DetectByPattern(text, Options{})
	if res == nil {
		t.Fatal("expected a result")
	}
	if len(res.Chapters) != 3 {
		t.Fatalf("got %d chapters, want 3", len(res.Chapters))
	}
	if res.Chapters[0].Title != "Introduction" {
		t.Errorf("first title = %q, want %q", res.Chapters[0].Title, "Introduction")
	}
	if res.Chapters[0].Number != 1 {
		t.Errorf("introduction Number = %d, want 1", res.Chapters[0].Number)
	}
	assertSequence(t, res.Chapters)
}

func TestDetectByPatternShortPreambleDropped(t *testing.T) {
	text := "A Title Page\nby Someone\n" + strings.Join([]string{
		"Chapter 1",
		"First chapter body.",
		"Chapter 2",
		"Second chapter body.",
	}, "\n")

	res := DetectByPattern(text, Options{})
	if res == nil {
		t.Fatal("expected a result")
	}
	if len(res.Chapters) != 2 {
		t.Fatalf("got %d chapters, want 2", len(res.Chapters))
	}
	if strings.Contains(res.Chapters[0].Content, "Title Page") {
		t.Error("front matter leaked into the first chapter")
	}
}

func TestDetectByPatternNoHeadings(t *testing.T) {
	if res := DetectByPattern(prose(300), Options{}); res != nil {
		t.Errorf("expected nil for unstructured text, got %d chapters", len(res.Chapters))
	}
}

func TestIsHeadingLine(t *testing.T) {
	if !isHeadingLine("Chapter 4: Storms") {
		t.Error("expected true for a chapter heading")
	}
	if isHeadingLine("Just an ordinary line of text.") {
		t.Error("expected false for body text")
	}
	if isHeadingLine("") {
		t.Error("expected false for an empty line")
	}
	if isHeadingLine("Chapter 1 " + strings.Repeat("x", maxHeadingLen)) {
		t.Error("expected false for an overlong line")
	}
}
