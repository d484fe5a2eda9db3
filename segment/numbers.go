package segment

import (
	"strconv"
	"strings"
)

// wordNumbers maps spelled-out chapter numerals to integers.
var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18,
	"nineteen": 19, "twenty": 20,
}

// romanNumbers maps Roman numerals I through XX to integers.
var romanNumbers = map[string]int{
	"i": 1, "ii": 2, "iii": 3, "iv": 4, "v": 5,
	"vi": 6, "vii": 7, "viii": 8, "ix": 9, "x": 10,
	"xi": 11, "xii": 12, "xiii": 13, "xiv": 14, "xv": 15,
	"xvi": 16, "xvii": 17, "xviii": 18, "xix": 19, "xx": 20,
}

// ParseChapterNumber converts a heading's numeral token — an arabic
// digit string, a spelled-out number up to twenty, or a Roman numeral
// up to XX — into an integer.
//
// An unparseable token yields 1 rather than an error. This leniency is
// intentional: detection renumbers every chapter sequentially afterward,
// so the value is informational only, and failing here would abort an
// otherwise good detection over a single odd heading.
func ParseChapterNumber(token string) int {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return 1
	}
	if n, err := strconv.Atoi(token); err == nil {
		return n
	}
	if n, ok := wordNumbers[token]; ok {
		return n
	}
	if n, ok := romanNumbers[token]; ok {
		return n
	}
	return 1
}
