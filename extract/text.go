package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextExtractor handles plain .txt files.
type TextExtractor struct{}

func (e *TextExtractor) Formats() []string { return []string{"txt"} }

func (e *TextExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	// Invalid byte sequences (typically stray latin-1) are replaced
	// rather than failing the whole upload.
	text := strings.ToValidUTF8(string(data), "�")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("text file is empty")
	}
	return text, nil
}
