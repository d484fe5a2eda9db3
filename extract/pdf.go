package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads page-wise plain text from a PDF. Layout cues
// (font size, position) are ignored; segmentation works on text alone.
type PDFExtractor struct{}

func (e *PDFExtractor) Formats() []string { return []string{"pdf"} }

func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	var b strings.Builder
	extracted := 0
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract; a fully textless PDF is
			// caught below.
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if b.Len() > 0 {
			// Page boundaries become hard section breaks so downstream
			// detection can use them.
			b.WriteString("\n\n\n")
		}
		b.WriteString(text)
		extracted++
	}

	if extracted == 0 {
		return "", fmt.Errorf("no extractable text in PDF (%d pages)", reader.NumPage())
	}
	return b.String(), nil
}
