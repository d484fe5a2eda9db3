// Package extract turns uploaded manuscript bytes into plain text.
// One extractor exists per supported format; everything structural
// (chapters, titles) is recovered later from the text alone.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Extractor pulls raw text out of one binary document format.
type Extractor interface {
	// Extract returns the document's plain text. Corrupted, encrypted,
	// or textless input must surface as an error, never as silence.
	Extract(ctx context.Context, data []byte) (string, error)

	// Formats lists the file types this extractor handles.
	Formats() []string
}

// Registry maps file types to extractors.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry returns a registry with the built-in PDF, DOCX, and
// plain-text extractors registered.
func NewRegistry() *Registry {
	r := &Registry{extractors: make(map[string]Extractor)}
	for _, e := range []Extractor{&PDFExtractor{}, &DOCXExtractor{}, &TextExtractor{}} {
		for _, f := range e.Formats() {
			r.extractors[f] = e
		}
	}
	return r
}

// Get returns the extractor for a file type.
func (r *Registry) Get(fileType string) (Extractor, error) {
	e, ok := r.extractors[fileType]
	if !ok {
		return nil, fmt.Errorf("no extractor for file type: %s", fileType)
	}
	return e, nil
}

// Register adds or replaces the extractor for a file type.
func (r *Registry) Register(fileType string, e Extractor) {
	r.extractors[fileType] = e
}

// extOverrides maps extensions whose file type differs from the
// extension itself. Legacy .doc is routed to the DOCX extractor; a true
// OLE-container .doc will fail there with a descriptive error.
var extOverrides = map[string]string{
	"doc": "docx",
}

// FileType derives the canonical file type (pdf, docx, txt) from a file
// name's extension.
func FileType(fileName string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ext == "" {
		return "", fmt.Errorf("file %q has no extension", fileName)
	}
	if t, ok := extOverrides[ext]; ok {
		return t, nil
	}
	for _, t := range SupportedTypes() {
		if ext == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("unsupported file type: %s", ext)
}

// SupportedTypes lists the canonical file types the engine accepts.
func SupportedTypes() []string {
	return []string{"pdf", "docx", "txt"}
}

// SupportedMIMETypes lists the MIME types matching SupportedTypes.
// MIME validation is advisory only; the file extension wins on mismatch.
func SupportedMIMETypes() []string {
	return []string{
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/msword",
		"text/plain",
	}
}
