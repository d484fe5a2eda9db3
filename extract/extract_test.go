package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestFileType(t *testing.T) {
	tests := []struct {
		fileName string
		want     string
		wantErr  bool
	}{
		{"book.pdf", "pdf", false},
		{"Book.PDF", "pdf", false},
		{"manuscript.docx", "docx", false},
		{"legacy.doc", "docx", false},
		{"notes.txt", "txt", false},
		{"archive.tar.txt", "txt", false},
		{"spreadsheet.xlsx", "", true},
		{"image.png", "", true},
		{"noextension", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := FileType(tt.fileName)
		if (err != nil) != tt.wantErr {
			t.Errorf("FileType(%q) error = %v, wantErr %v", tt.fileName, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FileType(%q) = %q, want %q", tt.fileName, got, tt.want)
		}
	}
}

func TestRegistryCoversSupportedTypes(t *testing.T) {
	r := NewRegistry()
	for _, ft := range SupportedTypes() {
		e, err := r.Get(ft)
		if err != nil {
			t.Errorf("Get(%q) error = %v", ft, err)
			continue
		}
		found := false
		for _, f := range e.Formats() {
			if f == ft {
				found = true
			}
		}
		if !found {
			t.Errorf("extractor for %q does not list it in Formats()", ft)
		}
	}

	if _, err := r.Get("xlsx"); err == nil {
		t.Error("Get(\"xlsx\") should fail")
	}
}

func TestRegistryRegisterOverride(t *testing.T) {
	r := NewRegistry()
	custom := &TextExtractor{}
	r.Register("pdf", custom)

	e, err := r.Get("pdf")
	if err != nil {
		t.Fatal(err)
	}
	if e != Extractor(custom) {
		t.Error("Register did not replace the extractor")
	}
}

// ---------------------------------------------------------------------------
// Text extractor
// ---------------------------------------------------------------------------

func TestTextExtract(t *testing.T) {
	e := &TextExtractor{}
	got, err := e.Extract(context.Background(), []byte("Hello, manuscript.\nSecond line."))
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello, manuscript.\nSecond line." {
		t.Errorf("Extract = %q", got)
	}
}

func TestTextExtractStripsBOM(t *testing.T) {
	e := &TextExtractor{}
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("content")...)
	got, err := e.Extract(context.Background(), data)
	if err != nil {
		t.Fatal(err)
	}
	if got != "content" {
		t.Errorf("Extract = %q, want %q", got, "content")
	}
}

func TestTextExtractReplacesInvalidUTF8(t *testing.T) {
	e := &TextExtractor{}
	got, err := e.Extract(context.Background(), []byte{'c', 'a', 'f', 0xE9}) // latin-1 é
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "caf") || !strings.Contains(got, "�") {
		t.Errorf("Extract = %q, want replacement character", got)
	}
}

func TestTextExtractEmpty(t *testing.T) {
	e := &TextExtractor{}
	for _, data := range [][]byte{nil, []byte("   \n\t ")} {
		if _, err := e.Extract(context.Background(), data); err == nil {
			t.Errorf("Extract(%q) should fail for blank input", data)
		}
	}
}

// ---------------------------------------------------------------------------
// DOCX extractor
// ---------------------------------------------------------------------------

const docxXMLTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>%s</w:body>
</w:document>`

// buildDOCX assembles a minimal in-memory DOCX container around the
// given document.xml body markup.
func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(strings.Replace(docxXMLTemplate, "%s", body, 1))); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func para(texts ...string) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	for _, s := range texts {
		b.WriteString("<w:r><w:t>" + s + "</w:t></w:r>")
	}
	b.WriteString("</w:p>")
	return b.String()
}

func TestDOCXExtract(t *testing.T) {
	data := buildDOCX(t, para("Chapter 1: Beginnings")+para("It was a quiet morning.")+para(""))

	e := &DOCXExtractor{}
	got, err := e.Extract(context.Background(), data)
	if err != nil {
		t.Fatal(err)
	}

	want := "Chapter 1: Beginnings\n\nIt was a quiet morning."
	if got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestDOCXExtractJoinsRuns(t *testing.T) {
	// Word splits sentences across runs arbitrarily; the pieces must
	// rejoin without separators.
	data := buildDOCX(t, para("Hel", "lo wor", "ld"))

	e := &DOCXExtractor{}
	got, err := e.Extract(context.Background(), data)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello world" {
		t.Errorf("Extract = %q, want %q", got, "Hello world")
	}
}

func TestDOCXExtractNotAZip(t *testing.T) {
	e := &DOCXExtractor{}
	_, err := e.Extract(context.Background(), []byte{0xD0, 0xCF, 0x11, 0xE0}) // OLE magic, legacy .doc
	if err == nil {
		t.Fatal("expected an error for non-ZIP input")
	}
	if !strings.Contains(err.Error(), "container") {
		t.Errorf("error = %v, want container error", err)
	}
}

func TestDOCXExtractMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("<styles/>"))
	zw.Close()

	e := &DOCXExtractor{}
	if _, err := e.Extract(context.Background(), buf.Bytes()); err == nil {
		t.Fatal("expected an error when word/document.xml is absent")
	}
}

func TestDOCXExtractNoText(t *testing.T) {
	data := buildDOCX(t, para("")+para(""))

	e := &DOCXExtractor{}
	if _, err := e.Extract(context.Background(), data); err == nil {
		t.Fatal("expected an error for a DOCX with no text")
	}
}
