// Package inkwell recovers book structure — title, author, and an
// ordered chapter sequence — from uploaded manuscripts that carry no
// reliable structural metadata.
//
// Raw bytes pass through format-specific extraction (extract), text
// normalization, and a cascade of chapter-detection strategies
// (segment). Results can be persisted to SQLite (store) and corrected
// afterward with merge/split operations.
package inkwell

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mselway/inkwell/extract"
	"github.com/mselway/inkwell/segment"
	"github.com/mselway/inkwell/store"
)

// Book is the full parse result for one uploaded document.
type Book struct {
	UUID            string            `json:"uuid,omitempty"`
	Title           string            `json:"title"`
	Author          string            `json:"author"`
	Chapters        []segment.Chapter `json:"chapters"`
	TotalWordCount  int               `json:"totalWordCount"`
	RawContent      string            `json:"rawContent,omitempty"`
	FileType        string            `json:"fileType"`
	FileName        string            `json:"fileName"`
	FileSize        int64             `json:"fileSize"`
	DetectionMethod segment.Method    `json:"detectionMethod"`

	// Truncated reports that the chapter list hit the MaxChapters cap
	// and trailing content was dropped.
	Truncated bool `json:"truncated,omitempty"`
}

// Engine is the main entry point for parsing and managing books.
type Engine interface {
	// ParseBook extracts, normalizes, and segments one uploaded
	// manuscript. The result is not persisted; see SaveBook.
	ParseBook(ctx context.Context, r io.Reader, fileName string, opts ...ParseOption) (*Book, error)

	// ParseBookFile is ParseBook over a file on disk.
	ParseBookFile(ctx context.Context, path string, opts ...ParseOption) (*Book, error)

	// SaveBook persists a parsed book and returns its UUID.
	SaveBook(ctx context.Context, book *Book) (string, error)

	// GetBook loads a saved book with its chapters.
	GetBook(ctx context.Context, bookUUID string) (*Book, error)

	// ListBooks returns all saved books without chapter bodies.
	ListBooks(ctx context.Context) ([]store.Book, error)

	// DeleteBook removes a saved book and its chapters.
	DeleteBook(ctx context.Context, bookUUID string) error

	// MergeChapters merges two adjacent chapters of a saved book and
	// persists the renumbered sequence.
	MergeChapters(ctx context.Context, bookUUID string, i, j int) (*Book, error)

	// SplitChapter splits a chapter of a saved book at a byte position
	// and persists the renumbered sequence.
	SplitChapter(ctx context.Context, bookUUID string, index, position int, newTitle string) (*Book, error)

	// Reparse re-runs the detection cascade over a saved book's
	// retained raw content, replacing its chapters.
	Reparse(ctx context.Context, bookUUID string, opts ...ParseOption) (*Book, error)

	// SearchChapters runs full-text search over saved chapters.
	SearchChapters(ctx context.Context, query string, limit int) ([]store.SearchResult, error)

	// Store returns the underlying store for diagnostic access.
	Store() *store.Store

	// Close cleanly shuts down the engine.
	Close() error
}

// ParseOption configures a single parse.
type ParseOption func(*parseOptions)

type parseOptions struct {
	fileType string
	seg      segment.Options
}

// WithFileType overrides extension-based file type detection.
func WithFileType(fileType string) ParseOption {
	return func(o *parseOptions) { o.fileType = fileType }
}

// WithMinChapterWords overrides the page-break accretion threshold.
func WithMinChapterWords(n int) ParseOption {
	return func(o *parseOptions) { o.seg.MinChapterWords = n }
}

// WithPreferredChapterWords overrides the word-count split target.
func WithPreferredChapterWords(n int) ParseOption {
	return func(o *parseOptions) { o.seg.PreferredChapterWords = n }
}

// WithMaxChapters overrides the chapter-count cap.
func WithMaxChapters(n int) ParseOption {
	return func(o *parseOptions) { o.seg.MaxChapters = n }
}

// Parser runs the parse pipeline with no persistence attached. It is
// stateless between calls; concurrent use needs no coordination.
type Parser struct {
	cfg        Config
	extractors *extract.Registry
}

// NewParser returns a standalone Parser for callers that only need
// parsing, not storage.
func NewParser(cfg Config) *Parser {
	return &Parser{cfg: cfg, extractors: extract.NewRegistry()}
}

// engine is the concrete implementation of Engine.
type engine struct {
	*Parser
	store *store.Store
}

// New creates an inkwell engine with the given configuration.
func New(cfg Config) (Engine, error) {
	s, err := store.New(cfg.resolveDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	return &engine{
		Parser: NewParser(cfg),
		store:  s,
	}, nil
}

func (p *Parser) segOptions(opts *parseOptions) segment.Options {
	seg := opts.seg
	if seg.MinChapterWords == 0 {
		seg.MinChapterWords = p.cfg.MinChapterWords
	}
	if seg.PreferredChapterWords == 0 {
		seg.PreferredChapterWords = p.cfg.PreferredChapterWords
	}
	if seg.MaxChapters == 0 {
		seg.MaxChapters = p.cfg.MaxChapters
	}
	return seg
}

// ParseBook runs the full pipeline: extraction, normalization,
// metadata, detection cascade. Each stage runs at most once; detection
// strategy failures fall through internally and never surface here.
func (p *Parser) ParseBook(ctx context.Context, r io.Reader, fileName string, opts ...ParseOption) (*Book, error) {
	options := &parseOptions{}
	for _, o := range opts {
		o(options)
	}

	max := p.cfg.MaxUploadBytes
	if max <= 0 {
		max = DefaultConfig().MaxUploadBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w (limit %d bytes)", ErrFileTooLarge, max)
	}

	fileType := options.fileType
	if fileType == "" {
		fileType, err = extract.FileType(fileName)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
	}

	ext, err := p.extractors.Get(fileType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	start := time.Now()
	raw, err := ext.Extract(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	text := segment.Normalize(raw)
	totalWords := segment.CountWords(text)

	meta := segment.ExtractMetadata(text, fileName)

	result, err := segment.Segment(text, p.segOptions(options))
	if err != nil {
		return nil, err
	}

	slog.Info("parsed book",
		"file", fileName, "type", fileType,
		"words", totalWords, "chapters", len(result.Chapters),
		"method", result.Method, "truncated", result.Truncated,
		"elapsed", time.Since(start).Round(time.Millisecond))

	return &Book{
		Title:           meta.Title,
		Author:          meta.Author,
		Chapters:        result.Chapters,
		TotalWordCount:  totalWords,
		RawContent:      text,
		FileType:        fileType,
		FileName:        fileName,
		FileSize:        int64(len(data)),
		DetectionMethod: result.Method,
		Truncated:       result.Truncated,
	}, nil
}

func (p *Parser) ParseBookFile(ctx context.Context, path string, opts ...ParseOption) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return p.ParseBook(ctx, f, filepath.Base(path), opts...)
}

func (e *engine) SaveBook(ctx context.Context, book *Book) (string, error) {
	id, err := e.store.SaveBook(ctx, store.Book{
		UUID:            book.UUID,
		Title:           book.Title,
		Author:          book.Author,
		FileName:        book.FileName,
		FileType:        book.FileType,
		FileSize:        book.FileSize,
		TotalWordCount:  book.TotalWordCount,
		DetectionMethod: string(book.DetectionMethod),
		RawContent:      book.RawContent,
		Truncated:       book.Truncated,
	}, toStoreChapters(book.Chapters))
	if err != nil {
		return "", fmt.Errorf("saving book: %w", err)
	}
	book.UUID = id
	return id, nil
}

func (e *engine) GetBook(ctx context.Context, bookUUID string) (*Book, error) {
	row, chapters, err := e.loadBook(ctx, bookUUID)
	if err != nil {
		return nil, err
	}
	return fromStore(row, chapters), nil
}

func (e *engine) ListBooks(ctx context.Context) ([]store.Book, error) {
	return e.store.ListBooks(ctx)
}

func (e *engine) DeleteBook(ctx context.Context, bookUUID string) error {
	err := e.store.DeleteBook(ctx, bookUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookNotFound
	}
	return err
}

// MergeChapters applies the pure merge to a saved book and persists
// the result. The stored sequence is untouched when the edit fails.
func (e *engine) MergeChapters(ctx context.Context, bookUUID string, i, j int) (*Book, error) {
	row, chapters, err := e.loadBook(ctx, bookUUID)
	if err != nil {
		return nil, err
	}

	edited, err := segment.MergeChapters(fromStoreChapters(chapters), i, j)
	if err != nil {
		return nil, err
	}

	if err := e.store.ReplaceChapters(ctx, row.ID, toStoreChapters(edited)); err != nil {
		return nil, fmt.Errorf("persisting merge: %w", err)
	}

	slog.Info("merged chapters", "book", bookUUID, "i", i, "j", j, "chapters", len(edited))
	return fromStoreSeg(row, edited), nil
}

// SplitChapter applies the pure split to a saved book and persists the
// result. The stored sequence is untouched when the edit fails.
func (e *engine) SplitChapter(ctx context.Context, bookUUID string, index, position int, newTitle string) (*Book, error) {
	row, chapters, err := e.loadBook(ctx, bookUUID)
	if err != nil {
		return nil, err
	}

	edited, err := segment.SplitChapter(fromStoreChapters(chapters), index, position, newTitle)
	if err != nil {
		return nil, err
	}

	if err := e.store.ReplaceChapters(ctx, row.ID, toStoreChapters(edited)); err != nil {
		return nil, fmt.Errorf("persisting split: %w", err)
	}

	slog.Info("split chapter", "book", bookUUID, "index", index, "chapters", len(edited))
	return fromStoreSeg(row, edited), nil
}

// Reparse re-runs the detection cascade over the retained raw content.
func (e *engine) Reparse(ctx context.Context, bookUUID string, opts ...ParseOption) (*Book, error) {
	options := &parseOptions{}
	for _, o := range opts {
		o(options)
	}

	row, _, err := e.loadBook(ctx, bookUUID)
	if err != nil {
		return nil, err
	}

	result, err := segment.Segment(row.RawContent, e.segOptions(options))
	if err != nil {
		return nil, err
	}

	if err := e.store.ReplaceChapters(ctx, row.ID, toStoreChapters(result.Chapters)); err != nil {
		return nil, fmt.Errorf("persisting reparse: %w", err)
	}
	if err := e.store.UpdateBookMethod(ctx, row.ID, string(result.Method), result.Truncated); err != nil {
		return nil, fmt.Errorf("updating detection method: %w", err)
	}

	row.DetectionMethod = string(result.Method)
	row.Truncated = result.Truncated
	slog.Info("reparsed book", "book", bookUUID, "method", result.Method, "chapters", len(result.Chapters))
	return fromStoreSeg(row, result.Chapters), nil
}

func (e *engine) SearchChapters(ctx context.Context, query string, limit int) ([]store.SearchResult, error) {
	return e.store.SearchChapters(ctx, query, limit)
}

func (e *engine) Store() *store.Store { return e.store }

func (e *engine) Close() error { return e.store.Close() }

// loadBook fetches a book row plus its ordered chapters.
func (e *engine) loadBook(ctx context.Context, bookUUID string) (*store.Book, []store.Chapter, error) {
	row, err := e.store.GetBook(ctx, bookUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrBookNotFound
		}
		return nil, nil, fmt.Errorf("loading book: %w", err)
	}
	chapters, err := e.store.GetChapters(ctx, row.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading chapters: %w", err)
	}
	return row, chapters, nil
}

// --- conversions between API and store types ---

func toStoreChapters(chapters []segment.Chapter) []store.Chapter {
	out := make([]store.Chapter, len(chapters))
	for i, c := range chapters {
		out[i] = store.Chapter{
			Number:    c.Number,
			Title:     c.Title,
			Content:   c.Content,
			WordCount: c.WordCount,
			StartLine: c.StartLine,
			EndLine:   c.EndLine,
		}
	}
	return out
}

func fromStoreChapters(chapters []store.Chapter) []segment.Chapter {
	out := make([]segment.Chapter, len(chapters))
	for i, c := range chapters {
		out[i] = segment.Chapter{
			Number:    c.Number,
			Title:     c.Title,
			Content:   c.Content,
			WordCount: c.WordCount,
			StartLine: c.StartLine,
			EndLine:   c.EndLine,
		}
	}
	return out
}

func fromStore(row *store.Book, chapters []store.Chapter) *Book {
	return fromStoreSeg(row, fromStoreChapters(chapters))
}

func fromStoreSeg(row *store.Book, chapters []segment.Chapter) *Book {
	return &Book{
		UUID:            row.UUID,
		Title:           row.Title,
		Author:          row.Author,
		Chapters:        chapters,
		TotalWordCount:  row.TotalWordCount,
		RawContent:      row.RawContent,
		FileType:        row.FileType,
		FileName:        row.FileName,
		FileSize:        row.FileSize,
		DetectionMethod: segment.Method(row.DetectionMethod),
		Truncated:       row.Truncated,
	}
}
