//go:build cgo

package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleBook() Book {
	return Book{
		Title:           "The Silent Harbor",
		Author:          "Ada Marsh",
		FileName:        "silent_harbor.txt",
		FileType:        "txt",
		FileSize:        2048,
		TotalWordCount:  500,
		DetectionMethod: "chapter_heading",
		RawContent:      "Chapter 1\nThe tide went out.",
	}
}

func sampleChapters() []Chapter {
	return []Chapter{
		{Number: 1, Title: "Low Tide", Content: "The tide went out and stayed out.", WordCount: 7},
		{Number: 2, Title: "High Tide", Content: "The water returned before dawn.", WordCount: 5},
	}
}

// ---------------------------------------------------------------------------
// Schema / construction
// ---------------------------------------------------------------------------

func TestNewCreatesParentDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sub", "dir", "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("creating store in nested dir: %v", err)
	}
	s.Close()
}

func TestNewIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopening an existing database must not fail on schema or
	// migration re-runs.
	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	s.Close()
}

func TestMigrateStampsVersion(t *testing.T) {
	s := newTestStore(t)

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("reading user_version: %v", err)
	}
	if version != schemaVersion {
		t.Errorf("user_version = %d, want %d", version, schemaVersion)
	}

	// A second run has nothing to do and must not move the version.
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("re-running Migrate: %v", err)
	}
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != schemaVersion {
		t.Errorf("user_version after re-run = %d, want %d", version, schemaVersion)
	}
}

// ---------------------------------------------------------------------------
// Book CRUD
// ---------------------------------------------------------------------------

func TestSaveAndGetBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveBook(ctx, sampleBook(), sampleChapters())
	if err != nil {
		t.Fatalf("saving book: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated UUID")
	}

	got, err := s.GetBook(ctx, id)
	if err != nil {
		t.Fatalf("getting book: %v", err)
	}
	if got.Title != "The Silent Harbor" {
		t.Errorf("title: got %q, want %q", got.Title, "The Silent Harbor")
	}
	if got.Author != "Ada Marsh" {
		t.Errorf("author: got %q, want %q", got.Author, "Ada Marsh")
	}
	if got.DetectionMethod != "chapter_heading" {
		t.Errorf("detection method: got %q", got.DetectionMethod)
	}
	if got.RawContent == "" {
		t.Error("raw content should be loaded by GetBook")
	}
	if got.CreatedAt == "" || got.UpdatedAt == "" {
		t.Error("timestamps should be populated")
	}
}

func TestSaveBookKeepsExplicitUUID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := sampleBook()
	book.UUID = "11111111-2222-3333-4444-555555555555"
	id, err := s.SaveBook(ctx, book, nil)
	if err != nil {
		t.Fatal(err)
	}
	if id != book.UUID {
		t.Errorf("UUID: got %q, want %q", id, book.UUID)
	}
}

func TestGetBookNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetBook(context.Background(), "no-such-uuid"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestListBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.SaveBook(ctx, sampleBook(), nil); err != nil {
			t.Fatal(err)
		}
	}

	books, err := s.ListBooks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 3 {
		t.Fatalf("got %d books, want 3", len(books))
	}
	for i, b := range books {
		if b.RawContent != "" {
			t.Errorf("books[%d]: listings must not carry raw content", i)
		}
	}
}

func TestDeleteBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveBook(ctx, sampleBook(), sampleChapters())
	if err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteBook(ctx, id); err != nil {
		t.Fatalf("deleting book: %v", err)
	}
	if _, err := s.GetBook(ctx, id); err != sql.ErrNoRows {
		t.Fatalf("book still present after delete: %v", err)
	}

	// Chapters must cascade.
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM chapters").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("chapters remaining after cascade delete: %d", n)
	}
}

func TestDeleteBookNotFound(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeleteBook(context.Background(), "missing"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUpdateBookMethod(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveBook(ctx, sampleBook(), nil)
	if err != nil {
		t.Fatal(err)
	}
	row, err := s.GetBook(ctx, id)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.UpdateBookMethod(ctx, row.ID, "word_count_split", true); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetBook(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.DetectionMethod != "word_count_split" {
		t.Errorf("detection method: got %q", got.DetectionMethod)
	}
	if !got.Truncated {
		t.Error("truncated flag not persisted")
	}
}

// ---------------------------------------------------------------------------
// Chapters
// ---------------------------------------------------------------------------

func TestGetChaptersOrdered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Insert out of order; reads must come back by number.
	chapters := []Chapter{
		{Number: 2, Title: "Second", Content: "b", WordCount: 1},
		{Number: 1, Title: "First", Content: "a", WordCount: 1},
	}
	id, err := s.SaveBook(ctx, sampleBook(), chapters)
	if err != nil {
		t.Fatal(err)
	}
	row, err := s.GetBook(ctx, id)
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.GetChapters(ctx, row.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d chapters, want 2", len(got))
	}
	if got[0].Title != "First" || got[1].Title != "Second" {
		t.Errorf("chapters out of order: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestReplaceChapters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveBook(ctx, sampleBook(), sampleChapters())
	if err != nil {
		t.Fatal(err)
	}
	row, err := s.GetBook(ctx, id)
	if err != nil {
		t.Fatal(err)
	}

	replacement := []Chapter{
		{Number: 1, Title: "Merged", Content: "All the tides together.", WordCount: 4},
	}
	if err := s.ReplaceChapters(ctx, row.ID, replacement); err != nil {
		t.Fatalf("replacing chapters: %v", err)
	}

	got, err := s.GetChapters(ctx, row.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d chapters, want 1", len(got))
	}
	if got[0].Title != "Merged" {
		t.Errorf("title: got %q, want %q", got[0].Title, "Merged")
	}
}

// ---------------------------------------------------------------------------
// Full-text search
// ---------------------------------------------------------------------------

func TestSearchChapters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	chapters := []Chapter{
		{Number: 1, Title: "Storms", Content: "The lighthouse keeper watched the storm approach.", WordCount: 7},
		{Number: 2, Title: "Calm", Content: "Nothing moved on the flat grey water.", WordCount: 7},
	}
	if _, err := s.SaveBook(ctx, sampleBook(), chapters); err != nil {
		t.Fatal(err)
	}

	results, err := s.SearchChapters(ctx, "lighthouse", 10)
	if err != nil {
		t.Fatalf("searching: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.ChapterTitle != "Storms" {
		t.Errorf("chapter title: got %q, want %q", r.ChapterTitle, "Storms")
	}
	if r.BookTitle != "The Silent Harbor" {
		t.Errorf("book title: got %q", r.BookTitle)
	}
	if r.Snippet == "" {
		t.Error("expected a non-empty snippet")
	}
}

func TestSearchIndexFollowsReplace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveBook(ctx, sampleBook(), sampleChapters())
	if err != nil {
		t.Fatal(err)
	}
	row, err := s.GetBook(ctx, id)
	if err != nil {
		t.Fatal(err)
	}

	// The original content mentions "tide"; the replacement does not.
	replacement := []Chapter{
		{Number: 1, Title: "Rewritten", Content: "A completely different manuscript body.", WordCount: 5},
	}
	if err := s.ReplaceChapters(ctx, row.ID, replacement); err != nil {
		t.Fatal(err)
	}

	results, err := s.SearchChapters(ctx, "tide", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("stale FTS rows after replace: %d results", len(results))
	}

	results, err = s.SearchChapters(ctx, "manuscript", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("new content not indexed: %d results", len(results))
	}
}

func TestSearchIndexFollowsDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveBook(ctx, sampleBook(), sampleChapters())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteBook(ctx, id); err != nil {
		t.Fatal(err)
	}

	results, err := s.SearchChapters(ctx, "tide", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("stale FTS rows after delete: %d results", len(results))
	}
}
