// Package store persists parsed books and their chapters in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Book represents a row in the books table.
type Book struct {
	ID              int64  `json:"id"`
	UUID            string `json:"uuid"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	FileName        string `json:"file_name"`
	FileType        string `json:"file_type"`
	FileSize        int64  `json:"file_size"`
	TotalWordCount  int    `json:"total_word_count"`
	DetectionMethod string `json:"detection_method"`
	RawContent      string `json:"raw_content,omitempty"`
	Truncated       bool   `json:"truncated"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// Chapter represents a row in the chapters table.
type Chapter struct {
	ID        int64  `json:"id"`
	BookID    int64  `json:"book_id"`
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	WordCount int    `json:"word_count"`
	StartLine int    `json:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
}

// SearchResult holds an FTS match with its book context.
type SearchResult struct {
	ChapterID     int64   `json:"chapter_id"`
	BookUUID      string  `json:"book_uuid"`
	BookTitle     string  `json:"book_title"`
	ChapterNumber int     `json:"chapter_number"`
	ChapterTitle  string  `json:"chapter_title"`
	Snippet       string  `json:"snippet"`
	Score         float64 `json:"score"`
}

// Store wraps the SQLite database for all inkwell persistence.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema including the FTS5 virtual table.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}

	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// --- Book operations ---

// SaveBook inserts a book and its chapters in one transaction. A fresh
// UUID is assigned when the book doesn't carry one. Returns the UUID.
func (s *Store) SaveBook(ctx context.Context, book Book, chapters []Chapter) (string, error) {
	if book.UUID == "" {
		book.UUID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO books (uuid, title, author, file_name, file_type, file_size,
			total_word_count, detection_method, raw_content, truncated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, book.UUID, book.Title, book.Author, book.FileName, book.FileType, book.FileSize,
		book.TotalWordCount, book.DetectionMethod, book.RawContent, book.Truncated)
	if err != nil {
		return "", fmt.Errorf("inserting book: %w", err)
	}

	bookID, err := res.LastInsertId()
	if err != nil {
		return "", err
	}

	if err := insertChapters(ctx, tx, bookID, chapters); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing save: %w", err)
	}
	return book.UUID, nil
}

// GetBook retrieves a book by its public UUID.
func (s *Store) GetBook(ctx context.Context, bookUUID string) (*Book, error) {
	b := &Book{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, uuid, title, author, file_name, file_type, file_size,
			total_word_count, detection_method, raw_content, truncated, created_at, updated_at
		FROM books WHERE uuid = ?
	`, bookUUID).Scan(&b.ID, &b.UUID, &b.Title, &b.Author, &b.FileName, &b.FileType,
		&b.FileSize, &b.TotalWordCount, &b.DetectionMethod, &b.RawContent, &b.Truncated,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks returns all books ordered by creation time, newest first.
// RawContent is not loaded for listings.
func (s *Store) ListBooks(ctx context.Context) ([]Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, uuid, title, author, file_name, file_type, file_size,
			total_word_count, detection_method, truncated, created_at, updated_at
		FROM books ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.UUID, &b.Title, &b.Author, &b.FileName, &b.FileType,
			&b.FileSize, &b.TotalWordCount, &b.DetectionMethod, &b.Truncated,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// DeleteBook removes a book and, via cascade, its chapters.
func (s *Store) DeleteBook(ctx context.Context, bookUUID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM books WHERE uuid = ?", bookUUID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateBookMethod records a new detection method after re-segmentation.
func (s *Store) UpdateBookMethod(ctx context.Context, bookID int64, method string, truncated bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE books SET detection_method = ?, truncated = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, method, truncated, bookID)
	return err
}

// --- Chapter operations ---

// GetChapters returns a book's chapters in number order.
func (s *Store) GetChapters(ctx context.Context, bookID int64) ([]Chapter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, book_id, number, title, content, word_count,
			COALESCE(start_line, 0), COALESCE(end_line, 0)
		FROM chapters WHERE book_id = ? ORDER BY number
	`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []Chapter
	for rows.Next() {
		var c Chapter
		if err := rows.Scan(&c.ID, &c.BookID, &c.Number, &c.Title, &c.Content,
			&c.WordCount, &c.StartLine, &c.EndLine); err != nil {
			return nil, err
		}
		chapters = append(chapters, c)
	}
	return chapters, rows.Err()
}

// ReplaceChapters atomically swaps a book's chapter rows for a new
// sequence. Used after merge, split, and re-segmentation; the FTS
// triggers keep the search index consistent.
func (s *Store) ReplaceChapters(ctx context.Context, bookID int64, chapters []Chapter) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chapters WHERE book_id = ?", bookID); err != nil {
		return fmt.Errorf("deleting old chapters: %w", err)
	}
	if err := insertChapters(ctx, tx, bookID, chapters); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE books SET updated_at = CURRENT_TIMESTAMP WHERE id = ?", bookID); err != nil {
		return err
	}

	return tx.Commit()
}

func insertChapters(ctx context.Context, tx *sql.Tx, bookID int64, chapters []Chapter) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chapters (book_id, number, title, content, word_count, start_line, end_line)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chapter insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chapters {
		if _, err := stmt.ExecContext(ctx, bookID, c.Number, c.Title, c.Content,
			c.WordCount, c.StartLine, c.EndLine); err != nil {
			return fmt.Errorf("inserting chapter %d: %w", c.Number, err)
		}
	}
	return nil
}

// --- Search ---

// SearchChapters runs an FTS5 match over chapter content and titles.
func (s *Store) SearchChapters(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, b.uuid, b.title, c.number, c.title,
			snippet(chapters_fts, 0, '[', ']', '…', 12),
			bm25(chapters_fts)
		FROM chapters_fts
		JOIN chapters c ON c.id = chapters_fts.rowid
		JOIN books b ON b.id = c.book_id
		WHERE chapters_fts MATCH ?
		ORDER BY bm25(chapters_fts)
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fts query: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ChapterID, &r.BookUUID, &r.BookTitle,
			&r.ChapterNumber, &r.ChapterTitle, &r.Snippet, &r.Score); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
