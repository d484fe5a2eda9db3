package store

// schemaSQL is the DDL for all tables. Chapter text is indexed with
// FTS5 and kept in sync by triggers, so merge/split rewrites stay
// searchable without extra bookkeeping.
const schemaSQL = `
-- Parsed books; raw_content is retained for re-segmentation.
CREATE TABLE IF NOT EXISTS books (
    id INTEGER PRIMARY KEY,
    uuid TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    author TEXT NOT NULL,
    file_name TEXT NOT NULL,
    file_type TEXT NOT NULL,
    file_size INTEGER NOT NULL,
    total_word_count INTEGER NOT NULL,
    detection_method TEXT NOT NULL,
    raw_content TEXT NOT NULL,
    truncated INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Ordered chapters; number is contiguous from 1 within each book.
CREATE TABLE IF NOT EXISTS chapters (
    id INTEGER PRIMARY KEY,
    book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
    number INTEGER NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    word_count INTEGER NOT NULL,
    start_line INTEGER,
    end_line INTEGER,
    UNIQUE(book_id, number)
);

-- Full-text search via FTS5
CREATE VIRTUAL TABLE IF NOT EXISTS chapters_fts USING fts5(
    content,
    title,
    content='chapters',
    content_rowid='id',
    tokenize='porter unicode61'
);

-- FTS triggers to keep index in sync
CREATE TRIGGER IF NOT EXISTS chapters_ai AFTER INSERT ON chapters BEGIN
    INSERT INTO chapters_fts(rowid, content, title) VALUES (new.id, new.content, new.title);
END;
CREATE TRIGGER IF NOT EXISTS chapters_ad AFTER DELETE ON chapters BEGIN
    INSERT INTO chapters_fts(chapters_fts, rowid, content, title) VALUES ('delete', old.id, old.content, old.title);
END;
CREATE TRIGGER IF NOT EXISTS chapters_au AFTER UPDATE ON chapters BEGIN
    INSERT INTO chapters_fts(chapters_fts, rowid, content, title) VALUES ('delete', old.id, old.content, old.title);
    INSERT INTO chapters_fts(rowid, content, title) VALUES (new.id, new.content, new.title);
END;

CREATE INDEX IF NOT EXISTS idx_chapters_book ON chapters(book_id, number);
`
