package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mselway/inkwell"
	"github.com/mselway/inkwell/segment"
)

type handler struct {
	engine inkwell.Engine
	conf   func() inkwell.Config
}

func newHandler(e inkwell.Engine, conf func() inkwell.Config) *handler {
	return &handler{engine: e, conf: conf}
}

// POST /books
// Accepts a multipart upload under the "file" field, parses it, and
// persists the result.
func (h *handler) handleUploadBook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	cfg := h.conf()
	if err := r.ParseMultipartForm(cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart upload with 'file' field")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'file' field")
		return
	}
	defer file.Close()

	book, err := h.engine.ParseBook(ctx, file, header.Filename, parseOptionsFrom(cfg)...)
	if err != nil {
		h.writeEngineError(w, err, "parse error", "file", header.Filename)
		return
	}

	if _, err := h.engine.SaveBook(ctx, book); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save book")
		slog.Error("save error", "file", header.Filename, "error", err)
		return
	}

	writeJSON(w, http.StatusCreated, sanitize(book))
}

// GET /books
func (h *handler) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.engine.ListBooks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list books")
		slog.Error("list books error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"books": books,
	})
}

// GET /books/{id}
func (h *handler) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.engine.GetBook(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeEngineError(w, err, "get book error", "book", r.PathValue("id"))
		return
	}

	writeJSON(w, http.StatusOK, sanitize(book))
}

// GET /books/{id}/chapters
func (h *handler) handleGetChapters(w http.ResponseWriter, r *http.Request) {
	book, err := h.engine.GetBook(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeEngineError(w, err, "get chapters error", "book", r.PathValue("id"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chapters": book.Chapters,
	})
}

// DELETE /books/{id}
func (h *handler) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DeleteBook(r.Context(), r.PathValue("id")); err != nil {
		h.writeEngineError(w, err, "delete error", "book", r.PathValue("id"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// POST /books/{id}/merge
// Merges two adjacent chapters. Indices are zero-based positions in
// the current chapter sequence.
func (h *handler) handleMergeChapters(w http.ResponseWriter, r *http.Request) {
	var req struct {
		First  int `json:"first"`
		Second int `json:"second"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	book, err := h.engine.MergeChapters(r.Context(), r.PathValue("id"), req.First, req.Second)
	if err != nil {
		h.writeEngineError(w, err, "merge error", "book", r.PathValue("id"))
		return
	}

	writeJSON(w, http.StatusOK, sanitize(book))
}

// POST /books/{id}/split
// Splits one chapter at a byte position within its content. The index
// is the zero-based position in the current chapter sequence.
func (h *handler) handleSplitChapter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index    int    `json:"index"`
		Position int    `json:"position"`
		Title    string `json:"title,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	book, err := h.engine.SplitChapter(r.Context(), r.PathValue("id"), req.Index, req.Position, req.Title)
	if err != nil {
		h.writeEngineError(w, err, "split error", "book", r.PathValue("id"))
		return
	}

	writeJSON(w, http.StatusOK, sanitize(book))
}

// POST /books/{id}/reparse
// Re-runs chapter detection over the stored raw text. An optional JSON
// body overrides segmentation thresholds for this run.
func (h *handler) handleReparseBook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	var req struct {
		MinChapterWords       int `json:"min_chapter_words,omitempty"`
		PreferredChapterWords int `json:"preferred_chapter_words,omitempty"`
		MaxChapters           int `json:"max_chapters,omitempty"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}

	var opts []inkwell.ParseOption
	if req.MinChapterWords > 0 {
		opts = append(opts, inkwell.WithMinChapterWords(req.MinChapterWords))
	}
	if req.PreferredChapterWords > 0 {
		opts = append(opts, inkwell.WithPreferredChapterWords(req.PreferredChapterWords))
	}
	if req.MaxChapters > 0 {
		opts = append(opts, inkwell.WithMaxChapters(req.MaxChapters))
	}

	book, err := h.engine.Reparse(ctx, r.PathValue("id"), opts...)
	if err != nil {
		h.writeEngineError(w, err, "reparse error", "book", r.PathValue("id"))
		return
	}

	writeJSON(w, http.StatusOK, sanitize(book))
}

// GET /search?q=...&limit=20
func (h *handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	results, err := h.engine.SearchChapters(r.Context(), query, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "search failed")
		slog.Error("search error", "query", query, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// parseOptionsFrom forwards the live segmentation thresholds so config
// reloads apply without restarting the engine.
func parseOptionsFrom(cfg inkwell.Config) []inkwell.ParseOption {
	var opts []inkwell.ParseOption
	if cfg.MinChapterWords > 0 {
		opts = append(opts, inkwell.WithMinChapterWords(cfg.MinChapterWords))
	}
	if cfg.PreferredChapterWords > 0 {
		opts = append(opts, inkwell.WithPreferredChapterWords(cfg.PreferredChapterWords))
	}
	if cfg.MaxChapters > 0 {
		opts = append(opts, inkwell.WithMaxChapters(cfg.MaxChapters))
	}
	return opts
}

// sanitize strips the retained raw text from API responses; it is
// internal parse state and can be megabytes long.
func sanitize(book *inkwell.Book) *inkwell.Book {
	b := *book
	b.RawContent = ""
	return &b
}

// writeEngineError maps engine errors onto HTTP statuses and logs the
// ones that indicate a server fault.
func (h *handler) writeEngineError(w http.ResponseWriter, err error, msg string, logArgs ...interface{}) {
	switch {
	case errors.Is(err, inkwell.ErrBookNotFound):
		writeError(w, http.StatusNotFound, "book not found")
	case errors.Is(err, inkwell.ErrUnsupportedFormat),
		errors.Is(err, inkwell.ErrEmptyFile),
		errors.Is(err, inkwell.ErrFileTooLarge),
		errors.Is(err, inkwell.ErrExtractionFailed),
		errors.Is(err, segment.ErrTooLittleText),
		errors.Is(err, segment.ErrMergeIndices),
		errors.Is(err, segment.ErrSplitIndex),
		errors.Is(err, segment.ErrSplitEmpty):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, msg)
		slog.Error(msg, append(logArgs, "error", err)...)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
