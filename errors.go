package inkwell

import "errors"

var (
	// ErrUnsupportedFormat is returned for file types outside the
	// pdf/docx/txt allow-list.
	ErrUnsupportedFormat = errors.New("inkwell: unsupported file format")

	// ErrExtractionFailed is returned when a binary format cannot be
	// read (corrupted, encrypted, or not the format its name claims).
	ErrExtractionFailed = errors.New("inkwell: text extraction failed")

	// ErrEmptyFile is returned for zero-length uploads.
	ErrEmptyFile = errors.New("inkwell: file is empty")

	// ErrFileTooLarge is returned when an upload exceeds the configured
	// size ceiling.
	ErrFileTooLarge = errors.New("inkwell: file exceeds size limit")

	// ErrBookNotFound is returned when a book UUID does not exist.
	ErrBookNotFound = errors.New("inkwell: book not found")
)
