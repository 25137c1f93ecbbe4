package domain

import "errors"

// Domain errors represent pipeline failures.
// Adapters wrap them with context and callers match them with errors.Is.
var (
	// ErrDocumentOpen indicates the document could not be opened or is corrupt.
	// Fatal for the whole ingestion call.
	ErrDocumentOpen = errors.New("document cannot be opened")

	// ErrPageOCR indicates OCR failed for a single page.
	// It is recorded on the page and never aborts the document.
	ErrPageOCR = errors.New("page OCR failed")

	// ErrInvalidConfiguration indicates chunking or pipeline settings are unusable.
	// Reported before any work starts.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEmbeddingBackend indicates the embedding model is unavailable or misconfigured.
	ErrEmbeddingBackend = errors.New("embedding backend error")

	// ErrNotReady indicates no document has been ingested successfully yet.
	ErrNotReady = errors.New("no chunks available")

	// ErrUnsupportedFormat indicates no extractor handles the document type.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not available in this build.
	ErrNotImplemented = errors.New("not implemented")
)
