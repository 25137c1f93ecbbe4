package driven

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// TextExtractor turns a raw document into page-level text.
// Each extractor handles specific MIME types (e.g., PDF, Markdown).
//
// Implementations return an error wrapping domain.ErrDocumentOpen when the
// document cannot be read at all. Per-page OCR failures are recorded on the
// page (domain.Page.Err) and never returned.
type TextExtractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific extractors should return 50-89.
	// Fallback extractors should return 1-9.
	Priority() int

	// Extract reads every page of the document in order.
	Extract(ctx context.Context, raw *domain.RawDocument) (*domain.Extraction, error)
}

// ExtractorRegistry selects the appropriate extractor for a document.
type ExtractorRegistry interface {
	// Extract runs the best matching extractor.
	// Returns domain.ErrUnsupportedFormat if nothing handles the MIME type.
	Extract(ctx context.Context, raw *domain.RawDocument) (*domain.Extraction, error)

	// Register adds an extractor to the registry.
	Register(extractor TextExtractor)

	// SupportedMIMETypes returns all MIME types that can be extracted.
	SupportedMIMETypes() []string
}

// PageRasterizer renders a single document page to an image.
type PageRasterizer interface {
	// Rasterize renders the 1-based page of the document at path to PNG bytes.
	Rasterize(ctx context.Context, path string, page, dpi int) ([]byte, error)
}

// OCREngine recognises text in a page image.
type OCREngine interface {
	// Recognise returns the text found in the PNG image.
	Recognise(ctx context.Context, image []byte) (string, error)
}
