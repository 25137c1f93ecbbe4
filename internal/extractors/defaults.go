package extractors

import (
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/extractors/docx"
	"github.com/custodia-labs/pdfrag/internal/extractors/html"
	"github.com/custodia-labs/pdfrag/internal/extractors/markdown"
	"github.com/custodia-labs/pdfrag/internal/extractors/pdf"
	"github.com/custodia-labs/pdfrag/internal/extractors/plaintext"
)

// RegisterDefaults adds the built-in extractors.
// PDF pages without a text layer are rasterised with pdftoppm and read by
// tesseract using the given OCR settings.
func RegisterDefaults(r *Registry, ocr domain.OCRSettings) {
	r.Register(pdf.New(pdf.NewPoppler(), pdf.NewTesseract(ocr.Language), pdf.WithDPI(ocr.DPI)))
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
	r.Register(plaintext.New())
}

// NewDefaultRegistry creates a registry with the built-in extractors.
func NewDefaultRegistry(ocr domain.OCRSettings) *Registry {
	r := NewRegistry()
	RegisterDefaults(r, ocr)
	return r
}
