package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/extractors/textutil"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// PageSource gives access to a document's native text layer.
type PageSource interface {
	// NumPage returns the number of pages.
	NumPage() int

	// PageText returns the text layer of the 1-based page.
	PageText(page int) (string, error)
}

// OpenFunc opens a PDF from its bytes.
type OpenFunc func(content []byte) (PageSource, error)

// Extractor handles PDF documents.
type Extractor struct {
	open       OpenFunc
	rasterizer driven.PageRasterizer
	ocr        driven.OCREngine
	dpi        int
}

// Option configures the extractor.
type Option func(*Extractor)

// WithDPI sets the rasterisation resolution for OCR.
func WithDPI(dpi int) Option {
	return func(e *Extractor) {
		if dpi > 0 {
			e.dpi = dpi
		}
	}
}

// WithOpener replaces the text layer reader.
func WithOpener(open OpenFunc) Option {
	return func(e *Extractor) {
		e.open = open
	}
}

// New creates a PDF extractor that falls back to the given rasteriser and
// OCR engine for pages without a text layer.
func New(rasterizer driven.PageRasterizer, ocr driven.OCREngine, opts ...Option) *Extractor {
	e := &Extractor{
		open:       Open,
		rasterizer: rasterizer,
		ocr:        ocr,
		dpi:        domain.DefaultOCRDPI,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// DPI returns the rasterisation resolution.
func (e *Extractor) DPI() int {
	return e.dpi
}

// Extract reads every page in order, using OCR only where the text layer is empty.
func (e *Extractor) Extract(ctx context.Context, raw *domain.RawDocument) (*domain.Extraction, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	src, err := e.open(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDocumentOpen, raw.Name, err)
	}

	numPages := src.NumPage()
	logger.Debug("PDF %s has %d pages", raw.Name, numPages)

	// The rasteriser works on files; the temp copy is written on first use.
	tmp := &tempCopy{content: raw.Content, create: createTemp}
	defer tmp.remove()

	pages := make([]domain.Page, 0, numPages)
	for n := 1; n <= numPages; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := src.PageText(n)
		if err != nil {
			logger.Debug("Page %d text layer unreadable: %v", n, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, domain.Page{Number: n, Method: domain.MethodNative, Text: text})
			continue
		}

		pages = append(pages, e.ocrPage(ctx, n, tmp.path))
	}

	title := textutil.TitleFromMetadata(raw.Metadata)
	if title == "" {
		first := ""
		if len(pages) > 0 {
			first = pages[0].Text
		}
		title = textutil.Title(first, raw.Name)
	}

	return &domain.Extraction{
		Name:     raw.Name,
		Title:    title,
		MIMEType: "application/pdf",
		Pages:    pages,
	}, nil
}

// ocrPage renders and recognises one page. Failures are recorded on the page.
func (e *Extractor) ocrPage(ctx context.Context, n int, pathFor func() (string, error)) domain.Page {
	page := domain.Page{Number: n, Method: domain.MethodOCR}

	fail := func(err error) domain.Page {
		page.Err = fmt.Errorf("%w: page %d: %w", domain.ErrPageOCR, n, err)
		logger.Warn("OCR failed for page %d: %v", n, err)
		return page
	}

	if e.rasterizer == nil || e.ocr == nil {
		return fail(ErrOCRToolNotFound)
	}

	path, err := pathFor()
	if err != nil {
		return fail(err)
	}

	img, err := e.rasterizer.Rasterize(ctx, path, n, e.dpi)
	if err != nil {
		return fail(err)
	}

	text, err := e.ocr.Recognise(ctx, img)
	if err != nil {
		return fail(err)
	}

	page.Text = strings.TrimSpace(text)
	logger.Debug("Page %d recognised via OCR (%d chars)", n, len(page.Text))
	return page
}

// tempFile is the subset of *os.File used for the rasteriser's copy.
type tempFile interface {
	Name() string
	Write(p []byte) (int, error)
	Close() error
}

func createTemp() (tempFile, error) {
	return os.CreateTemp("", "pdfrag-*.pdf")
}

// tempCopy writes content to a temp file once. A failed write leaves no file
// behind and the next call tries again.
type tempCopy struct {
	content []byte
	create  func() (tempFile, error)
	written string
}

func (c *tempCopy) path() (string, error) {
	if c.written != "" {
		return c.written, nil
	}
	f, err := c.create()
	if err != nil {
		return "", fmt.Errorf("creating temp copy: %w", err)
	}
	_, werr := f.Write(c.content)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing temp copy: %w", err)
	}
	c.written = f.Name()
	return c.written, nil
}

func (c *tempCopy) remove() {
	if c.written != "" {
		os.Remove(c.written)
		c.written = ""
	}
}

// Open reads a PDF's structure with ledongthuc/pdf.
func Open(content []byte) (src PageSource, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			src, err = nil, fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}
	return &textLayer{reader: reader}, nil
}

// textLayer adapts a ledongthuc/pdf reader to PageSource.
type textLayer struct {
	reader *pdf.Reader
}

func (t *textLayer) NumPage() int {
	return t.reader.NumPage()
}

func (t *textLayer) PageText(n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("page %d: %v", n, r)
		}
	}()

	page := t.reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
