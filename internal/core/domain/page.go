package domain

import (
	"fmt"
	"strings"
)

// ExtractionMethod records how a page's text was obtained.
type ExtractionMethod string

const (
	// MethodNative means the page carried an extractable text layer.
	MethodNative ExtractionMethod = "native"

	// MethodOCR means the page was rasterised and recognised.
	MethodOCR ExtractionMethod = "ocr"
)

// Page is the page-level extraction result.
// A failed OCR pass leaves Text empty and sets Err; it is never fatal.
type Page struct {
	// Number is the 1-based page index.
	Number int

	// Method is the extraction method used for this page.
	Method ExtractionMethod

	// Text is the trimmed page text, possibly empty.
	Text string

	// Err records a recovered page failure (wraps ErrPageOCR).
	Err error
}

// Marker returns the boundary line written before the page's text.
func (p Page) Marker() string {
	if p.Method == MethodOCR {
		return fmt.Sprintf("--- OCR from Page %d ---", p.Number)
	}
	return fmt.Sprintf("--- Text from Page %d ---", p.Number)
}

// Extraction is the document-level extraction result.
type Extraction struct {
	// Name is the document name.
	Name string

	// Title is the human-readable title, from the content or the filename.
	Title string

	// MIMEType is the detected content type.
	MIMEType string

	// Pages are in document order.
	Pages []Page
}

// Text concatenates every page, each preceded by its marker.
func (e *Extraction) Text() string {
	var b strings.Builder
	for i, p := range e.Pages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.Marker())
		b.WriteString("\n")
		b.WriteString(p.Text)
	}
	return b.String()
}

// CountByMethod returns how many pages used the given method.
func (e *Extraction) CountByMethod(m ExtractionMethod) int {
	n := 0
	for _, p := range e.Pages {
		if p.Method == m {
			n++
		}
	}
	return n
}

// FailedPages returns the numbers of pages whose OCR failed.
func (e *Extraction) FailedPages() []int {
	var failed []int
	for _, p := range e.Pages {
		if p.Err != nil {
			failed = append(failed, p.Number)
		}
	}
	return failed
}
