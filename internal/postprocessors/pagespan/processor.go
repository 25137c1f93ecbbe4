// Package pagespan annotates chunks with the pages their words came from.
package pagespan

import (
	"context"
	"sort"
	"strings"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor sets StartPage and EndPage on each chunk.
// Page boundaries are derived from the document's pages, marker words
// included, so they line up with the word offsets the chunker produced.
type Processor struct{}

// New creates a page span processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "pagespan"
}

// Process annotates chunks in place and returns them.
// Documents without pages are passed through untouched.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if len(doc.Pages) == 0 || len(chunks) == 0 {
		return chunks, nil
	}

	// ends[i] is the exclusive word offset where page i finishes.
	ends := make([]int, len(doc.Pages))
	offset := 0
	for i, page := range doc.Pages {
		offset += len(strings.Fields(page.Marker())) + len(strings.Fields(page.Text))
		ends[i] = offset
	}

	pageAt := func(word int) int {
		i := sort.Search(len(ends), func(i int) bool { return ends[i] > word })
		if i == len(ends) {
			i = len(ends) - 1
		}
		return doc.Pages[i].Number
	}

	for i := range chunks {
		c := &chunks[i]
		if c.WordCount == 0 {
			continue
		}
		c.StartPage = pageAt(c.StartWord)
		c.EndPage = pageAt(c.StartWord + c.WordCount - 1)
	}

	return chunks, nil
}
