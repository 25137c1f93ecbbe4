// Package chunker splits document text into overlapping word windows.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure the chunker implements the interfaces.
var (
	_ driven.PostProcessor = (*Processor)(nil)
	_ driven.Chunker       = Chunker{}
)

// DefaultChunkSize is the default number of words per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of words shared by neighbouring chunks.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Window is one chunk boundary in the document's word sequence.
type Window struct {
	// Start is the offset of the first word.
	Start int

	// Words is the number of words in the window.
	Words int

	// Text is the words joined with single spaces.
	Text string
}

// Split breaks text on runs of whitespace and returns windows of size words
// starting every size-overlap words. The last window may be shorter. Empty
// text yields no windows.
func Split(text string, size, overlap int) ([]Window, error) {
	cfg := domain.ChunkingSettings{Size: size, Overlap: overlap}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	step := cfg.Step()
	windows := make([]Window, 0, len(words)/step+1)
	for start := 0; start < len(words); start += step {
		end := min(start+size, len(words))
		windows = append(windows, Window{
			Start: start,
			Words: end - start,
			Text:  strings.Join(words[start:end], " "),
		})
	}
	return windows, nil
}

// Chunker is the plain text form of Split.
type Chunker struct{}

// Chunk returns the text of each window.
func (Chunker) Chunk(text string, size, overlap int) ([]string, error) {
	windows, err := Split(text, size, overlap)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(windows))
	for i, w := range windows {
		texts[i] = w.Text
	}
	return texts, nil
}

// Processor splits document content into word windows.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in words.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in words.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a chunker processor. Unlike a silent clamp, an overlap that
// would stop the window from advancing is rejected with
// domain.ErrInvalidConfiguration.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	cfg := domain.ChunkingSettings{Size: p.chunkSize, Overlap: p.overlap}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("chunker: %w", err)
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the window length in words.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the shared words between neighbours.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	windows, err := Split(doc.Content, p.chunkSize, p.overlap)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, 0, len(windows))
	for i, w := range windows {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    w.Text,
			Position:   i,
			StartWord:  w.Start,
			WordCount:  w.Words,
			Metadata:   make(map[string]any),
		})
	}

	return chunks, nil
}
