package postprocessors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// mockProcessor is a test processor that returns predefined chunks.
type mockProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

func TestPipeline_Process_NilDocument(t *testing.T) {
	_, err := NewPipeline().Process(context.Background(), nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPipeline_Process_Order(t *testing.T) {
	created := []domain.Chunk{{ID: "chunk-1", Content: "first"}}

	p := NewPipeline(&mockProcessor{name: "create", chunks: created})
	p.Add(&mockProcessor{name: "passthrough"})

	if p.Len() != 2 {
		t.Fatalf("expected 2 processors, got %d", p.Len())
	}
	if strings.Join(p.Names(), ",") != "create,passthrough" {
		t.Errorf("unexpected processor order %v", p.Names())
	}

	chunks, err := p.Process(context.Background(), &domain.Document{ID: "doc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].ID != "chunk-1" {
		t.Errorf("expected chunks from the first processor to pass through, got %v", chunks)
	}
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	expectedErr := errors.New("processor failed")
	p := NewPipeline(&mockProcessor{name: "failing", err: expectedErr})

	_, err := p.Process(context.Background(), &domain.Document{ID: "doc"})
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected wrapped error, got: %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "processor failing") {
		t.Errorf("expected processor name in error, got: %v", err)
	}
}

func TestBuildPipeline_Defaults(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Chunking = domain.ChunkingSettings{Size: 3, Overlap: 1}

	p, err := BuildPipeline(settings.PipelineConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := &domain.Document{
		ID: "doc",
		Pages: []domain.Page{
			{Number: 1, Method: domain.MethodNative, Text: "a b"},
		},
	}
	doc.Content = (&domain.Extraction{Pages: doc.Pages}).Text()

	chunks, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 8 words, step 2: starts 0, 2, 4, 6
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	if chunks[0].StartPage != 1 || chunks[3].EndPage != 1 {
		t.Errorf("expected page spans to be annotated, got %+v", chunks[0])
	}
}

func TestBuildPipeline_InvalidChunking(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Chunking = domain.ChunkingSettings{Size: 10, Overlap: 10}

	_, err := BuildPipeline(settings.PipelineConfig())
	if !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestBuildPipeline_Empty(t *testing.T) {
	_, err := BuildPipeline(domain.PipelineConfig{})
	if !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestBuildPipeline_UnknownProcessor(t *testing.T) {
	_, err := BuildPipeline(domain.PipelineConfig{Processors: []string{"stemmer"}})
	if !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}
