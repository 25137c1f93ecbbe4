package mcp

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	report    *domain.IngestionReport
	ingestErr error
	listing   *domain.ChunkListing
	listErr   error
	state     domain.IngestionState
	ingested  *domain.RawDocument
}

func (m *mockIngestionService) Ingest(_ context.Context, raw *domain.RawDocument) (*domain.IngestionReport, error) {
	m.ingested = raw
	return m.report, m.ingestErr
}

func (m *mockIngestionService) ListChunks(_ context.Context) (*domain.ChunkListing, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.listing == nil {
		return nil, domain.ErrNotReady
	}
	return m.listing, nil
}

func (m *mockIngestionService) State() domain.IngestionState {
	if m.state == "" {
		return domain.StateEmpty
	}
	return m.state
}

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
	opts    domain.SearchOptions
	query   string
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.query = query
	m.opts = opts
	return m.results, m.err
}

// mockLoader is a mock implementation of driven.DocumentLoader.
type mockLoader struct {
	err error
}

func (m *mockLoader) Load(_ context.Context, path string) (*domain.RawDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.RawDocument{Name: path, Content: []byte("hello world")}, nil
}

func testListing() *domain.ChunkListing {
	return &domain.ChunkListing{
		DocumentName: "paper.pdf",
		Chunks: []domain.Chunk{
			{DocumentID: "doc-1", Position: 0, Content: "first chunk", WordCount: 2, StartPage: 1, EndPage: 1},
			{DocumentID: "doc-1", Position: 1, Content: "second chunk", StartWord: 400, WordCount: 2, StartPage: 1, EndPage: 2},
		},
	}
}

func newPorts(ing *mockIngestionService, search *mockSearchService, loader *mockLoader) *Ports {
	return &Ports{Ingestion: ing, Search: search, Loader: loader}
}
