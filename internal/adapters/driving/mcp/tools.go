package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// NoChunksDetail is returned by list_chunks and search_chunks before any ingestion.
const NoChunksDetail = "No chunks available. Please upload a PDF first."

const (
	statusSuccess = "success"
	statusError   = "error"
)

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	Path string `json:"path" jsonschema:"path of the PDF, image or text file to ingest"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	Status         string `json:"status"`
	ChunksCreated  int    `json:"chunks_created,omitempty"`
	DocumentID     string `json:"document_id,omitempty"`
	Pages          int    `json:"pages,omitempty"`
	OCRPages       int    `json:"ocr_pages,omitempty"`
	FailedOCRPages []int  `json:"failed_ocr_pages,omitempty"`
	Error          string `json:"error,omitempty"`
}

// ListChunksInput is the (empty) input schema for the list_chunks tool.
type ListChunksInput struct{}

// ListChunksOutput is the output schema for the list_chunks tool.
type ListChunksOutput struct {
	Status      string   `json:"status"`
	Document    string   `json:"document,omitempty"`
	TotalChunks int      `json:"total_chunks"`
	Chunks      []string `json:"chunks,omitempty"`
	Detail      string   `json:"detail,omitempty"`
}

// SearchInput is the input schema for the search_chunks tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to find similar chunks for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	Mode  string `json:"mode,omitempty" jsonschema:"vector (default) or keyword"`
}

// SearchOutput is the output schema for the search_chunks tool.
type SearchOutput struct {
	Status  string               `json:"status"`
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
	Detail  string               `json:"detail,omitempty"`
}

// SearchResultOutput represents a single search hit.
type SearchResultOutput struct {
	Position  int     `json:"position"`
	Content   string  `json:"content"`
	Distance  float64 `json:"distance"`
	Score     float64 `json:"score,omitempty"`
	StartPage int     `json:"start_page,omitempty"`
	EndPage   int     `json:"end_page,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Extract, chunk and embed a document, replacing the current one",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_chunks",
		Description: "List the chunk texts of the current document in order",
	}, s.handleListChunks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_chunks",
		Description: "Find the chunks of the current document closest to a query",
	}, s.handleSearch)
}

func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	path := strings.TrimSpace(input.Path)
	if path == "" {
		return nil, IngestOutput{Status: statusError, Error: "path is required"}, nil
	}

	raw, err := s.ports.Loader.Load(ctx, path)
	if err != nil {
		return nil, IngestOutput{Status: statusError, Error: err.Error()}, nil
	}

	report, err := s.ports.Ingestion.Ingest(ctx, raw)
	if err != nil {
		logger.Warn("mcp ingest %s: %v", path, err)
		return nil, IngestOutput{Status: statusError, Error: err.Error()}, nil
	}

	return nil, IngestOutput{
		Status:         statusSuccess,
		ChunksCreated:  report.ChunksCreated,
		DocumentID:     report.DocumentID,
		Pages:          report.Pages,
		OCRPages:       report.OCRPages,
		FailedOCRPages: report.FailedOCRPages,
	}, nil
}

func (s *Server) handleListChunks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListChunksInput,
) (*mcp.CallToolResult, ListChunksOutput, error) {
	listing, err := s.ports.Ingestion.ListChunks(ctx)
	if errors.Is(err, domain.ErrNotReady) {
		return nil, ListChunksOutput{Status: statusError, Detail: NoChunksDetail}, nil
	}
	if err != nil {
		return nil, ListChunksOutput{}, err
	}

	texts := listing.Texts()
	return nil, ListChunksOutput{
		Status:      statusSuccess,
		Document:    listing.DocumentName,
		TotalChunks: len(texts),
		Chunks:      texts,
	}, nil
}

// handleSearch handles the search_chunks tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{
		Limit: input.Limit,
		Mode:  domain.SearchMode(input.Mode),
	}
	if opts.Mode == "" {
		opts.Mode = domain.SearchModeVector
	}

	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if errors.Is(err, domain.ErrNotReady) {
		return nil, SearchOutput{Status: statusError, Results: []SearchResultOutput{}, Detail: NoChunksDetail}, nil
	}
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Status:  statusSuccess,
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			Position:  results[i].Chunk.Position,
			Content:   results[i].Chunk.Content,
			Distance:  results[i].Distance,
			Score:     results[i].Score,
			StartPage: results[i].Chunk.StartPage,
			EndPage:   results[i].Chunk.EndPage,
		}
	}

	return nil, output, nil
}
