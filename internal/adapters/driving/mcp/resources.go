package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// uriScheme is the custom URI scheme for pdfrag resources.
const uriScheme = "pdfrag://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Ingestion state and the current document",
		MIMEType:    "application/json",
	}, s.handleStatusResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "chunks",
		Name:        "chunks",
		Description: "Chunk metadata of the current document",
		MIMEType:    "application/json",
	}, s.handleChunksResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "chunks/{position}",
		Name:        "chunk-content",
		Description: "Text of one chunk by position",
		MIMEType:    "text/plain",
	}, s.handleChunkContentResource)
}

type statusInfo struct {
	State      string `json:"state"`
	Document   string `json:"document,omitempty"`
	DocumentID string `json:"document_id,omitempty"`
	Chunks     int    `json:"chunks"`
}

type chunkInfo struct {
	Position  int    `json:"position"`
	URI       string `json:"uri"`
	StartWord int    `json:"start_word"`
	WordCount int    `json:"word_count"`
	StartPage int    `json:"start_page,omitempty"`
	EndPage   int    `json:"end_page,omitempty"`
}

func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	info := statusInfo{State: string(s.ports.Ingestion.State())}
	listing, err := s.ports.Ingestion.ListChunks(ctx)
	if err == nil {
		info.Document = listing.DocumentName
		info.Chunks = len(listing.Chunks)
		if len(listing.Chunks) > 0 {
			info.DocumentID = listing.Chunks[0].DocumentID
		}
	} else if !errors.Is(err, domain.ErrNotReady) {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}
	return jsonResource(req.Params.URI, info)
}

func (s *Server) handleChunksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	listing, err := s.ports.Ingestion.ListChunks(ctx)
	if errors.Is(err, domain.ErrNotReady) {
		return jsonResource(req.Params.URI, []chunkInfo{})
	}
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}

	infos := make([]chunkInfo, len(listing.Chunks))
	for i := range listing.Chunks {
		c := listing.Chunks[i]
		infos[i] = chunkInfo{
			Position:  c.Position,
			URI:       fmt.Sprintf("%schunks/%d", uriScheme, c.Position),
			StartWord: c.StartWord,
			WordCount: c.WordCount,
			StartPage: c.StartPage,
			EndPage:   c.EndPage,
		}
	}
	return jsonResource(req.Params.URI, infos)
}

func (s *Server) handleChunkContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	pos, ok := extractPosition(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	listing, err := s.ports.Ingestion.ListChunks(ctx)
	if errors.Is(err, domain.ErrNotReady) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}
	if pos >= len(listing.Chunks) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     listing.Chunks[pos].Content,
		}},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractPosition parses the chunk position from pdfrag://chunks/{position}.
func extractPosition(uri string) (int, bool) {
	const prefix = uriScheme + "chunks/"
	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}
	pos, err := strconv.Atoi(strings.TrimPrefix(uri, prefix))
	if err != nil || pos < 0 {
		return 0, false
	}
	return pos, true
}
