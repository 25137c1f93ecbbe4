// Package mcp provides an MCP (Model Context Protocol) server adapter for pdfrag.
// It lets AI assistants ingest a document and retrieve chunks from it.
package mcp

import "errors"

// ErrMissingIngestionService is returned when the ingestion service is not provided.
var ErrMissingIngestionService = errors.New("mcp: ingestion service is required")

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingLoader is returned when the document loader is not provided.
var ErrMissingLoader = errors.New("mcp: document loader is required")
