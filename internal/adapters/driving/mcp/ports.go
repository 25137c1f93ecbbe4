package mcp

import (
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ingestion replaces the current snapshot and lists its chunks.
	Ingestion driving.IngestionService

	// Search queries the current snapshot.
	Search driving.SearchService

	// Loader reads the files named by ingest_document.
	Loader driven.DocumentLoader
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Ingestion == nil {
		return ErrMissingIngestionService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Loader == nil {
		return ErrMissingLoader
	}
	return nil
}
