// Package tui provides an interactive terminal user interface for pdfrag.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
)

// Ports aggregates the services the TUI drives.
type Ports struct {
	// Ingestion ingests documents and exposes the current chunks.
	Ingestion driving.IngestionService

	// Search queries the current snapshot.
	Search driving.SearchService

	// Loader reads documents from the paths typed into the ingest view.
	Loader driven.DocumentLoader
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ingestion == nil {
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
