package api

import (
	"net/http"

	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
)

// Ports aggregates the services the HTTP API drives.
type Ports struct {
	Ingestion driving.IngestionService
	Search    driving.SearchService

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Ingestion == nil {
		return ErrMissingIngestionService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
