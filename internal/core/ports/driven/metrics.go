package driven

import (
	"time"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// IngestionObserver receives pipeline measurements.
type IngestionObserver interface {
	// ObserveIngestion is called once per finished ingestion, successful or not.
	ObserveIngestion(rec domain.IngestionRecord)

	// ObservePages is called with the page count per extraction method.
	ObservePages(method domain.ExtractionMethod, pages int)

	// ObserveSearch is called after every query.
	ObserveSearch(mode domain.SearchMode, hits int, elapsed time.Duration)
}
