package domain

import "time"

// IngestionState is the lifecycle state of the ingestion service.
type IngestionState string

const (
	// StateEmpty means nothing has been ingested yet.
	StateEmpty IngestionState = "empty"

	// StateIngesting means an ingestion is running.
	StateIngesting IngestionState = "ingesting"

	// StateReady means a snapshot is published and queryable.
	StateReady IngestionState = "ready"

	// StateFailed means the last ingestion failed.
	// It is transient: the service settles back to Ready or Empty.
	StateFailed IngestionState = "failed"
)

// String returns the string representation.
func (s IngestionState) String() string {
	return string(s)
}

// IngestionReport summarises a successful ingestion.
type IngestionReport struct {
	// DocumentID identifies the ingestion.
	DocumentID string

	// Name is the ingested document's name.
	Name string

	// ChunksCreated is the number of chunks indexed.
	ChunksCreated int

	// Pages is the total page count.
	Pages int

	// NativePages is the number of pages with a text layer.
	NativePages int

	// OCRPages is the number of pages that went through OCR.
	OCRPages int

	// FailedOCRPages lists pages whose OCR failed and were left empty.
	FailedOCRPages []int

	// Dimensions is the embedding dimension of the published index.
	Dimensions int

	// Duration is the wall time of the ingestion.
	Duration time.Duration
}

// ChunkListing is the query-surface view of the current chunks.
type ChunkListing struct {
	// DocumentName is the name of the document the chunks came from.
	DocumentName string

	// Chunks are in document order.
	Chunks []Chunk
}

// Texts returns the chunk contents in order.
func (l *ChunkListing) Texts() []string {
	texts := make([]string, len(l.Chunks))
	for i, c := range l.Chunks {
		texts[i] = c.Content
	}
	return texts
}

// IngestionStatus is the outcome recorded in the ingestion history.
type IngestionStatus string

const (
	// IngestionSucceeded marks a published ingestion.
	IngestionSucceeded IngestionStatus = "success"

	// IngestionFailed marks an ingestion that was discarded.
	IngestionFailed IngestionStatus = "error"
)

// IngestionRecord is one entry in the ingestion history.
// Only the outcome is recorded; chunks and vectors are never persisted.
type IngestionRecord struct {
	// ID is the ingestion identifier.
	ID string

	// Name is the document name.
	Name string

	// Status is the outcome.
	Status IngestionStatus

	// ChunksCreated is 0 for failed ingestions.
	ChunksCreated int

	// Pages is the page count, 0 if extraction failed.
	Pages int

	// OCRPages is the number of pages that went through OCR.
	OCRPages int

	// Error is the failure message, empty on success.
	Error string

	// StartedAt is when the ingestion started.
	StartedAt time.Time

	// FinishedAt is when the ingestion finished.
	FinishedAt time.Time
}
