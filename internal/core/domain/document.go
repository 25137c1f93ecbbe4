package domain

import "time"

// Document is an ingested document with its extracted text.
// It lives in memory until the next successful ingestion replaces it.
type Document struct {
	// ID is the unique identifier for the ingestion that produced this document.
	ID string

	// Name is the uploaded filename or path.
	Name string

	// Title is the human-readable title.
	Title string

	// Content is the concatenated page text including page markers.
	// This is the complete document text before chunking.
	Content string

	// Pages are the page-level extraction results in order.
	Pages []Page

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// IngestedAt is when the document was ingested.
	IngestedAt time.Time
}

// Chunk is a contiguous window of whitespace-delimited words.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the chunk's words joined with single spaces.
	Content string

	// Position is the 0-based ordinal position within the document.
	Position int

	// StartWord is the offset of the first word in the document's word sequence.
	StartWord int

	// WordCount is the number of words in the chunk.
	WordCount int

	// StartPage is the page of the chunk's first word, 0 if unknown.
	StartPage int

	// EndPage is the page of the chunk's last word, 0 if unknown.
	EndPage int

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}
