// Package domain defines the core entities of the pdfrag ingestion pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: An uploaded document as bytes with a name
//   - Page: One page of extracted text tagged with its extraction method
//   - Extraction: The ordered pages plus the concatenated, marked-up text
//   - Chunk: A window of words used as the unit of retrieval
//   - Snapshot: The published chunks and index for the current document
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
