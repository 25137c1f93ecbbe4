// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for ingestion to work:
//
//   - TextExtractor: Turns a raw document into page-level text (PDF, Markdown, plain text)
//   - ExtractorRegistry: Selects the extractor for a document's MIME type
//   - PageRasterizer, OCREngine: Raster fallback for pages without a text layer
//   - PostProcessorPipeline: Splits document text into chunks
//   - EmbeddingService: Maps chunk texts to vectors (the Embedder)
//   - VectorIndexBuilder: Builds an immutable NearestNeighborIndex
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - KeywordIndexBuilder: Full-text index over chunks. Without it, keyword search is disabled.
//   - IngestionHistoryStore: Records ingestion outcomes. Without it, history is not kept.
//   - IngestionObserver: Metrics. Without it, nothing is exported.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
