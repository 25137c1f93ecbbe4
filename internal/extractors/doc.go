// Package extractors provides implementations of the TextExtractor interface
// for the supported document formats, and the registry that dispatches
// between them by MIME type.
//
// Extractors are registered with the Registry at startup:
//
//   - pdf: native text layer per page, raster + OCR fallback
//   - markdown: goldmark AST flattened to text
//   - plaintext: UTF-8 text as a single page
package extractors
