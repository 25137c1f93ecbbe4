package domain

// RawDocument is an uploaded document before extraction.
type RawDocument struct {
	// Name is the filename or path the document was uploaded as.
	Name string

	// MIMEType is the content type (e.g., "application/pdf").
	// Left empty, it is detected from Name and Content.
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains caller-supplied key-value pairs.
	Metadata map[string]any
}
