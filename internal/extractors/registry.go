package extractors

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// extensionTypes covers extensions the system MIME table often lacks.
var extensionTypes = map[string]string{
	".pdf":      "application/pdf",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
	".csv":      "text/csv",
	".json":     "application/json",
	".html":     "text/html",
	".htm":      "text/html",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Registry dispatches documents to extractors by MIME type.
// When several extractors claim a type the highest priority wins.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string][]driven.TextExtractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string][]driven.TextExtractor),
	}
}

// Register adds an extractor for each MIME type it supports.
func (r *Registry) Register(extractor driven.TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mimeType := range extractor.SupportedMIMETypes() {
		list := append(r.extractors[mimeType], extractor)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.extractors[mimeType] = list
	}
}

// SupportedMIMETypes returns all registered MIME types, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.extractors))
	for mimeType := range r.extractors {
		types = append(types, mimeType)
	}
	sort.Strings(types)
	return types
}

// Lookup returns the preferred extractor for a MIME type.
func (r *Registry) Lookup(mimeType string) (driven.TextExtractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.extractors[baseType(mimeType)]
	if len(list) == 0 {
		return nil, false
	}
	return list[0], true
}

// Extract detects the MIME type if it is unset and runs the preferred extractor.
func (r *Registry) Extract(ctx context.Context, raw *domain.RawDocument) (*domain.Extraction, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	mimeType := raw.MIMEType
	if mimeType == "" {
		mimeType = DetectMIMEType(raw.Name, raw.Content)
	}

	extractor, ok := r.Lookup(mimeType)
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedFormat, raw.Name, mimeType)
	}

	logger.Debug("Extracting %s as %s", raw.Name, mimeType)

	doc := *raw
	doc.MIMEType = baseType(mimeType)
	return extractor.Extract(ctx, &doc)
}

// DetectMIMEType guesses a document's type from its name, then its content.
func DetectMIMEType(name string, content []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return baseType(t)
	}
	if bytes.HasPrefix(content, []byte("%PDF-")) {
		return "application/pdf"
	}
	return baseType(http.DetectContentType(content))
}

// baseType strips parameters such as "; charset=utf-8".
func baseType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
