package postprocessors

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// BuilderFunc creates a stage from its [pipeline.<name>] config table.
// The chunker reads chunk_size and overlap; pagespan takes no settings.
type BuilderFunc func(cfg map[string]any) (driven.PostProcessor, error)

// Registry resolves the stage names listed in pipeline.processors.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates an empty registry. See RegisterDefaults.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register binds a stage name to its builder, replacing any earlier one.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates the named stage. A name nobody registered is a
// configuration mistake, so it fails with domain.ErrInvalidConfiguration.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown processor %q (available: %v)",
			domain.ErrInvalidConfiguration, name, r.Names())
	}
	return builder(cfg)
}

// Has reports whether name can be used in pipeline.processors.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns the registered stage names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
