package ingestors

import (
	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrieva-cli/internal/ingestors/structured"
	"github.com/custodia-labs/retrieva-cli/internal/ingestors/tabular"
	"github.com/custodia-labs/retrieva-cli/internal/ingestors/text"
)

// Registry maps document types to their ingestors.
type Registry struct {
	ingestors map[domain.DocumentType]driven.Ingestor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ingestors: make(map[domain.DocumentType]driven.Ingestor),
	}
}

// Defaults returns a registry with the built-in ingestors registered.
func Defaults() *Registry {
	r := NewRegistry()
	r.Register(tabular.New())
	r.Register(text.New())
	r.Register(structured.New())
	return r
}

// Register adds an ingestor, replacing any previous one for its type.
func (r *Registry) Register(ing driven.Ingestor) {
	r.ingestors[ing.Type()] = ing
}

// Get returns the ingestor for a document type.
// Returns domain.ErrUnsupportedType if none is registered.
func (r *Registry) Get(t domain.DocumentType) (driven.Ingestor, error) {
	ing, ok := r.ingestors[t]
	if !ok {
		return nil, domain.ErrUnsupportedType
	}
	return ing, nil
}

// Has returns true if an ingestor is registered for the type.
func (r *Registry) Has(t domain.DocumentType) bool {
	_, ok := r.ingestors[t]
	return ok
}

// Types returns the registered document types.
func (r *Registry) Types() []domain.DocumentType {
	types := make([]domain.DocumentType, 0, len(r.ingestors))
	for t := range r.ingestors {
		types = append(types, t)
	}
	return types
}
