package driven

import (
	"context"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// Ingestor converts one parsed document into an ordered list of chunks.
// One ingestor exists per DocumentType; selection is by explicit match,
// never open-ended type inspection.
type Ingestor interface {
	// Type returns the document type this ingestor handles.
	Type() domain.DocumentType

	// Ingest produces the document's chunks in order. The returned flag
	// reports whether content beyond a processing cap was truncated.
	// Zero-length content yields zero chunks and no error.
	Ingest(ctx context.Context, doc *domain.Document, settings domain.RetrievalSettings) ([]domain.Chunk, bool, error)
}
