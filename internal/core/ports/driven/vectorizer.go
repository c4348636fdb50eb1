package driven

import (
	"context"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// Vectorizer maintains a session-scoped vocabulary and produces
// comparable sparse vectors for chunks and queries.
//
// The vocabulary is append-only: a term's dimension index never changes
// or gets reused. Chunk vectors are computed against the vocabulary
// state at ingestion time and cached; they are not recomputed when the
// vocabulary later grows. Query vectors always use the latest snapshot.
type Vectorizer interface {
	// IngestChunks registers the chunks' terms, grows the vocabulary,
	// and returns the chunks with cached vectors attached.
	IngestChunks(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error)

	// EmbedQuery embeds a query against the current vocabulary.
	// Unknown terms are ignored; a query sharing no vocabulary yields
	// a zero vector, never an error.
	EmbedQuery(ctx context.Context, text string) (domain.Vector, error)

	// Revectorize recomputes the given chunks' vectors against the
	// current vocabulary. Only used when re-vectorization is explicitly
	// configured; it is never implicit.
	Revectorize(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error)

	// Size returns the number of registered terms.
	Size() int

	// Snapshot exports the vocabulary state for persistence.
	Snapshot() domain.VocabularySnapshot

	// Restore replaces the vocabulary state from a snapshot.
	Restore(snap domain.VocabularySnapshot) error
}
