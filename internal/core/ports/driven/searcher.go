package driven

import (
	"context"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// Searcher ranks one file's chunks against a query vector.
//
// The interface is deliberately independent of the ranking strategy: the
// default implementation is a linear cosine scan, acceptable at tens of
// chunks per file, and an indexed implementation is a drop-in
// replacement.
type Searcher interface {
	// Search returns the top k chunks by descending similarity, ties
	// broken by ingestion order. Chunks with no vocabulary overlap
	// score 0 and never fault. An empty chunk list yields an empty
	// result, not an error.
	Search(ctx context.Context, chunks []domain.Chunk, query domain.Vector, k int) ([]domain.SearchResult, error)
}
