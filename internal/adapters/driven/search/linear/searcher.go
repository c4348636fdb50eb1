// Package linear provides a brute-force cosine similarity searcher.
package linear

import (
	"context"
	"sort"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure Searcher implements the interface.
var _ driven.Searcher = (*Searcher)(nil)

// Searcher scores every chunk against the query vector and keeps the
// top k. A linear scan is acceptable at the expected scale of tens of
// chunks per file; the driven.Searcher interface allows an indexed
// implementation to replace it without touching callers.
type Searcher struct{}

// New creates a new linear searcher.
func New() *Searcher {
	return &Searcher{}
}

// Search returns the top k chunks by descending cosine similarity.
// Ties are broken by ingestion order, so identical inputs always
// produce identical rankings. Chunks with no vocabulary overlap score
// 0; an empty chunk list yields an empty result.
func (s *Searcher) Search(_ context.Context, chunks []domain.Chunk, query domain.Vector, k int) ([]domain.SearchResult, error) {
	if len(chunks) == 0 || k <= 0 {
		return []domain.SearchResult{}, nil
	}

	scored := make([]domain.SearchResult, len(chunks))
	for i := range chunks {
		scored[i] = domain.SearchResult{
			Chunk: chunks[i],
			Score: domain.Cosine(query, chunks[i].Vector),
			File:  chunks[i].File,
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	top := scored[:k]
	for i := range top {
		top[i].Rank = i
	}
	return top, nil
}
