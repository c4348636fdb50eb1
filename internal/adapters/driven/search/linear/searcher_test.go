package linear

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

func vecChunk(file string, seq int, vector domain.Vector) domain.Chunk {
	return domain.Chunk{
		ID:     domain.ChunkID(file, seq),
		File:   file,
		Seq:    seq,
		Vector: vector,
	}
}

func TestSearch_RanksByCosine(t *testing.T) {
	s := New()
	chunks := []domain.Chunk{
		vecChunk("f.csv", 0, domain.Vector{0: 1}),
		vecChunk("f.csv", 1, domain.Vector{1: 1}),
		vecChunk("f.csv", 2, domain.Vector{0: 1, 1: 1}),
	}
	query := domain.Vector{0: 1}

	results, err := s.Search(context.Background(), chunks, query, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Exact match first, partial overlap second, orthogonal last.
	assert.Equal(t, domain.ChunkID("f.csv", 0), results[0].Chunk.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Equal(t, domain.ChunkID("f.csv", 2), results[1].Chunk.ID)
	assert.Equal(t, domain.ChunkID("f.csv", 1), results[2].Chunk.ID)
	assert.Zero(t, results[2].Score)

	for i, r := range results {
		assert.Equal(t, i, r.Rank)
		assert.Equal(t, "f.csv", r.File)
	}
}

func TestSearch_TruncatesToK(t *testing.T) {
	s := New()
	chunks := []domain.Chunk{
		vecChunk("f.csv", 0, domain.Vector{0: 1}),
		vecChunk("f.csv", 1, domain.Vector{0: 0.5}),
		vecChunk("f.csv", 2, domain.Vector{0: 0.1}),
	}

	results, err := s.Search(context.Background(), chunks, domain.Vector{0: 1}, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_TiesKeepIngestionOrder(t *testing.T) {
	s := New()
	chunks := []domain.Chunk{
		vecChunk("f.csv", 0, domain.Vector{0: 2}),
		vecChunk("f.csv", 1, domain.Vector{0: 2}),
		vecChunk("f.csv", 2, domain.Vector{0: 2}),
	}

	results, err := s.Search(context.Background(), chunks, domain.Vector{0: 1}, 3)
	require.NoError(t, err)

	// Cosine is scale-invariant, so all three tie; order must match
	// ingestion order.
	for i, r := range results {
		assert.Equal(t, i, r.Chunk.Seq)
	}
}

func TestSearch_EmptyInputs(t *testing.T) {
	s := New()
	ctx := context.Background()

	results, err := s.Search(ctx, nil, domain.Vector{0: 1}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = s.Search(ctx, []domain.Chunk{vecChunk("f.csv", 0, domain.Vector{0: 1})}, domain.Vector{0: 1}, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ZeroVectorsScoreZero(t *testing.T) {
	s := New()
	chunks := []domain.Chunk{
		vecChunk("f.csv", 0, domain.Vector{}),
		vecChunk("f.csv", 1, nil),
	}

	results, err := s.Search(context.Background(), chunks, domain.Vector{0: 1}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Zero(t, results[0].Score)
	assert.Zero(t, results[1].Score)
}
