package tfidf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

func chunk(content string) domain.Chunk {
	return domain.Chunk{Content: content}
}

func TestIngestChunks_AttachesVectors(t *testing.T) {
	v := New()

	chunks, err := v.IngestChunks(context.Background(), []domain.Chunk{
		chunk("router interface status"),
		chunk("router uplink bandwidth"),
	})
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.NotEmpty(t, chunks[0].Vector)
	assert.NotEmpty(t, chunks[1].Vector)
	// router, interface, status, uplink, bandwidth
	assert.Equal(t, 5, v.Size())
}

func TestIngestChunks_SharedTermLowersIDF(t *testing.T) {
	v := New()
	ctx := context.Background()

	chunks, err := v.IngestChunks(ctx, []domain.Chunk{
		chunk("router router router"),
		chunk("router switch"),
	})
	require.NoError(t, err)

	routerIdx := v.terms["router"]
	switchIdx := v.terms["switch"]

	// "router" appears in both chunks, "switch" in one; for the second
	// chunk both have tf=1/2, so the rarer term must weigh more.
	assert.Greater(t, chunks[1].Vector[switchIdx], chunks[1].Vector[routerIdx])
}

func TestIngestChunks_AppendOnlyIndices(t *testing.T) {
	v := New()
	ctx := context.Background()

	_, err := v.IngestChunks(ctx, []domain.Chunk{chunk("alpha beta")})
	require.NoError(t, err)
	alphaIdx := v.terms["alpha"]
	betaIdx := v.terms["beta"]

	_, err = v.IngestChunks(ctx, []domain.Chunk{chunk("beta gamma")})
	require.NoError(t, err)

	// Existing terms keep their dimensions, new terms extend the space.
	assert.Equal(t, alphaIdx, v.terms["alpha"])
	assert.Equal(t, betaIdx, v.terms["beta"])
	assert.Greater(t, v.terms["gamma"], betaIdx)
}

func TestIngestChunks_CachedVectorsStayFixed(t *testing.T) {
	v := New()
	ctx := context.Background()

	first, err := v.IngestChunks(ctx, []domain.Chunk{chunk("alpha beta")})
	require.NoError(t, err)
	original := make(domain.Vector, len(first[0].Vector))
	for k, w := range first[0].Vector {
		original[k] = w
	}

	// Growing the vocabulary must not touch the already returned vector.
	_, err = v.IngestChunks(ctx, []domain.Chunk{chunk("gamma delta epsilon")})
	require.NoError(t, err)

	assert.Equal(t, original, first[0].Vector)
	gammaIdx := v.terms["gamma"]
	_, present := first[0].Vector[gammaIdx]
	assert.False(t, present, "old vectors have no weight on later dimensions")
}

func TestEmbedQuery_IgnoresUnknownTerms(t *testing.T) {
	v := New()
	ctx := context.Background()

	_, err := v.IngestChunks(ctx, []domain.Chunk{chunk("interface status down")})
	require.NoError(t, err)

	query, err := v.EmbedQuery(ctx, "status of the zeppelin")
	require.NoError(t, err)

	statusIdx := v.terms["status"]
	assert.Contains(t, query, statusIdx)
	assert.Len(t, query, 1, "only the known non-stopword term contributes")
}

func TestEmbedQuery_NoOverlapYieldsZeroVector(t *testing.T) {
	v := New()
	ctx := context.Background()

	_, err := v.IngestChunks(ctx, []domain.Chunk{chunk("interface status down")})
	require.NoError(t, err)

	query, err := v.EmbedQuery(ctx, "completely unrelated words")
	require.NoError(t, err)
	assert.True(t, query.IsZero())
}

func TestEmbedQuery_EmptyVocabulary(t *testing.T) {
	v := New()

	query, err := v.EmbedQuery(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, query.IsZero())
}

func TestTokenize_StopwordsAndCase(t *testing.T) {
	v := New()

	tokens := v.tokenize("What is THE Status of eth0?")
	assert.Equal(t, []string{"status", "eth0"}, tokens)
}

func TestTokenize_NonASCIICase(t *testing.T) {
	v := New()

	// Case folding covers the full alphabet the token pattern matches.
	assert.Equal(t, v.tokenize("résumé"), v.tokenize("RÉSUMÉ"))
	assert.Equal(t, []string{"zürich"}, v.tokenize("ZÜRICH"))
}

func TestTokenize_SplitsIdentifiers(t *testing.T) {
	v := New()

	tokens := v.tokenize("neighbor_ip=10.0.0.1")
	assert.Equal(t, []string{"neighbor", "ip", "10", "0", "0", "1"}, tokens)
}

func TestRevectorize_UsesCurrentVocabulary(t *testing.T) {
	v := New()
	ctx := context.Background()

	first, err := v.IngestChunks(ctx, []domain.Chunk{chunk("alpha beta gamma")})
	require.NoError(t, err)

	_, err = v.IngestChunks(ctx, []domain.Chunk{chunk("alpha delta")})
	require.NoError(t, err)

	refreshed, err := v.Revectorize(ctx, first)
	require.NoError(t, err)

	// "beta" stayed unique to the first chunk while the corpus grew, so
	// its refreshed weight rises relative to the ingestion-time one.
	betaIdx := v.terms["beta"]
	assert.Greater(t, refreshed[0].Vector[betaIdx], first[0].Vector[betaIdx])
}

func TestSnapshotRestore_Roundtrip(t *testing.T) {
	v := New()
	ctx := context.Background()

	_, err := v.IngestChunks(ctx, []domain.Chunk{
		chunk("interface status down"),
		chunk("interface status up"),
	})
	require.NoError(t, err)

	original, err := v.EmbedQuery(ctx, "interface down")
	require.NoError(t, err)

	restored := New()
	require.NoError(t, restored.Restore(v.Snapshot()))

	assert.Equal(t, v.Size(), restored.Size())

	embedded, err := restored.EmbedQuery(ctx, "interface down")
	require.NoError(t, err)
	assert.Equal(t, original, embedded)
}

func TestRestore_RejectsNegativeIndex(t *testing.T) {
	v := New()

	err := v.Restore(domain.VocabularySnapshot{
		Terms:   map[string]int{"bad": -1},
		DocFreq: map[string]int{"bad": 1},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
