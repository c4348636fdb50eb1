package text

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	ing := New()
	require.NotNil(t, ing)
	assert.Equal(t, domain.DocumentTypeText, ing.Type())
}

func TestIngest_ShortTextSingleChunk(t *testing.T) {
	doc := &domain.Document{
		Name: "notes.txt",
		Type: domain.DocumentTypeText,
		Text: "A short note about the core switch.",
	}

	chunks, truncated, err := New().Ingest(context.Background(), doc, domain.DefaultSettings())
	require.NoError(t, err)
	assert.False(t, truncated)
	require.Len(t, chunks, 1)
	assert.Equal(t, domain.ChunkTypeGenericText, chunks[0].Type)
	assert.Equal(t, doc.Text, chunks[0].Content)
	assert.Equal(t, domain.ChunkID("notes.txt", 0), chunks[0].ID)
}

func TestIngest_WhitespaceOnlyYieldsNothing(t *testing.T) {
	doc := &domain.Document{Name: "blank.txt", Type: domain.DocumentTypeText, Text: "  \n\t  "}

	chunks, truncated, err := New().Ingest(context.Background(), doc, domain.DefaultSettings())
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Empty(t, chunks)
}

func TestIngest_OverlapCarriesContext(t *testing.T) {
	sentence := "The quick brown fox jumps over the lazy dog near the router. "
	doc := &domain.Document{
		Name: "long.txt",
		Type: domain.DocumentTypeText,
		Text: strings.Repeat(sentence, 60),
	}
	settings := domain.DefaultSettings()
	settings.ChunkSize = 500
	settings.ChunkOverlap = 100

	chunks, _, err := New().Ingest(context.Background(), doc, settings)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// The tail of each chunk reappears at the head of the next.
	for i := 0; i < len(chunks)-1; i++ {
		tail := chunks[i].Content
		if len(tail) > 40 {
			tail = tail[len(tail)-40:]
		}
		assert.Contains(t, chunks[i+1].Content, strings.TrimSpace(tail))
	}
}

func TestIngest_CutsAtSentenceBoundary(t *testing.T) {
	doc := &domain.Document{
		Name: "prose.txt",
		Type: domain.DocumentTypeText,
		Text: strings.Repeat("First clause of the paragraph continues here. ", 40),
	}
	settings := domain.DefaultSettings()
	settings.ChunkSize = 200
	settings.ChunkOverlap = 0

	chunks, _, err := New().Ingest(context.Background(), doc, settings)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// All but the final chunk should end on a full sentence.
	for _, c := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(c.Content, "."),
			"chunk should end at a sentence boundary: %q", c.Content)
	}
}

func TestIngest_HardCutWhenNoBoundary(t *testing.T) {
	doc := &domain.Document{
		Name: "blob.txt",
		Type: domain.DocumentTypeText,
		Text: strings.Repeat("x", 2500),
	}
	settings := domain.DefaultSettings()
	settings.ChunkSize = 1000
	settings.ChunkOverlap = 0

	chunks, _, err := New().Ingest(context.Background(), doc, settings)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0].Content, 1000)
	assert.Len(t, chunks[1].Content, 1000)
	assert.Len(t, chunks[2].Content, 500)
}

func TestIngest_ByteCapSetsTruncated(t *testing.T) {
	doc := &domain.Document{
		Name: "giant.txt",
		Type: domain.DocumentTypeText,
		Text: strings.Repeat("a", MaxBytes+1000),
	}

	chunks, truncated, err := New().Ingest(context.Background(), doc, domain.DefaultSettings())
	require.NoError(t, err)
	assert.True(t, truncated)

	total := 0
	for _, c := range chunks {
		total += len(c.Content)
	}
	assert.LessOrEqual(t, total, MaxBytes+domain.DefaultChunkOverlap*len(chunks))
}

func TestIngest_SequentialIdentity(t *testing.T) {
	doc := &domain.Document{
		Name: "seq.txt",
		Type: domain.DocumentTypeText,
		Text: strings.Repeat("Another line of text follows here.\n", 100),
	}

	chunks, _, err := New().Ingest(context.Background(), doc, domain.DefaultSettings())
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.Equal(t, i, c.Seq)
		assert.Equal(t, domain.ChunkID("seq.txt", i), c.ID)
	}
}
