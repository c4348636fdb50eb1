package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSnapshot() *domain.SessionSnapshot {
	return &domain.SessionSnapshot{
		Vocabulary: domain.VocabularySnapshot{
			Terms:      map[string]int{"interfaces": 0, "down": 1, "eth2": 2},
			DocFreq:    map[string]int{"interfaces": 2, "down": 1, "eth2": 1},
			ChunkCount: 2,
		},
		Chunks: []domain.Chunk{
			{
				ID:        domain.ChunkID("interfaces.csv", 0),
				File:      "interfaces.csv",
				Type:      domain.ChunkTypeSchema,
				Content:   "Columns in interfaces.csv: interface, status",
				Seq:       0,
				Metadata:  map[string]any{"columns": []any{"interface", "status"}},
				Vector:    domain.Vector{0: 0.5},
				CreatedAt: time.Now().UTC().Truncate(time.Second),
			},
			{
				ID:        domain.ChunkID("interfaces.csv", 1),
				File:      "interfaces.csv",
				Type:      domain.ChunkTypeStatusInfo,
				Content:   "Rows in interfaces.csv where status is down",
				Seq:       1,
				Vector:    domain.Vector{0: 0.2, 1: 0.9, 2: 0.4},
				CreatedAt: time.Now().UTC().Truncate(time.Second),
			},
		},
	}
}

func TestStore_SaveAndLoadSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, "s1", sampleSnapshot()))

	loaded, err := store.LoadSession(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, 2, loaded.Vocabulary.ChunkCount)
	assert.Equal(t, map[string]int{"interfaces": 0, "down": 1, "eth2": 2}, loaded.Vocabulary.Terms)
	assert.Equal(t, 1, loaded.Vocabulary.DocFreq["down"])

	require.Len(t, loaded.Chunks, 2)
	assert.Equal(t, domain.ChunkID("interfaces.csv", 0), loaded.Chunks[0].ID)
	assert.Equal(t, domain.ChunkTypeSchema, loaded.Chunks[0].Type)
	assert.Equal(t, domain.Vector{0: 0.2, 1: 0.9, 2: 0.4}, loaded.Chunks[1].Vector)
	assert.Equal(t, "interfaces.csv", loaded.Chunks[1].File)
}

func TestStore_LoadSessionNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadSession(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_SaveReplacesPrevious(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, "s1", sampleSnapshot()))

	smaller := sampleSnapshot()
	smaller.Chunks = smaller.Chunks[:1]
	require.NoError(t, store.SaveSession(ctx, "s1", smaller))

	loaded, err := store.LoadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, loaded.Chunks, 1)
}

func TestStore_DeleteSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, "s1", sampleSnapshot()))
	require.NoError(t, store.DeleteSession(ctx, "s1"))

	_, err := store.LoadSession(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, store.DeleteSession(ctx, "s1"))
}

func TestStore_Sessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ids, err := store.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.SaveSession(ctx, "b", sampleSnapshot()))
	require.NoError(t, store.SaveSession(ctx, "a", sampleSnapshot()))

	ids, err = store.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestStore_EmptySnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	empty := &domain.SessionSnapshot{
		Vocabulary: domain.VocabularySnapshot{
			Terms:   map[string]int{},
			DocFreq: map[string]int{},
		},
	}
	require.NoError(t, store.SaveSession(ctx, "empty", empty))

	loaded, err := store.LoadSession(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, loaded.Chunks)
	assert.Empty(t, loaded.Vocabulary.Terms)
}
