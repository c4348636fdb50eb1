package driven

import (
	"context"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// ChunkStore holds a session's chunks keyed by owning file.
// A file's chunk set is replaced wholesale on re-upload and removed
// entirely on deletion; there is no partial update.
type ChunkStore interface {
	// ReplaceFile atomically replaces all chunks for a file.
	ReplaceFile(ctx context.Context, file string, chunks []domain.Chunk) error

	// DeleteFile removes all chunks for a file.
	// Deleting an unknown file is not an error.
	DeleteFile(ctx context.Context, file string) error

	// FileChunks returns a file's chunks in ingestion order.
	// An unknown file yields an empty list, not an error.
	FileChunks(ctx context.Context, file string) ([]domain.Chunk, error)

	// AllChunks returns every chunk in global ingestion order.
	AllChunks(ctx context.Context) ([]domain.Chunk, error)

	// Files returns the names of files with at least one chunk.
	Files(ctx context.Context) ([]string, error)

	// Stats summarises the store contents.
	Stats(ctx context.Context) (domain.SessionStats, error)

	// Clear removes all chunks.
	Clear(ctx context.Context) error
}
