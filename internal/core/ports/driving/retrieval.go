package driving

import (
	"context"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// RetrievalService is the engine's surface towards the prompt-building
// collaborator: ingest parsed files, answer questions with a bounded
// multi-source context bundle, and report session statistics.
type RetrievalService interface {
	// ProcessFile ingests one parsed document into the session.
	// Re-processing a file replaces its chunk set wholesale.
	// Failures are local to the file and never affect other files.
	ProcessFile(ctx context.Context, doc *domain.Document) (*domain.IngestResult, error)

	// GetContext assembles a context bundle for a question over the
	// attached files. No relevant data yields an empty bundle, not an
	// error.
	GetContext(ctx context.Context, question string, files []string) (*domain.ContextBundle, error)

	// RemoveFile deletes a file's chunks from the session.
	RemoveFile(ctx context.Context, file string) error

	// Stats summarises the session's chunk store.
	Stats(ctx context.Context) (*domain.SessionStats, error)
}
