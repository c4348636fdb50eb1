package driven

import (
	"context"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// SnapshotStore persists session state across process restarts.
//
// Persistence is optional: the engine's state is session-lifetime only
// and the in-memory path never touches this interface. When enabled, a
// snapshot carries the vocabulary (term->index, document frequencies)
// and every chunk record with its cached vector, keyed by session id.
type SnapshotStore interface {
	// SaveSession writes a session snapshot, replacing any previous one.
	SaveSession(ctx context.Context, sessionID string, snap *domain.SessionSnapshot) error

	// LoadSession reads a session snapshot.
	// Returns domain.ErrSessionNotFound if none exists.
	LoadSession(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error)

	// DeleteSession removes a session snapshot.
	DeleteSession(ctx context.Context, sessionID string) error

	// Close releases resources.
	Close() error
}
