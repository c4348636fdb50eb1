package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrieva-cli/internal/logger"
)

// Session ties a retrieval service to its per-session state. Chunks
// and vocabulary live exactly as long as the session unless a snapshot
// store is attached.
type Session struct {
	// ID is the session identifier.
	ID string

	// CreatedAt is when the session was opened.
	CreatedAt time.Time

	// Service is the session's retrieval engine.
	Service *RetrievalService

	store      driven.ChunkStore
	vectorizer driven.Vectorizer
}

// Snapshot exports the session's full state for persistence.
func (s *Session) Snapshot(ctx context.Context) (*domain.SessionSnapshot, error) {
	chunks, err := s.store.AllChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot session %s: %w", s.ID, err)
	}
	return &domain.SessionSnapshot{
		Vocabulary: s.vectorizer.Snapshot(),
		Chunks:     chunks,
	}, nil
}

// restore loads a snapshot into the session's state.
func (s *Session) restore(ctx context.Context, snap *domain.SessionSnapshot) error {
	if err := s.vectorizer.Restore(snap.Vocabulary); err != nil {
		return fmt.Errorf("restore vocabulary: %w", err)
	}
	byFile := make(map[string][]domain.Chunk)
	var order []string
	for _, c := range snap.Chunks {
		if _, seen := byFile[c.File]; !seen {
			order = append(order, c.File)
		}
		byFile[c.File] = append(byFile[c.File], c)
	}
	for _, file := range order {
		if err := s.store.ReplaceFile(ctx, file, byFile[file]); err != nil {
			return fmt.Errorf("restore %s: %w", file, err)
		}
	}
	return nil
}

// SessionFactory builds the per-session collaborators. Each call must
// return fresh instances; sessions never share chunk or vocabulary
// state.
type SessionFactory func() (driven.ChunkStore, driven.Vectorizer, driven.Searcher, IngestorRegistry)

// SessionManager opens, tracks and closes sessions. An optional
// snapshot store persists sessions across process restarts.
type SessionManager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	factory   SessionFactory
	snapshots driven.SnapshotStore
	settings  domain.RetrievalSettings
}

// NewSessionManager creates a session manager. snapshots may be nil,
// in which case sessions are memory-only.
func NewSessionManager(factory SessionFactory, snapshots driven.SnapshotStore, settings domain.RetrievalSettings) *SessionManager {
	return &SessionManager{
		sessions:  make(map[string]*Session),
		factory:   factory,
		snapshots: snapshots,
		settings:  settings.Normalise(),
	}
}

// Open creates a new session with a generated id.
func (m *SessionManager) Open() *Session {
	return m.OpenNamed(uuid.NewString())
}

// OpenNamed creates a new session under a caller-chosen id, replacing
// any tracked session with the same id.
func (m *SessionManager) OpenNamed(id string) *Session {
	store, vectorizer, searcher, registry := m.factory()
	session := &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		Service:    NewRetrievalService(store, vectorizer, searcher, registry, m.settings),
		store:      store,
		vectorizer: vectorizer,
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	logger.Debug("Session %s opened", session.ID)
	return session
}

// Get returns a tracked session.
// Returns domain.ErrSessionNotFound for unknown ids.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	return session, nil
}

// Close drops a session. With a snapshot store attached the persisted
// copy is removed as well.
func (m *SessionManager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	if m.snapshots != nil {
		if err := m.snapshots.DeleteSession(ctx, id); err != nil {
			return fmt.Errorf("delete snapshot %s: %w", id, err)
		}
	}
	logger.Debug("Session %s closed", id)
	return nil
}

// Save persists a session's state through the snapshot store.
func (m *SessionManager) Save(ctx context.Context, id string) error {
	if m.snapshots == nil {
		return fmt.Errorf("save session %s: no snapshot store configured", id)
	}
	session, err := m.Get(id)
	if err != nil {
		return err
	}
	snap, err := session.Snapshot(ctx)
	if err != nil {
		return err
	}
	if err := m.snapshots.SaveSession(ctx, id, snap); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	logger.Info("Session %s saved: %d chunks, %d terms", id, len(snap.Chunks), len(snap.Vocabulary.Terms))
	return nil
}

// Resume loads a persisted session into a fresh tracked session under
// the same id.
func (m *SessionManager) Resume(ctx context.Context, id string) (*Session, error) {
	if m.snapshots == nil {
		return nil, fmt.Errorf("resume session %s: no snapshot store configured", id)
	}
	snap, err := m.snapshots.LoadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	session := m.OpenNamed(id)
	if err := session.restore(ctx, snap); err != nil {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, err
	}
	logger.Info("Session %s resumed: %d chunks, %d terms", id, len(snap.Chunks), len(snap.Vocabulary.Terms))
	return session, nil
}
