// Package memory provides in-memory driven adapters. This is the
// default storage for a session: state lives for the process lifetime
// and is released wholesale on session teardown.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Chunks are keyed by owning file; file order follows first ingestion
// so global iteration stays deterministic.
type ChunkStore struct {
	mu        sync.RWMutex
	chunks    map[string][]domain.Chunk
	fileOrder []string
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[string][]domain.Chunk),
	}
}

// ReplaceFile atomically replaces all chunks for a file.
func (s *ChunkStore) ReplaceFile(_ context.Context, file string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, known := s.chunks[file]; !known {
		s.fileOrder = append(s.fileOrder, file)
	}
	stored := make([]domain.Chunk, len(chunks))
	copy(stored, chunks)
	s.chunks[file] = stored
	return nil
}

// DeleteFile removes all chunks for a file.
func (s *ChunkStore) DeleteFile(_ context.Context, file string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, known := s.chunks[file]; !known {
		return nil
	}
	delete(s.chunks, file)
	for i, name := range s.fileOrder {
		if name == file {
			s.fileOrder = append(s.fileOrder[:i], s.fileOrder[i+1:]...)
			break
		}
	}
	return nil
}

// FileChunks returns a file's chunks in ingestion order.
func (s *ChunkStore) FileChunks(_ context.Context, file string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := s.chunks[file]
	out := make([]domain.Chunk, len(chunks))
	copy(out, chunks)
	return out, nil
}

// AllChunks returns every chunk, files in first-ingestion order.
func (s *ChunkStore) AllChunks(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Chunk
	for _, file := range s.fileOrder {
		out = append(out, s.chunks[file]...)
	}
	return out, nil
}

// Files returns the names of files with at least one chunk, sorted.
func (s *ChunkStore) Files(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]string, 0, len(s.chunks))
	for file, chunks := range s.chunks {
		if len(chunks) > 0 {
			files = append(files, file)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Stats summarises the store contents.
func (s *ChunkStore) Stats(_ context.Context) (domain.SessionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.SessionStats{
		PerFile: make(map[string]domain.FileStats, len(s.chunks)),
	}
	for file, chunks := range s.chunks {
		if len(chunks) == 0 {
			continue
		}
		length := 0
		for i := range chunks {
			length += len(chunks[i].Content)
		}
		stats.PerFile[file] = domain.FileStats{Chunks: len(chunks), Length: length}
		stats.TotalChunks += len(chunks)
		stats.TotalFiles++
	}
	return stats, nil
}

// Clear removes all chunks.
func (s *ChunkStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chunks = make(map[string][]domain.Chunk)
	s.fileOrder = nil
	return nil
}
