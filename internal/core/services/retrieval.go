package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
	"github.com/custodia-labs/retrieva-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// segmentSeparator joins context segments in the assembled bundle.
const segmentSeparator = "\n\n---\n\n"

// IngestorRegistry resolves the ingestor for a document type.
type IngestorRegistry interface {
	Get(t domain.DocumentType) (driven.Ingestor, error)
}

// RetrievalService runs the ingestion and question-answering pipeline
// for one session.
//
// A single RWMutex orders operations: ingestion and removal take the
// write lock, searches take the read lock. Any number of questions can
// be answered concurrently, but a question never observes a file
// half-ingested.
type RetrievalService struct {
	mu         sync.RWMutex
	store      driven.ChunkStore
	vectorizer driven.Vectorizer
	searcher   driven.Searcher
	registry   IngestorRegistry
	settings   domain.RetrievalSettings
}

// NewRetrievalService creates a retrieval service over the given
// collaborators. Settings are normalised once at construction.
func NewRetrievalService(
	store driven.ChunkStore,
	vectorizer driven.Vectorizer,
	searcher driven.Searcher,
	registry IngestorRegistry,
	settings domain.RetrievalSettings,
) *RetrievalService {
	return &RetrievalService{
		store:      store,
		vectorizer: vectorizer,
		searcher:   searcher,
		registry:   registry,
		settings:   settings.Normalise(),
	}
}

// Settings returns the normalised settings in effect.
func (s *RetrievalService) Settings() domain.RetrievalSettings {
	return s.settings
}

// ProcessFile ingests one parsed document. Re-processing a file name
// replaces its previous chunk set wholesale; the vocabulary keeps the
// old file's term registrations, which is accepted vocabulary growth.
func (s *RetrievalService) ProcessFile(ctx context.Context, doc *domain.Document) (*domain.IngestResult, error) {
	if doc == nil || strings.TrimSpace(doc.Name) == "" {
		return nil, fmt.Errorf("process file: %w", domain.ErrInvalidInput)
	}
	if !doc.Type.IsValid() {
		return nil, fmt.Errorf("process file %s: %w", doc.Name, domain.ErrUnsupportedType)
	}

	ingestor, err := s.registry.Get(doc.Type)
	if err != nil {
		return nil, fmt.Errorf("process file %s: %w", doc.Name, err)
	}

	logger.Section("File Ingestion")
	logger.Debug("File: %s, type: %s", doc.Name, doc.Type)

	chunks, truncated, err := ingestor.Ingest(ctx, doc, s.settings)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", doc.Name, err)
	}
	logger.Debug("Produced %d chunks (truncated=%t)", len(chunks), truncated)

	s.mu.Lock()
	defer s.mu.Unlock()

	chunks, err = s.vectorizer.IngestChunks(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("vectorize %s: %w", doc.Name, err)
	}
	logger.Debug("Vocabulary size after ingestion: %d", s.vectorizer.Size())

	if err := s.store.ReplaceFile(ctx, doc.Name, chunks); err != nil {
		return nil, fmt.Errorf("store %s: %w", doc.Name, err)
	}

	if s.settings.RevectorizeOnGrowth {
		if err := s.revectorizeAll(ctx); err != nil {
			logger.Warn("Re-vectorization failed: %v", err)
		}
	}

	length := 0
	for i := range chunks {
		length += len(chunks[i].Content)
	}
	logger.Info("Ingested %s: %d chunks, %d characters", doc.Name, len(chunks), length)

	return &domain.IngestResult{
		File:               doc.Name,
		ChunkCount:         len(chunks),
		TotalContentLength: length,
		Truncated:          truncated,
	}, nil
}

// revectorizeAll recomputes every stored chunk's vector against the
// current vocabulary. Caller holds the write lock.
func (s *RetrievalService) revectorizeAll(ctx context.Context) error {
	files, err := s.store.Files(ctx)
	if err != nil {
		return err
	}
	for _, file := range files {
		chunks, err := s.store.FileChunks(ctx, file)
		if err != nil {
			return err
		}
		chunks, err = s.vectorizer.Revectorize(ctx, chunks)
		if err != nil {
			return err
		}
		if err := s.store.ReplaceFile(ctx, file, chunks); err != nil {
			return err
		}
	}
	return nil
}

// GetContext answers a question with a bounded multi-source context
// bundle. Files limits the searched set; nil means every attached file.
// Finding nothing relevant yields an empty bundle, not an error.
func (s *RetrievalService) GetContext(ctx context.Context, question string, files []string) (*domain.ContextBundle, error) {
	bundle := &domain.ContextBundle{Question: question}

	question = strings.TrimSpace(question)
	if question == "" {
		logger.Debug("Empty question, returning empty bundle")
		return bundle, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	logger.Section("Context Retrieval")
	logger.Debug("Question: %q", question)

	if len(files) == 0 {
		var err error
		files, err = s.store.Files(ctx)
		if err != nil {
			return nil, fmt.Errorf("list files: %w", err)
		}
	}
	logger.Debug("Searching %d files", len(files))
	if len(files) == 0 {
		return bundle, nil
	}

	query, err := s.vectorizer.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if query.IsZero() {
		logger.Debug("Question shares no vocabulary with the session")
		return bundle, nil
	}

	perFile := s.searchFiles(ctx, files, query)

	selected := s.selectResults(perFile)
	if len(selected) == 0 {
		logger.Info("No chunk scored above zero")
		return bundle, nil
	}

	s.assemble(bundle, selected)
	logger.Info("Bundle: %d chunks from %d sources, %d characters",
		bundle.ChunkCount, bundle.Sources, bundle.TotalLength)
	return bundle, nil
}

// searchFiles runs the per-file searches in parallel. A failing file is
// logged and dropped; the question still gets answered from the others.
func (s *RetrievalService) searchFiles(ctx context.Context, files []string, query domain.Vector) map[string][]domain.SearchResult {
	var wg sync.WaitGroup
	var mu sync.Mutex
	perFile := make(map[string][]domain.SearchResult, len(files))

	wg.Add(len(files))
	for _, file := range files {
		go func(file string) {
			defer wg.Done()

			chunks, err := s.store.FileChunks(ctx, file)
			if err != nil {
				logger.Warn("Search skipped for %s: %v", file, err)
				return
			}
			results, err := s.searcher.Search(ctx, chunks, query, s.settings.PerFileCandidates)
			if err != nil {
				logger.Warn("Search skipped for %s: %v", file, err)
				return
			}
			logger.Debug("%s: %d candidates", file, len(results))

			mu.Lock()
			perFile[file] = results
			mu.Unlock()
		}(file)
	}
	wg.Wait()

	return perFile
}

// selectResults applies the fairness floor and the pooled threshold.
//
// With the floor enabled, each file's best positive-similarity chunk is
// admitted unconditionally. The remaining candidates across all files
// are pooled, sorted by score, and admitted only at or above the
// similarity threshold until the result cap is reached. With the floor
// disabled every candidate goes through the pooled path.
func (s *RetrievalService) selectResults(perFile map[string][]domain.SearchResult) []domain.SearchResult {
	files := make([]string, 0, len(perFile))
	for file := range perFile {
		files = append(files, file)
	}
	sort.Strings(files)

	var selected []domain.SearchResult
	var pool []domain.SearchResult

	for _, file := range files {
		results := perFile[file]
		if len(results) == 0 {
			continue
		}
		rest := results
		if s.settings.FairnessFloorEnabled && results[0].Score > 0 {
			selected = append(selected, results[0])
			logger.Debug("Floor: %s via %s (%.3f)", file, results[0].Chunk.ID, results[0].Score)
			rest = results[1:]
		}
		pool = append(pool, rest...)
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Score > pool[j].Score
	})
	for _, r := range pool {
		if len(selected) >= s.settings.MaxResultsPerQuery {
			break
		}
		if r.Score < s.settings.SimilarityThreshold || r.Score <= 0 {
			break
		}
		selected = append(selected, r)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Score > selected[j].Score
	})
	return selected
}

// assemble renders the selected results into the bundle, enforcing the
// character budget by dropping the lowest-score segments. At least one
// segment always survives so a positive match is never assembled away;
// a lone segment still over budget is truncated to fit.
func (s *RetrievalService) assemble(bundle *domain.ContextBundle, selected []domain.SearchResult) {
	segments := make([]string, len(selected))
	for i, r := range selected {
		segments[i] = fmt.Sprintf("Source: %s (%s)\n%s", r.File, r.Chunk.Type, r.Chunk.Content)
	}

	total := func() int {
		n := 0
		for _, seg := range segments {
			n += len(seg)
		}
		if len(segments) > 1 {
			n += len(segmentSeparator) * (len(segments) - 1)
		}
		return n
	}
	for len(segments) > 1 && total() > s.settings.ContextCharacterBudget {
		logger.Debug("Budget: dropping %s (%.3f)", selected[len(segments)-1].Chunk.ID, selected[len(segments)-1].Score)
		segments = segments[:len(segments)-1]
	}
	selected = selected[:len(segments)]
	if len(segments[0]) > s.settings.ContextCharacterBudget {
		logger.Debug("Budget: truncating %s (%.3f)", selected[0].Chunk.ID, selected[0].Score)
		segments[0] = truncateValid(segments[0], s.settings.ContextCharacterBudget)
	}

	sum := 0.0
	sources := make(map[string]struct{}, len(selected))
	for _, r := range selected {
		sum += r.Score
		sources[r.File] = struct{}{}
	}

	bundle.Context = strings.Join(segments, segmentSeparator)
	bundle.Results = selected
	bundle.Sources = len(sources)
	bundle.ChunkCount = len(selected)
	bundle.AverageScore = sum / float64(len(selected))
	bundle.TotalLength = len(bundle.Context)
}

// truncateValid cuts s to at most limit bytes without splitting a rune.
func truncateValid(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// RemoveFile deletes a file's chunks. The vocabulary keeps the file's
// term registrations; dimension indices are never reused.
func (s *RetrievalService) RemoveFile(ctx context.Context, file string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunks, err := s.store.FileChunks(ctx, file)
	if err != nil {
		return fmt.Errorf("remove %s: %w", file, err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("remove %s: %w", file, domain.ErrFileNotFound)
	}
	if err := s.store.DeleteFile(ctx, file); err != nil {
		return fmt.Errorf("remove %s: %w", file, err)
	}
	logger.Info("Removed %s (%d chunks)", file, len(chunks))
	return nil
}

// Stats summarises the session's chunk store.
func (s *RetrievalService) Stats(ctx context.Context) (*domain.SessionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &stats, nil
}
