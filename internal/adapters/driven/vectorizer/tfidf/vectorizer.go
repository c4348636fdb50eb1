// Package tfidf provides a session-scoped TF-IDF vectorizer with an
// incrementally growing, append-only vocabulary.
package tfidf

import (
	"context"
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure Vectorizer implements the interface.
var _ driven.Vectorizer = (*Vectorizer)(nil)

// tokenPattern extracts letter/digit runs, so "neighbor_ip" tokenizes
// to "neighbor" and "ip" and matches either query term.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Vectorizer maps terms to dimension indices and weights chunk and
// query text with TF-IDF. Indices are append-only: once assigned to a
// term they never change or get reused.
//
// Chunk vectors use the vocabulary state at ingestion time and are
// cached on the chunk; they are not recomputed when later files grow
// the vocabulary. Query vectors always use the current state.
type Vectorizer struct {
	mu         sync.RWMutex
	terms      map[string]int
	docFreq    []int
	chunkCount int
	stopwords  map[string]struct{}
}

// New creates an empty vectorizer.
func New() *Vectorizer {
	return &Vectorizer{
		terms:     make(map[string]int),
		stopwords: defaultStopwords(),
	}
}

// IngestChunks registers the chunks' terms and returns the chunks with
// cached vectors attached. The whole batch is registered before any
// vector is computed, so every chunk of one file shares the same
// vocabulary snapshot.
func (v *Vectorizer) IngestChunks(_ context.Context, chunks []domain.Chunk) ([]domain.Chunk, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	tokenLists := make([][]string, len(chunks))
	for i := range chunks {
		tokens := v.tokenize(chunks[i].Content)
		tokenLists[i] = tokens

		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}

			idx, ok := v.terms[tok]
			if !ok {
				idx = len(v.docFreq)
				v.terms[tok] = idx
				v.docFreq = append(v.docFreq, 0)
			}
			v.docFreq[idx]++
		}
		v.chunkCount++
	}

	out := make([]domain.Chunk, len(chunks))
	for i := range chunks {
		out[i] = chunks[i]
		out[i].Vector = v.weigh(tokenLists[i])
	}
	return out, nil
}

// EmbedQuery embeds text against the current vocabulary. Terms the
// vocabulary has never seen are ignored; a query with no known terms
// yields a zero vector.
func (v *Vectorizer) EmbedQuery(_ context.Context, text string) (domain.Vector, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.weigh(v.tokenize(text)), nil
}

// Revectorize recomputes the chunks' vectors against the current
// vocabulary without registering new terms.
func (v *Vectorizer) Revectorize(_ context.Context, chunks []domain.Chunk) ([]domain.Chunk, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]domain.Chunk, len(chunks))
	for i := range chunks {
		out[i] = chunks[i]
		out[i].Vector = v.weigh(v.tokenize(chunks[i].Content))
	}
	return out, nil
}

// Size returns the number of registered terms.
func (v *Vectorizer) Size() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.terms)
}

// Snapshot exports the vocabulary state.
func (v *Vectorizer) Snapshot() domain.VocabularySnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	snap := domain.VocabularySnapshot{
		Terms:      make(map[string]int, len(v.terms)),
		DocFreq:    make(map[string]int, len(v.terms)),
		ChunkCount: v.chunkCount,
	}
	for term, idx := range v.terms {
		snap.Terms[term] = idx
		snap.DocFreq[term] = v.docFreq[idx]
	}
	return snap
}

// Restore replaces the vocabulary state from a snapshot.
func (v *Vectorizer) Restore(snap domain.VocabularySnapshot) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	maxIdx := -1
	for _, idx := range snap.Terms {
		if idx < 0 {
			return domain.ErrInvalidInput
		}
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	v.terms = make(map[string]int, len(snap.Terms))
	v.docFreq = make([]int, maxIdx+1)
	for term, idx := range snap.Terms {
		v.terms[term] = idx
		v.docFreq[idx] = snap.DocFreq[term]
	}
	v.chunkCount = snap.ChunkCount
	return nil
}

// weigh computes the sparse TF-IDF vector for a token list against the
// current vocabulary. Callers must hold at least a read lock.
func (v *Vectorizer) weigh(tokens []string) domain.Vector {
	counts := make(map[int]int)
	total := 0
	for _, tok := range tokens {
		idx, ok := v.terms[tok]
		if !ok {
			continue
		}
		counts[idx]++
		total++
	}

	vec := make(domain.Vector, len(counts))
	if total == 0 {
		return vec
	}

	n := float64(v.chunkCount)
	for idx, count := range counts {
		tf := float64(count) / float64(total)
		// Smoothed IDF.
		idf := math.Log((1+n)/(1+float64(v.docFreq[idx]))) + 1
		vec[idx] = tf * idf
	}
	return vec
}

// tokenize case-folds the text, extracts letter/digit runs and drops
// stop words.
func (v *Vectorizer) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(text, -1)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		lower := strings.ToLower(tok)
		if _, isStop := v.stopwords[lower]; isStop {
			continue
		}
		out = append(out, lower)
	}
	return out
}

// defaultStopwords is the fixed stop-word set stripped before
// vectorization.
func defaultStopwords() map[string]struct{} {
	words := []string{
		"what", "is", "the", "a", "an", "and", "or", "but", "in", "on",
		"at", "to", "for", "of", "with", "by", "from", "about", "into",
		"through", "during", "before", "after", "above", "below",
		"between", "among", "within", "without", "against", "this",
		"that", "these", "those", "i", "you", "he", "she", "it", "we",
		"they", "will", "would", "could", "should", "can", "may",
		"might", "must", "shall", "have", "has", "had", "do", "does",
		"did", "be", "been", "being", "are", "was", "were",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
