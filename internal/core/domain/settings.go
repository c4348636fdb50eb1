package domain

// Default retrieval settings.
const (
	// DefaultChunkSize is the target character length for text chunks.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the character overlap between consecutive
	// text chunks.
	DefaultChunkOverlap = 200

	// DefaultMaxResultsPerQuery caps the chunks admitted into a bundle.
	DefaultMaxResultsPerQuery = 10

	// DefaultSimilarityThreshold is the minimum score for pooled
	// candidates. Fairness-floor chunks bypass it.
	DefaultSimilarityThreshold = 0.7

	// DefaultContextCharacterBudget caps the assembled context length.
	DefaultContextCharacterBudget = 5000

	// DefaultPerFileCandidates is the local top-k requested per file.
	DefaultPerFileCandidates = 3
)

// RetrievalSettings holds the recognised configuration options for the
// retrieval engine. Zero values are replaced with defaults by Normalise.
type RetrievalSettings struct {
	// ChunkSize is the target character length for text chunks.
	ChunkSize int

	// ChunkOverlap is the overlap between consecutive text chunks.
	ChunkOverlap int

	// MaxResultsPerQuery caps the chunks admitted into a bundle.
	MaxResultsPerQuery int

	// SimilarityThreshold is the minimum score (0-1) for chunks admitted
	// via the pooled remainder. Fairness-floor chunks are exempt.
	SimilarityThreshold float64

	// FairnessFloorEnabled guarantees one chunk per attached file.
	FairnessFloorEnabled bool

	// ContextCharacterBudget caps the assembled context text length.
	ContextCharacterBudget int

	// PerFileCandidates is the local top-k requested from each file.
	PerFileCandidates int

	// RevectorizeOnGrowth recomputes older chunk vectors against the
	// current vocabulary after each ingestion. Off by default: cached
	// vectors staying fixed is the intended accuracy/performance
	// trade-off for short-lived sessions.
	RevectorizeOnGrowth bool
}

// DefaultSettings returns the default retrieval configuration.
func DefaultSettings() RetrievalSettings {
	return RetrievalSettings{
		ChunkSize:              DefaultChunkSize,
		ChunkOverlap:           DefaultChunkOverlap,
		MaxResultsPerQuery:     DefaultMaxResultsPerQuery,
		SimilarityThreshold:    DefaultSimilarityThreshold,
		FairnessFloorEnabled:   true,
		ContextCharacterBudget: DefaultContextCharacterBudget,
		PerFileCandidates:      DefaultPerFileCandidates,
	}
}

// Normalise replaces out-of-range values with defaults and returns the
// adjusted settings.
func (s RetrievalSettings) Normalise() RetrievalSettings {
	if s.ChunkSize <= 0 {
		s.ChunkSize = DefaultChunkSize
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		s.ChunkOverlap = s.ChunkSize / 5
	}
	if s.MaxResultsPerQuery <= 0 {
		s.MaxResultsPerQuery = DefaultMaxResultsPerQuery
	}
	if s.SimilarityThreshold < 0 || s.SimilarityThreshold > 1 {
		s.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if s.ContextCharacterBudget <= 0 {
		s.ContextCharacterBudget = DefaultContextCharacterBudget
	}
	if s.PerFileCandidates <= 0 {
		s.PerFileCandidates = DefaultPerFileCandidates
	}
	return s
}
