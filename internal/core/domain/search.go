package domain

// SearchResult is a single ranked hit from a per-file similarity search.
type SearchResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the cosine similarity against the query, in [-1, 1].
	// TF-IDF weights are non-negative, so in practice [0, 1].
	Score float64

	// File is the source file the chunk belongs to.
	File string

	// Rank is the position within the file's local ranking (0-based).
	Rank int
}

// ContextBundle is the assembled multi-source retrieval output consumed
// by a downstream text-generation step.
type ContextBundle struct {
	// Question is the original natural-language question.
	Question string

	// Context is the concatenated text of the selected chunks, each
	// tagged with its source file and chunk type.
	Context string

	// Results are the selected chunks in final (descending score) order.
	Results []SearchResult

	// Sources is the number of distinct files represented.
	Sources int

	// ChunkCount is the number of selected chunks.
	ChunkCount int

	// AverageScore is the mean similarity across selected chunks.
	AverageScore float64

	// TotalLength is the character length of Context.
	TotalLength int
}

// IsEmpty returns true if the bundle carries no retrieved data.
// Callers must treat an empty bundle as "no relevant data found",
// which is distinct from an internal error.
func (b *ContextBundle) IsEmpty() bool {
	return b == nil || b.Sources == 0
}
