package domain

// IngestResult summarises one file's ingestion.
type IngestResult struct {
	// File is the ingested file name.
	File string

	// ChunkCount is the number of chunks produced.
	ChunkCount int

	// TotalContentLength is the summed character length of all chunks.
	TotalContentLength int

	// Truncated is true if the content exceeded a processing cap and
	// was cut deterministically (first N rows/bytes).
	Truncated bool
}

// FileStats describes one file's footprint in the chunk store.
type FileStats struct {
	// Chunks is the number of chunks held for the file.
	Chunks int

	// Length is the summed character length of the file's chunks.
	Length int
}

// SessionStats aggregates the chunk store contents of a session.
type SessionStats struct {
	// TotalChunks is the chunk count across all files.
	TotalChunks int

	// TotalFiles is the number of files with at least one chunk.
	TotalFiles int

	// PerFile maps file name to its footprint.
	PerFile map[string]FileStats
}

// VocabularySnapshot is a serialisable view of a session's vocabulary
// state, sufficient to restore query embedding behaviour.
type VocabularySnapshot struct {
	// Terms maps term to its assigned dimension index.
	Terms map[string]int

	// DocFreq maps term to the number of chunks containing it.
	DocFreq map[string]int

	// ChunkCount is the number of chunks ingested into the vocabulary.
	ChunkCount int
}

// SessionSnapshot is the persistent form of a session: the vocabulary
// plus every chunk with its cached vector.
type SessionSnapshot struct {
	// Vocabulary is the term registry state.
	Vocabulary VocabularySnapshot

	// Chunks are all chunk records in ingestion order.
	Chunks []Chunk
}
