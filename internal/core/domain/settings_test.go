package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, DefaultChunkSize, s.ChunkSize)
	assert.Equal(t, DefaultChunkOverlap, s.ChunkOverlap)
	assert.Equal(t, DefaultMaxResultsPerQuery, s.MaxResultsPerQuery)
	assert.Equal(t, DefaultSimilarityThreshold, s.SimilarityThreshold)
	assert.True(t, s.FairnessFloorEnabled)
	assert.Equal(t, DefaultContextCharacterBudget, s.ContextCharacterBudget)
	assert.Equal(t, DefaultPerFileCandidates, s.PerFileCandidates)
	assert.False(t, s.RevectorizeOnGrowth)
}

func TestNormalise_ZeroValues(t *testing.T) {
	s := RetrievalSettings{}.Normalise()

	assert.Equal(t, DefaultChunkSize, s.ChunkSize)
	assert.Equal(t, DefaultChunkSize/5, s.ChunkOverlap)
	assert.Equal(t, DefaultMaxResultsPerQuery, s.MaxResultsPerQuery)
	assert.Equal(t, DefaultContextCharacterBudget, s.ContextCharacterBudget)
	assert.Equal(t, DefaultPerFileCandidates, s.PerFileCandidates)
}

func TestNormalise_OverlapExceedingChunkSize(t *testing.T) {
	s := RetrievalSettings{ChunkSize: 100, ChunkOverlap: 150}.Normalise()

	assert.Equal(t, 100, s.ChunkSize)
	assert.Equal(t, 20, s.ChunkOverlap)
}

func TestNormalise_ThresholdOutOfRange(t *testing.T) {
	s := RetrievalSettings{SimilarityThreshold: 1.5}.Normalise()
	assert.Equal(t, DefaultSimilarityThreshold, s.SimilarityThreshold)

	s = RetrievalSettings{SimilarityThreshold: -0.1}.Normalise()
	assert.Equal(t, DefaultSimilarityThreshold, s.SimilarityThreshold)

	// Zero is a legal threshold: everything with positive similarity
	// passes the pooled filter.
	s = RetrievalSettings{SimilarityThreshold: 0}.Normalise()
	assert.Equal(t, 0.0, s.SimilarityThreshold)
}

func TestNormalise_ValidValuesKept(t *testing.T) {
	in := RetrievalSettings{
		ChunkSize:              500,
		ChunkOverlap:           50,
		MaxResultsPerQuery:     5,
		SimilarityThreshold:    0.4,
		ContextCharacterBudget: 2000,
		PerFileCandidates:      2,
	}
	assert.Equal(t, in, in.Normalise())
}
