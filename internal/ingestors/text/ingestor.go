// Package text ingests free-form text into overlapping chunks.
package text

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure Ingestor implements the interface.
var _ driven.Ingestor = (*Ingestor)(nil)

// MaxBytes caps the text content considered for chunking. Content
// beyond it is dropped and the result flagged as truncated.
const MaxBytes = 200_000

// Ingestor splits text documents into fixed-size chunks with overlap.
// Cut points prefer sentence or line boundaries when one falls in the
// back half of the window.
type Ingestor struct{}

// New creates a new text ingestor.
func New() *Ingestor {
	return &Ingestor{}
}

// Type returns the handled document type.
func (i *Ingestor) Type() domain.DocumentType {
	return domain.DocumentTypeText
}

// Ingest chunks the document text. Whitespace-only documents produce
// no chunks.
func (i *Ingestor) Ingest(_ context.Context, doc *domain.Document, settings domain.RetrievalSettings) ([]domain.Chunk, bool, error) {
	content := doc.Text
	truncated := false
	if len(content) > MaxBytes {
		content = content[:MaxBytes]
		truncated = true
	}
	if strings.TrimSpace(content) == "" {
		return nil, truncated, nil
	}

	settings = settings.Normalise()
	now := time.Now()

	var chunks []domain.Chunk
	start := 0
	for start < len(content) {
		end := start + settings.ChunkSize
		if end >= len(content) {
			end = len(content)
		} else {
			end = cutPoint(content, start, end, settings.ChunkSize)
		}

		piece := strings.TrimSpace(content[start:end])
		if piece != "" {
			seq := len(chunks)
			chunks = append(chunks, domain.Chunk{
				ID:      domain.ChunkID(doc.Name, seq),
				File:    doc.Name,
				Type:    domain.ChunkTypeGenericText,
				Content: piece,
				Seq:     seq,
				Metadata: map[string]any{
					"char_start": start,
					"char_end":   end,
				},
				CreatedAt: now,
			})
		}

		if end >= len(content) {
			break
		}
		next := end - settings.ChunkOverlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks, truncated, nil
}

// cutPoint moves the chunk end back to the last sentence or line
// boundary within the window, provided it falls past the midpoint.
// Otherwise the hard cut stands.
func cutPoint(content string, start, end, chunkSize int) int {
	window := content[start:end]
	boundary := strings.LastIndexAny(window, ".\n")
	if boundary > chunkSize/2 {
		return start + boundary + 1
	}
	return end
}
