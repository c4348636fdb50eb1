// Package structured ingests tree-shaped documents (decoded JSON or
// YAML) by flattening them into path/value lines and grouping those
// lines into chunks.
package structured

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure Ingestor implements the interface.
var _ driven.Ingestor = (*Ingestor)(nil)

// MaxPaths caps the flattened path count. Paths beyond it are dropped
// and the result flagged as truncated.
const MaxPaths = 5000

// Ingestor converts structured documents into path-grouped chunks.
// Flattening is deterministic: map keys are visited in sorted order,
// so the same tree always yields the same chunk sequence.
type Ingestor struct{}

// New creates a new structured ingestor.
func New() *Ingestor {
	return &Ingestor{}
}

// Type returns the handled document type.
func (i *Ingestor) Type() domain.DocumentType {
	return domain.DocumentTypeStructured
}

// Ingest flattens the document tree into "path = value" lines and
// packs consecutive lines into chunks up to the configured chunk size.
func (i *Ingestor) Ingest(_ context.Context, doc *domain.Document, settings domain.RetrievalSettings) ([]domain.Chunk, bool, error) {
	if doc.Tree == nil {
		return nil, false, nil
	}

	settings = settings.Normalise()

	var lines []line
	flatten("", doc.Tree, &lines)
	truncated := false
	if len(lines) > MaxPaths {
		lines = lines[:MaxPaths]
		truncated = true
	}
	if len(lines) == 0 {
		return nil, truncated, nil
	}

	now := time.Now()
	var chunks []domain.Chunk
	var sb strings.Builder
	var paths []string

	emit := func() {
		if sb.Len() == 0 {
			return
		}
		seq := len(chunks)
		chunks = append(chunks, domain.Chunk{
			ID:      domain.ChunkID(doc.Name, seq),
			File:    doc.Name,
			Type:    domain.ChunkTypeStructuredPath,
			Content: sb.String(),
			Seq:     seq,
			Metadata: map[string]any{
				"paths": append([]string(nil), paths...),
			},
			CreatedAt: now,
		})
		sb.Reset()
		paths = paths[:0]
	}

	for _, l := range lines {
		rendered := l.path + " = " + l.value
		if sb.Len() > 0 && sb.Len()+1+len(rendered) > settings.ChunkSize {
			emit()
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(rendered)
		paths = append(paths, l.path)
	}
	emit()

	return chunks, truncated, nil
}

// line is one flattened leaf.
type line struct {
	path  string
	value string
}

// flatten walks the tree depth-first, emitting a line per leaf. Paths
// use dot notation for map keys and bracketed indices for slices, e.g.
// "interfaces[0].status".
func flatten(prefix string, node any, out *[]line) {
	switch v := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flatten(joinPath(prefix, k), v[k], out)
		}
	case []any:
		for idx, item := range v {
			flatten(prefix+"["+strconv.Itoa(idx)+"]", item, out)
		}
	case nil:
		*out = append(*out, line{path: prefix, value: "null"})
	case string:
		*out = append(*out, line{path: prefix, value: v})
	case bool:
		*out = append(*out, line{path: prefix, value: strconv.FormatBool(v)})
	case float64:
		*out = append(*out, line{path: prefix, value: strconv.FormatFloat(v, 'g', -1, 64)})
	case int:
		*out = append(*out, line{path: prefix, value: strconv.Itoa(v)})
	default:
		*out = append(*out, line{path: prefix, value: fmt.Sprintf("%v", v)})
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
