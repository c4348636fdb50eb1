// Package tabular ingests row-oriented documents into typed chunks.
//
// Beyond a schema description and leading sample rows, it emits
// dedicated chunks for status-like columns (one per status value) and
// for address/identifier columns. Those rows tend to be the ones
// questions are about, and they stay retrievable even when they are a
// small minority of the table.
package tabular

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure Ingestor implements the interface.
var _ driven.Ingestor = (*Ingestor)(nil)

// Processing caps.
const (
	// MaxRows is the row cap; rows beyond it are dropped and the
	// result flagged as truncated.
	MaxRows = 500

	// SampleRows is how many leading rows go into sample chunks.
	SampleRows = 100

	// RowsPerChunk is the batch size for row-serialising chunks.
	RowsPerChunk = 20

	// maxEnumValues is the largest distinct-value set still treated
	// as a status enumeration.
	maxEnumValues = 6
)

// statusVocabulary is the fixed set of state-like values that qualify a
// column for per-value status chunks.
var statusVocabulary = map[string]struct{}{
	"up": {}, "down": {}, "online": {}, "offline": {},
	"active": {}, "idle": {}, "failed": {}, "inactive": {},
	"connected": {}, "disconnected": {}, "established": {},
}

// Address/identifier shapes.
var (
	ipv4Pattern = regexp.MustCompile(`^\d{1,3}(?:\.\d{1,3}){3}$`)
	ipv6Pattern = regexp.MustCompile(`^[0-9a-fA-F:]+:[0-9a-fA-F:]+$`)
	macPattern  = regexp.MustCompile(`^[0-9a-fA-F]{2}(?:[:-][0-9a-fA-F]{2}){5}$`)
)

// Ingestor converts tabular documents into chunks.
type Ingestor struct{}

// New creates a new tabular ingestor.
func New() *Ingestor {
	return &Ingestor{}
}

// Type returns the handled document type.
func (i *Ingestor) Type() domain.DocumentType {
	return domain.DocumentTypeTabular
}

// Ingest emits, in order: one schema chunk, sample-data chunks for the
// leading rows, per-value status chunks, address-column chunks, and
// fixed-size chunks for rows not covered by the sample window.
func (i *Ingestor) Ingest(_ context.Context, doc *domain.Document, _ domain.RetrievalSettings) ([]domain.Chunk, bool, error) {
	if len(doc.Rows) == 0 {
		return nil, false, nil
	}

	rows := doc.Rows
	truncated := false
	if len(rows) > MaxRows {
		rows = rows[:MaxRows]
		truncated = true
	}

	columns := doc.Columns
	if len(columns) == 0 {
		columns = inferColumns(rows)
	}

	b := &builder{file: doc.Name, now: time.Now()}

	// Schema chunk.
	b.add(domain.ChunkTypeSchema,
		fmt.Sprintf("Columns in %s: %s", doc.Name, strings.Join(columns, ", ")),
		map[string]any{
			"columns":       columns,
			"total_rows":    len(rows),
			"total_columns": len(columns),
		})

	// Sample-data chunks over the leading rows.
	sampleEnd := len(rows)
	if sampleEnd > SampleRows {
		sampleEnd = SampleRows
	}
	i.addRowBatches(b, doc.Name, domain.ChunkTypeSampleData, "Sample data from", columns, rows, 0, sampleEnd)

	// Per-value status chunks.
	for _, col := range columns {
		values, ok := statusValues(rows, col)
		if !ok {
			continue
		}
		for _, val := range values {
			matching, indices := rowsWithValue(rows, col, val)
			if len(matching) > RowsPerChunk {
				matching = matching[:RowsPerChunk]
				indices = indices[:RowsPerChunk]
			}
			content := fmt.Sprintf("Rows in %s where %s is %s (%d of %d rows):\n%s",
				doc.Name, col, val, len(matching), len(rows), serializeRows(columns, matching))
			b.add(domain.ChunkTypeStatusInfo, content, map[string]any{
				"column":      col,
				"value":       val,
				"row_indices": indices,
			})
		}
	}

	// Address/identifier column chunks.
	for _, col := range columns {
		if !isAddressColumn(rows, col) {
			continue
		}
		matching, indices := rowsWithNonEmpty(rows, col)
		if len(matching) == 0 {
			continue
		}
		if len(matching) > RowsPerChunk {
			matching = matching[:RowsPerChunk]
			indices = indices[:RowsPerChunk]
		}
		content := fmt.Sprintf("Rows in %s with %s values (%d of %d rows):\n%s",
			doc.Name, col, len(matching), len(rows), serializeRows(columns, matching))
		b.add(domain.ChunkTypeNeighborInfo, content, map[string]any{
			"column":      col,
			"row_indices": indices,
		})
	}

	// Remaining rows beyond the sample window.
	i.addRowBatches(b, doc.Name, domain.ChunkTypeSampleData, "Additional rows from", columns, rows, sampleEnd, len(rows))

	return b.chunks, truncated, nil
}

// addRowBatches splits rows[start:end] into RowsPerChunk batches.
func (i *Ingestor) addRowBatches(b *builder, file string, ct domain.ChunkType, label string, columns []string, rows []domain.Row, start, end int) {
	for lo := start; lo < end; lo += RowsPerChunk {
		hi := lo + RowsPerChunk
		if hi > end {
			hi = end
		}
		content := fmt.Sprintf("%s %s (rows %d-%d):\n%s",
			label, file, lo+1, hi, serializeRows(columns, rows[lo:hi]))
		b.add(ct, content, map[string]any{
			"row_start": lo + 1,
			"row_end":   hi,
		})
	}
}

// builder accumulates chunks, assigning ids and sequence numbers.
type builder struct {
	file   string
	now    time.Time
	chunks []domain.Chunk
}

func (b *builder) add(ct domain.ChunkType, content string, metadata map[string]any) {
	seq := len(b.chunks)
	b.chunks = append(b.chunks, domain.Chunk{
		ID:        domain.ChunkID(b.file, seq),
		File:      b.file,
		Type:      ct,
		Content:   content,
		Seq:       seq,
		Metadata:  metadata,
		CreatedAt: b.now,
	})
}

// inferColumns derives a stable column order when the document carries
// none: union of row keys, sorted.
func inferColumns(rows []domain.Row) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for col := range row {
			seen[col] = struct{}{}
		}
	}
	columns := make([]string, 0, len(seen))
	for col := range seen {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}

// statusValues reports whether a column's distinct non-empty values
// form a small status enumeration, returning the values in sorted
// order for deterministic chunk emission.
func statusValues(rows []domain.Row, col string) ([]string, bool) {
	distinct := make(map[string]struct{})
	for _, row := range rows {
		val := strings.TrimSpace(row[col])
		if val == "" {
			continue
		}
		distinct[strings.ToLower(val)] = struct{}{}
		if len(distinct) > maxEnumValues {
			return nil, false
		}
	}
	if len(distinct) == 0 {
		return nil, false
	}
	values := make([]string, 0, len(distinct))
	for val := range distinct {
		if _, ok := statusVocabulary[val]; !ok {
			return nil, false
		}
		values = append(values, val)
	}
	sort.Strings(values)
	return values, true
}

// rowsWithValue returns rows whose column equals the value
// (case-insensitive), with their 0-based indices.
func rowsWithValue(rows []domain.Row, col, val string) ([]domain.Row, []int) {
	var matching []domain.Row
	var indices []int
	for idx, row := range rows {
		if strings.EqualFold(strings.TrimSpace(row[col]), val) {
			matching = append(matching, row)
			indices = append(indices, idx)
		}
	}
	return matching, indices
}

// rowsWithNonEmpty returns rows with a non-empty value in the column.
func rowsWithNonEmpty(rows []domain.Row, col string) ([]domain.Row, []int) {
	var matching []domain.Row
	var indices []int
	for idx, row := range rows {
		if strings.TrimSpace(row[col]) != "" {
			matching = append(matching, row)
			indices = append(indices, idx)
		}
	}
	return matching, indices
}

// isAddressColumn reports whether a column's non-empty values look like
// addresses or hardware identifiers. All sampled values must match;
// one odd value disqualifies the column.
func isAddressColumn(rows []domain.Row, col string) bool {
	matched := 0
	for _, row := range rows {
		val := strings.TrimSpace(row[col])
		if val == "" {
			continue
		}
		if !ipv4Pattern.MatchString(val) && !ipv6Pattern.MatchString(val) && !macPattern.MatchString(val) {
			return false
		}
		matched++
	}
	return matched > 0
}

// serializeRows renders rows as one JSON object per line, columns in
// declared order.
func serializeRows(columns []string, rows []domain.Row) string {
	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteByte('{')
		first := true
		for _, col := range columns {
			val, ok := row[col]
			if !ok {
				continue
			}
			if !first {
				sb.WriteString(", ")
			}
			first = false
			key, _ := json.Marshal(col)
			value, _ := json.Marshal(val)
			sb.Write(key)
			sb.WriteString(": ")
			sb.Write(value)
		}
		sb.WriteByte('}')
	}
	return sb.String()
}
