package domain

import (
	"strconv"
	"time"
)

// DocumentType identifies the shape of parsed file content.
// It is a closed set: each type has exactly one ingestion strategy.
type DocumentType string

// Supported document types.
const (
	// DocumentTypeTabular is row-oriented data (CSV, spreadsheets).
	DocumentTypeTabular DocumentType = "tabular"

	// DocumentTypeText is free-form text.
	DocumentTypeText DocumentType = "text"

	// DocumentTypeStructured is tree-shaped data (JSON, YAML).
	DocumentTypeStructured DocumentType = "structured"
)

// IsValid returns true if the document type is recognised.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeTabular, DocumentTypeText, DocumentTypeStructured:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t DocumentType) String() string {
	return string(t)
}

// Row is a single tabular record mapping column name to cell value.
type Row map[string]string

// Document is parsed file content handed over by the file-ingestion
// collaborator. It exists only as ingestion input and is not retained
// after chunking.
type Document struct {
	// Name is the file name the chunks will be attributed to.
	Name string

	// Type selects the ingestion strategy.
	Type DocumentType

	// Rows holds the parsed records for tabular documents.
	Rows []Row

	// Columns is the column order for tabular documents.
	// Preserved separately because Row is an unordered map.
	Columns []string

	// Text holds the raw content for text documents.
	Text string

	// Tree holds the decoded structure for structured documents.
	Tree any
}

// ChunkType tags what kind of content a chunk carries.
type ChunkType string

// Chunk type tags.
const (
	// ChunkTypeSchema describes a tabular file's columns.
	ChunkTypeSchema ChunkType = "schema"

	// ChunkTypeSampleData serialises leading rows of a tabular file.
	ChunkTypeSampleData ChunkType = "sample_data"

	// ChunkTypeStatusInfo isolates rows sharing a status-like value.
	ChunkTypeStatusInfo ChunkType = "status_info"

	// ChunkTypeNeighborInfo subsets rows with address/identifier values.
	ChunkTypeNeighborInfo ChunkType = "neighbor_info"

	// ChunkTypeGenericText is plain chunked text.
	ChunkTypeGenericText ChunkType = "generic_text"

	// ChunkTypeStructuredPath groups flattened path/value pairs.
	ChunkTypeStructuredPath ChunkType = "structured_path"
)

// Chunk is the atomic unit of retrieval: a bounded, attributed piece of
// extracted document text. A chunk belongs to exactly one file and is
// immutable once created.
type Chunk struct {
	// ID is the stable identifier, "<file>#<seq>".
	ID string

	// File is the owning file name.
	File string

	// Type tags the kind of content.
	Type ChunkType

	// Content is the text content.
	Content string

	// Seq is the ordinal position within the file's chunk list.
	Seq int

	// Metadata carries chunk-specific details such as source column
	// names or covered row indices.
	Metadata map[string]any

	// Vector is the cached embedding computed at ingestion time.
	// It is never recomputed when the vocabulary later grows.
	Vector Vector

	// CreatedAt is when the chunk was ingested.
	CreatedAt time.Time
}

// ChunkID builds the stable chunk identifier for a file and sequence number.
func ChunkID(file string, seq int) string {
	return file + "#" + strconv.Itoa(seq)
}
