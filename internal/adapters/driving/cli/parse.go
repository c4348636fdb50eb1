package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// parseFile reads a file from disk and classifies it into a parsed
// document by extension: .csv becomes tabular, .json becomes
// structured, everything else is treated as text.
func parseFile(path string) (*domain.Document, error) {
	name := filepath.Base(path)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCSV(path, name)
	case ".json":
		return parseJSON(path, name)
	default:
		return parseText(path, name)
	}
}

func parseCSV(path, name string) (*domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, domain.ErrParse)
	}
	if len(records) == 0 {
		return &domain.Document{Name: name, Type: domain.DocumentTypeTabular}, nil
	}

	columns := records[0]
	rows := make([]domain.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(domain.Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return &domain.Document{
		Name:    name,
		Type:    domain.DocumentTypeTabular,
		Rows:    rows,
		Columns: columns,
	}, nil
}

func parseJSON(path, name string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, domain.ErrParse)
	}

	return &domain.Document{
		Name: name,
		Type: domain.DocumentTypeStructured,
		Tree: tree,
	}, nil
}

func parseText(path, name string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &domain.Document{
		Name: name,
		Type: domain.DocumentTypeText,
		Text: string(data),
	}, nil
}
