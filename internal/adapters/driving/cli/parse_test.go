package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestParseFile_CSV(t *testing.T) {
	path := writeTempFile(t, "interfaces.csv",
		"interface,status\neth0,up\neth1,down\n")

	doc, err := parseFile(path)
	require.NoError(t, err)

	assert.Equal(t, "interfaces.csv", doc.Name)
	assert.Equal(t, domain.DocumentTypeTabular, doc.Type)
	assert.Equal(t, []string{"interface", "status"}, doc.Columns)
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, domain.Row{"interface": "eth0", "status": "up"}, doc.Rows[0])
}

func TestParseFile_CSVRaggedRows(t *testing.T) {
	path := writeTempFile(t, "ragged.csv", "a,b,c\n1,2\n4,5,6,7\n")

	doc, err := parseFile(path)
	require.NoError(t, err)
	require.Len(t, doc.Rows, 2)

	// Short rows leave trailing columns unset; long rows drop extras.
	assert.Equal(t, domain.Row{"a": "1", "b": "2"}, doc.Rows[0])
	assert.Equal(t, domain.Row{"a": "4", "b": "5", "c": "6"}, doc.Rows[1])
}

func TestParseFile_EmptyCSV(t *testing.T) {
	path := writeTempFile(t, "empty.csv", "")

	doc, err := parseFile(path)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentTypeTabular, doc.Type)
	assert.Empty(t, doc.Rows)
}

func TestParseFile_JSON(t *testing.T) {
	path := writeTempFile(t, "device.json", `{"hostname":"sw1","ports":[1,2]}`)

	doc, err := parseFile(path)
	require.NoError(t, err)

	assert.Equal(t, domain.DocumentTypeStructured, doc.Type)
	tree, ok := doc.Tree.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sw1", tree["hostname"])
}

func TestParseFile_InvalidJSON(t *testing.T) {
	path := writeTempFile(t, "broken.json", "{not json")

	_, err := parseFile(path)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestParseFile_TextFallback(t *testing.T) {
	path := writeTempFile(t, "notes.md", "# Maintenance\nAll good.")

	doc, err := parseFile(path)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentTypeText, doc.Type)
	assert.Equal(t, "# Maintenance\nAll good.", doc.Text)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := parseFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
