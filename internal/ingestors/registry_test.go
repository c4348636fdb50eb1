package ingestors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

func TestDefaults_CoversAllDocumentTypes(t *testing.T) {
	r := Defaults()

	for _, dt := range []domain.DocumentType{
		domain.DocumentTypeTabular,
		domain.DocumentTypeText,
		domain.DocumentTypeStructured,
	} {
		ing, err := r.Get(dt)
		require.NoError(t, err)
		assert.Equal(t, dt, ing.Type())
		assert.True(t, r.Has(dt))
	}
	assert.Len(t, r.Types(), 3)
}

func TestGet_UnknownType(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get(domain.DocumentTypeTabular)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.False(t, r.Has(domain.DocumentTypeTabular))
}
