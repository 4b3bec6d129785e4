// internal/i18n/i18n_test.go
package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslations(t *testing.T) {
	require.NoError(t, Initialize("locales"))

	assert.Equal(t, "Authentication required", T("en", KeyAuthRequired))
	assert.Equal(t, "Authentification requise", T("fr", KeyAuthRequired))

	// Unknown language falls back to English
	assert.Equal(t, "Authentication required", T("de", KeyAuthRequired))

	// Unknown key falls back to the key itself
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))
}

func TestGetSupportedLanguages(t *testing.T) {
	require.NoError(t, Initialize("locales"))

	langs := GetSupportedLanguages()
	assert.Contains(t, langs, "en")
	assert.Contains(t, langs, "fr")
}
