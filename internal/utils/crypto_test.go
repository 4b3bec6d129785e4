// internal/utils/crypto_test.go
package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	s, err := GenerateRandomString(16)
	require.NoError(t, err)
	assert.Len(t, s, 16)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]+$`), s)

	other, err := GenerateRandomString(16)
	require.NoError(t, err)
	assert.NotEqual(t, s, other)
}

func TestGenerateOrderNumber(t *testing.T) {
	number, err := GenerateOrderNumber()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-[A-Za-z0-9]{8}$`), number)
}

func TestHashString(t *testing.T) {
	// SHA-256 of "hello"
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		HashString("hello"))

	assert.Equal(t, HashString("token"), HashString("token"))
	assert.NotEqual(t, HashString("token"), HashString("token2"))
}
