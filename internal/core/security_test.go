// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"))

	valid, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	_, err := VerifyPassword("anything", "not-a-bcrypt-hash")
	assert.Error(t, err)
}

func TestGenerateResetToken(t *testing.T) {
	a, err := GenerateResetToken()
	require.NoError(t, err)
	assert.Len(t, a, 40, "20 random bytes hex-encoded")

	b, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCompareTokens(t *testing.T) {
	assert.True(t, CompareTokens("abc123", "abc123"))
	assert.False(t, CompareTokens("abc123", "abc124"))
	assert.False(t, CompareTokens("abc123", "abc1234"))
}
