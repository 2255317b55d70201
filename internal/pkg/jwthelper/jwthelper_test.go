package jwthelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	signingKey := []byte("test-signing-key")

	token, err := GenerateToken(signingKey, 42, "go-test-agent")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(signingKey, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.AccountID)
	assert.Equal(t, "go-test-agent", claims.UserAgent)
}

func TestParseToken_WrongKey(t *testing.T) {
	token, err := GenerateToken([]byte("key-one"), 42, "go-test-agent")
	require.NoError(t, err)

	_, err = ParseToken([]byte("key-two"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken([]byte("test-signing-key"), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
