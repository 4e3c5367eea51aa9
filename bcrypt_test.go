package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainTextVerifier(t *testing.T) {
	verifier := PlainTextVerifier{}

	assert.NoError(t, verifier.Verify("secret", "secret"))
	assert.ErrorIs(t, verifier.Verify("secret", "other"), ErrInvalidCredentials)
	assert.ErrorIs(t, verifier.Verify("", ""), ErrInvalidCredentials)
}

func TestBcryptVerifier(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	require.NotEqual(t, "secret", hash)

	verifier := BcryptVerifier{}

	assert.NoError(t, verifier.Verify("secret", hash))
	assert.ErrorIs(t, verifier.Verify("other", hash), ErrInvalidCredentials)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	require.Error(t, err)
}
