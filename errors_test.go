package auth

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestIsAuthFailure(t *testing.T) {
	assert.True(t, IsAuthFailure(ErrInvalidCredentials))
	assert.True(t, IsAuthFailure(ErrTokenExpired))
	assert.True(t, IsAuthFailure(ErrMissingAuthorizationHeader))

	assert.False(t, IsAuthFailure(nil))
	assert.False(t, IsAuthFailure(errors.New("boom")))
	assert.False(t, IsAuthFailure(ErrUsernameTaken))
	assert.False(t, IsAuthFailure(goerrors.New("db down", goerrors.CategoryInternal)))
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(ErrUsernameTaken))
	assert.False(t, IsConflict(nil))
	assert.False(t, IsConflict(ErrInvalidCredentials))
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, "Invalid username or password", FailureMessage(ErrInvalidCredentials))
	assert.Equal(t, "Token has expired", FailureMessage(ErrTokenExpired))
	assert.Equal(t, "boom", FailureMessage(errors.New("boom")))
	assert.Empty(t, FailureMessage(nil))
}
