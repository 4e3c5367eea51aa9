package auth

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier compares a presented password against the stored
// credential. The zero-config default is PlainTextVerifier for parity
// with the reference backend; swap in BcryptVerifier when the stored
// credentials are hashes.
type PasswordVerifier interface {
	Verify(password, stored string) error
}

// PlainTextVerifier compares credentials with direct string equality.
// Storing and comparing raw passwords is a known weakness carried over
// from the reference behavior; it is kept deliberately so seeded
// fixtures round-trip, not because it is a good idea.
type PlainTextVerifier struct{}

func (PlainTextVerifier) Verify(password, stored string) error {
	if password == "" || password != stored {
		return ErrInvalidCredentials
	}
	return nil
}

// BcryptVerifier compares a password against a bcrypt hash
type BcryptVerifier struct{}

func (BcryptVerifier) Verify(password, stored string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return err
	}
	return nil
}

// HashPassword will generate a bcrypt password hash for stores that opt
// into BcryptVerifier
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", goerrors.New("password should not be empty", goerrors.CategoryValidation)
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(h), err
}
