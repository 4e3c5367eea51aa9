package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

// Authentication failure taxonomy. Messages are part of the wire
// contract and must not change; in particular login reports the same
// message for an unknown username and a wrong password so callers can
// not enumerate accounts.
var (
	ErrMissingAuthorizationHeader = goerrors.New("Missing authorization header", goerrors.CategoryAuth).
					WithTextCode("MISSING_AUTHORIZATION_HEADER").
					WithCode(goerrors.CodeUnauthorized)

	ErrInvalidHeaderFormat = goerrors.New("Invalid authorization header format", goerrors.CategoryAuth).
				WithTextCode("INVALID_HEADER_FORMAT").
				WithCode(goerrors.CodeUnauthorized)

	ErrMissingAccessToken = goerrors.New("Missing access token", goerrors.CategoryAuth).
				WithTextCode("MISSING_ACCESS_TOKEN").
				WithCode(goerrors.CodeUnauthorized)

	ErrInvalidAccessToken = goerrors.New("Invalid access token", goerrors.CategoryAuth).
				WithTextCode("INVALID_ACCESS_TOKEN").
				WithCode(goerrors.CodeUnauthorized)

	ErrTokenExpired = goerrors.New("Token has expired", goerrors.CategoryAuth).
			WithTextCode("TOKEN_EXPIRED").
			WithCode(goerrors.CodeUnauthorized)

	ErrInvalidCredentials = goerrors.New("Invalid username or password", goerrors.CategoryAuth).
				WithTextCode("INVALID_CREDENTIALS").
				WithCode(goerrors.CodeUnauthorized)

	ErrInvalidRefreshToken = goerrors.New("Invalid refresh token", goerrors.CategoryAuth).
				WithTextCode("INVALID_REFRESH_TOKEN").
				WithCode(goerrors.CodeUnauthorized)

	ErrUsernameTaken = goerrors.New("Username already taken", goerrors.CategoryConflict).
				WithTextCode("USERNAME_TAKEN").
				WithCode(goerrors.CodeConflict)

	ErrUsernameInvalid = goerrors.New("Username must be between 4 and 255 characters", goerrors.CategoryValidation).
				WithTextCode("USERNAME_INVALID").
				WithCode(goerrors.CodeBadRequest)

	ErrPasswordRequired = goerrors.New("Password is required", goerrors.CategoryValidation).
				WithTextCode("PASSWORD_REQUIRED").
				WithCode(goerrors.CodeBadRequest)
)

// IsAuthFailure reports whether err is one of the tagged authentication
// failures, as opposed to an infrastructure error
func IsAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryAuth
}

// IsConflict reports whether err is a store boundary conflict, e.g. a
// duplicate username among live users
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryConflict
}

// FailureMessage extracts the fixed human readable message carried by a
// tagged failure, falling back to err.Error()
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Message
	}
	return err.Error()
}
