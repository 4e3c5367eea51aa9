package auth

import "strings"

// Authorization header schemes understood by this package. Login and
// logout operate on Bearer credentials, refresh uses its own scheme so
// an access token can never be replayed as a refresh token.
const (
	SchemeBearer  = "Bearer"
	SchemeRefresh = "Refresh"
)

// ParseSchemeCredential extracts the credential from a raw
// Authorization header value. The scheme prefix match is
// case-insensitive and the remainder is returned with surrounding
// whitespace trimmed; an empty remainder is the caller's concern.
//
// Pure function, independent of any HTTP framework type:
//   - absent or empty header -> ErrMissingAuthorizationHeader
//   - header without "<scheme> " prefix -> ErrInvalidHeaderFormat
func ParseSchemeCredential(header, scheme string) (string, error) {
	if header == "" {
		return "", ErrMissingAuthorizationHeader
	}

	prefix := scheme + " "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrInvalidHeaderFormat
	}

	return strings.TrimSpace(header[len(prefix):]), nil
}
