package auth

import (
	"github.com/google/uuid"
)

// MintTokenPair builds an unsaved Token row for the given user with a
// fresh, unpredictable access/refresh pair. Each credential is a
// random 128-bit identifier rendered as text; collisions are not
// enforced against, they are a generation-time property.
//
// The store assigns the row ID and timestamps on insert; the validity
// window is anchored at created_at.
func MintTokenPair(userID uuid.UUID, expiresIn int64) *Token {
	if expiresIn <= 0 {
		expiresIn = DefaultTokenExpiresIn
	}

	return &Token{
		UserID:       userID,
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		ExpiresIn:    expiresIn,
		TokenType:    TokenTypeBearer,
	}
}
