package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TokenTypeBearer is the only token type issued by this package
const TokenTypeBearer = "Bearer"

// DefaultTokenExpiresIn is the validity window of a freshly issued
// token pair, in milliseconds
const DefaultTokenExpiresIn int64 = 15 * 60 * 1000

// User is the user model. Password holds the raw credential, compared
// directly during login; see PasswordVerifier for the bcrypt opt-in.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull" json:"username,omitempty"`
	Password      string     `bun:"password,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Token holds an issued access/refresh token pair. Pairs are hard
// removed on logout and rotation, never soft deleted.
type Token struct {
	bun.BaseModel `bun:"table:tokens,alias:tkn"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	AccessToken   string     `bun:"access_token,notnull" json:"access_token,omitempty"`
	RefreshToken  string     `bun:"refresh_token,notnull" json:"refresh_token,omitempty"`
	ExpiresIn     int64      `bun:"expires_in,notnull" json:"expires_in,omitempty"`
	TokenType     string     `bun:"token_type,notnull" json:"token_type,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// ExpiresAt derives the end of the token's validity window. The window
// is not stored, only created_at and the expires_in duration are.
func (t *Token) ExpiresAt() time.Time {
	if t.CreatedAt == nil {
		return time.Time{}
	}
	return t.CreatedAt.Add(time.Duration(t.ExpiresIn) * time.Millisecond)
}

// Expired reports whether the token's validity window has passed
func (t *Token) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt())
}
