package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// TokenAuthenticator is the decision engine a request pipeline invokes
// on every protected call. It only ever reads the token store: checks
// are idempotent and safe to repeat for the same header, and expiry is
// computed lazily against the injected clock rather than enforced by a
// background sweeper.
type TokenAuthenticator struct {
	tokens Tokens
	logger Logger
	now    func() time.Time
}

// NewTokenAuthenticator returns a new TokenAuthenticator
func NewTokenAuthenticator(tokens Tokens) *TokenAuthenticator {
	return &TokenAuthenticator{
		tokens: tokens,
		logger: defLogger{},
		now:    time.Now,
	}
}

func (a *TokenAuthenticator) WithLogger(logger Logger) *TokenAuthenticator {
	a.logger = logger
	return a
}

// WithClock overrides the time source used for expiry checks
func (a *TokenAuthenticator) WithClock(now func() time.Time) *TokenAuthenticator {
	if now != nil {
		a.now = now
	}
	return a
}

// Authenticate decides success or failure for a raw Authorization
// header value. Each check short-circuits, first failing check wins:
//
//  1. absent/empty header        -> ErrMissingAuthorizationHeader
//  2. no "Bearer " prefix        -> ErrInvalidHeaderFormat
//  3. empty credential           -> ErrMissingAccessToken
//  4. no matching token row      -> ErrInvalidAccessToken
//  5. now > createdAt+expiresIn  -> ErrTokenExpired
//
// On success the identity assertion carries the user id, username, and
// token id, nothing else.
func (a *TokenAuthenticator) Authenticate(ctx context.Context, header string) (Identity, error) {
	credential, err := ParseSchemeCredential(header, SchemeBearer)
	if err != nil {
		return nil, err
	}

	if credential == "" {
		return nil, ErrMissingAccessToken
	}

	token, err := a.tokens.GetByAccessToken(ctx, credential)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrInvalidAccessToken
		}
		a.logger.Error("Authenticate token lookup error", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up access token")
	}

	// the join filters soft-deleted owners, their tokens no longer
	// resolve to an identity
	if token.User == nil {
		return nil, ErrInvalidAccessToken
	}

	if token.Expired(a.now()) {
		return nil, ErrTokenExpired
	}

	return tokenIdentity{
		userID:   token.User.ID.String(),
		username: token.User.Username,
		tokenID:  token.ID.String(),
	}, nil
}

type tokenIdentity struct {
	userID   string
	username string
	tokenID  string
}

func (t tokenIdentity) UserID() string {
	return t.userID
}

func (t tokenIdentity) Username() string {
	return t.username
}

func (t tokenIdentity) TokenID() string {
	return t.tokenID
}

var _ Identity = tokenIdentity{}
