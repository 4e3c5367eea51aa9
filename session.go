package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SessionUser is the public slice of a user returned with a token pair
type SessionUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// LoginResult is the issuance payload shared by login and refresh
type LoginResult struct {
	User         SessionUser `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int64       `json:"expiresIn"`
	TokenType    string      `json:"tokenType"`
}

// SessionIssuer runs the login, logout, and refresh flows against the
// credential and token stores. It applies the decision engine's
// validation rules in reverse: construction instead of verification.
type SessionIssuer struct {
	repo      RepositoryManager
	verifier  PasswordVerifier
	logger    Logger
	expiresIn int64
}

var _ SessionFlows = (*SessionIssuer)(nil)

type SessionIssuerOption func(*SessionIssuer)

func NewSessionIssuer(repo RepositoryManager, opts ...SessionIssuerOption) *SessionIssuer {
	issuer := &SessionIssuer{
		repo:      repo,
		verifier:  PlainTextVerifier{},
		logger:    defLogger{},
		expiresIn: DefaultTokenExpiresIn,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(issuer)
		}
	}

	return issuer
}

// WithPasswordVerifier swaps the credential comparison strategy, e.g.
// BcryptVerifier for stores that keep hashes
func WithPasswordVerifier(verifier PasswordVerifier) SessionIssuerOption {
	return func(s *SessionIssuer) {
		if verifier != nil {
			s.verifier = verifier
		}
	}
}

func WithSessionLogger(logger Logger) SessionIssuerOption {
	return func(s *SessionIssuer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTokenExpiresIn overrides the issued validity window (ms)
func WithTokenExpiresIn(expiresIn int64) SessionIssuerOption {
	return func(s *SessionIssuer) {
		if expiresIn > 0 {
			s.expiresIn = expiresIn
		}
	}
}

// Login verifies the credentials and persists a fresh token pair. An
// unknown username and a wrong password both fail with the identical
// ErrInvalidCredentials message on purpose.
func (s *SessionIssuer) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.repo.Users().GetByUsername(ctx, username)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login user lookup error", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up user during login")
	}

	if err := s.verifier.Verify(password, user.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.repo.Tokens().Create(ctx, MintTokenPair(user.ID, s.expiresIn))
	if err != nil {
		s.logger.Error("Login token persist error", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist token pair")
	}

	return newLoginResult(user, token), nil
}

// Logout hard-removes the token row named by the Bearer header. The
// removal bypasses soft delete: a logged out token is gone for good.
func (s *SessionIssuer) Logout(ctx context.Context, header string) error {
	credential, err := ParseSchemeCredential(header, SchemeBearer)
	if err != nil {
		return err
	}

	token, err := s.repo.Tokens().GetByAccessToken(ctx, credential)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrInvalidAccessToken
		}
		s.logger.Error("Logout token lookup error", "error", err)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up access token")
	}

	if err := s.repo.Tokens().Remove(ctx, token); err != nil {
		s.logger.Error("Logout token remove error", "error", err)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to remove token pair")
	}

	return nil
}

// Refresh rotates a pair: mint and persist a new pair for the same
// owner, then spend the old row, all in one transaction. The old row
// is removed by a conditional delete on the refresh token itself, so
// when two refreshes race on the same stale token only one can win;
// the loser's delete affects zero rows and the transaction aborts.
func (s *SessionIssuer) Refresh(ctx context.Context, header string) (*LoginResult, error) {
	credential, err := ParseSchemeCredential(header, SchemeRefresh)
	if err != nil {
		return nil, err
	}

	var result *LoginResult

	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		old, err := s.repo.Tokens().GetByRefreshTokenTx(ctx, tx, credential)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrInvalidRefreshToken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up refresh token")
		}

		// the join filters soft-deleted owners, their pairs cannot rotate
		if old.User == nil {
			return ErrInvalidRefreshToken
		}

		fresh, err := s.repo.Tokens().CreateTx(ctx, tx, MintTokenPair(old.UserID, s.expiresIn))
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist rotated token pair")
		}

		removed, err := s.repo.Tokens().RemoveByRefreshTokenTx(ctx, tx, credential)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to remove rotated token pair")
		}

		if removed == 0 {
			return ErrInvalidRefreshToken
		}

		result = newLoginResult(old.User, fresh)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

func newLoginResult(user *User, token *Token) *LoginResult {
	return &LoginResult{
		User: SessionUser{
			ID:       user.ID,
			Username: user.Username,
		},
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    token.ExpiresIn,
		TokenType:    token.TokenType,
	}
}
