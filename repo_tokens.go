package auth

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Tokens is the token store. Lookups eagerly resolve the owning user
// because the decision engine always needs both sides of the join.
// Removal is a hard delete: spent or revoked pairs are never meant to
// be recoverable, so they bypass the soft-delete rewrite entirely.
type Tokens interface {
	GetByAccessToken(ctx context.Context, accessToken string) (*Token, error)
	GetByAccessTokenTx(ctx context.Context, tx bun.IDB, accessToken string) (*Token, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*Token, error)
	GetByRefreshTokenTx(ctx context.Context, tx bun.IDB, refreshToken string) (*Token, error)

	Create(ctx context.Context, record *Token, criteria ...repository.InsertCriteria) (*Token, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Token, criteria ...repository.InsertCriteria) (*Token, error)

	Remove(ctx context.Context, record *Token) error
	RemoveTx(ctx context.Context, tx bun.IDB, record *Token) error
	RemoveByRefreshTokenTx(ctx context.Context, tx bun.IDB, refreshToken string) (int64, error)
}

type tokens struct {
	repository.Repository[*Token]
	db *bun.DB
}

var _ Tokens = (*tokens)(nil)

func NewTokensRepository(db *bun.DB) Tokens {
	repo := repository.NewRepository[*Token](db, repository.ModelHandlers[*Token]{
		NewRecord: func() *Token { return &Token{} },
		GetID: func(t *Token) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Token, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "access_token"
		},
	})

	return &tokens{
		Repository: repo,
		db:         db,
	}
}

func (a *tokens) GetByAccessToken(ctx context.Context, accessToken string) (*Token, error) {
	return a.GetByAccessTokenTx(ctx, a.db, accessToken)
}

func (a *tokens) GetByAccessTokenTx(ctx context.Context, tx bun.IDB, accessToken string) (*Token, error) {
	return a.getByColumnTx(ctx, tx, "access_token", accessToken)
}

func (a *tokens) GetByRefreshToken(ctx context.Context, refreshToken string) (*Token, error) {
	return a.GetByRefreshTokenTx(ctx, a.db, refreshToken)
}

func (a *tokens) GetByRefreshTokenTx(ctx context.Context, tx bun.IDB, refreshToken string) (*Token, error) {
	return a.getByColumnTx(ctx, tx, "refresh_token", refreshToken)
}

func (a *tokens) getByColumnTx(ctx context.Context, tx bun.IDB, column, value string) (*Token, error) {
	record := &Token{}
	err := tx.NewSelect().
		Model(record).
		Relation("User").
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{column: value})
		}
		return nil, err
	}

	return record, nil
}

func (a *tokens) Create(ctx context.Context, record *Token, criteria ...repository.InsertCriteria) (*Token, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *tokens) CreateTx(ctx context.Context, tx bun.IDB, record *Token, criteria ...repository.InsertCriteria) (*Token, error) {
	prepareTokenDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *tokens) Remove(ctx context.Context, record *Token) error {
	return a.RemoveTx(ctx, a.db, record)
}

func (a *tokens) RemoveTx(ctx context.Context, tx bun.IDB, record *Token) error {
	_, err := tx.NewDelete().
		Model(record).
		WherePK().
		ForceDelete().
		Exec(ctx)
	return err
}

// RemoveByRefreshTokenTx removes the row holding refreshToken in a
// single conditional statement and reports how many rows went away.
// Rotation checks the count so two interleaved refreshes cannot both
// spend the same stale token.
func (a *tokens) RemoveByRefreshTokenTx(ctx context.Context, tx bun.IDB, refreshToken string) (int64, error) {
	res, err := tx.NewDelete().
		Model((*Token)(nil)).
		Where("?TableAlias.refresh_token = ?", refreshToken).
		ForceDelete().
		Exec(ctx)

	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func prepareTokenDefaults(record *Token) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.TokenType == "" {
		record.TokenType = TokenTypeBearer
	}

	if record.ExpiresIn <= 0 {
		record.ExpiresIn = DefaultTokenExpiresIn
	}
}
