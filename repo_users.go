package auth

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the credential store. Every read goes through the standing
// soft-delete predicate, so only live users are ever visible here;
// soft-deleted rows stay behind as an audit trail. Username uniqueness
// is enforced at this boundary against live rows only, which is why it
// is a lookup and not a database unique index: a username released by
// a soft delete must be reusable.
type Users interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error)
	List(ctx context.Context, page, pageSize int) ([]*User, int, error)
	ListTx(ctx context.Context, tx bun.IDB, page, pageSize int) ([]*User, int, error)

	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error)
	Update(ctx context.Context, record *User, criteria ...repository.UpdateCriteria) (*User, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.UpdateCriteria) (*User, error)
	Delete(ctx context.Context, record *User) error
	DeleteTx(ctx context.Context, tx bun.IDB, record *User) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var _ Users = (*users)(nil)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "username"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.GetByIDTx(ctx, a.db, id)
}

func (a *users) GetByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	return a.GetByUsernameTx(ctx, a.db, username)
}

func (a *users) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.username = ?", username).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"username": username})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) List(ctx context.Context, page, pageSize int) ([]*User, int, error) {
	return a.ListTx(ctx, a.db, page, pageSize)
}

func (a *users) ListTx(ctx context.Context, tx bun.IDB, page, pageSize int) ([]*User, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var records []*User
	total, err := tx.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.created_at ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		ScanAndCount(ctx)

	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (a *users) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	prepareUserDefaults(record)

	if err := validateCredentials(record); err != nil {
		return nil, err
	}

	if err := a.ensureUsernameFree(ctx, tx, record.Username, record.ID); err != nil {
		return nil, err
	}

	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *users) Update(ctx context.Context, record *User, criteria ...repository.UpdateCriteria) (*User, error) {
	return a.UpdateTx(ctx, a.db, record, criteria...)
}

func (a *users) UpdateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.UpdateCriteria) (*User, error) {
	if err := validateCredentials(record); err != nil {
		return nil, err
	}

	if err := a.ensureUsernameFree(ctx, tx, record.Username, record.ID); err != nil {
		return nil, err
	}

	if len(criteria) == 0 {
		criteria = []repository.UpdateCriteria{
			repository.UpdateByID(record.ID.String()),
		}
	}

	return a.Repository.UpdateTx(ctx, tx, record, criteria...)
}

func (a *users) Delete(ctx context.Context, record *User) error {
	return a.DeleteTx(ctx, a.db, record)
}

// DeleteTx soft deletes: bun rewrites this into an UPDATE stamping
// deleted_at, after which the row is invisible to every normal read
func (a *users) DeleteTx(ctx context.Context, tx bun.IDB, record *User) error {
	_, err := tx.NewDelete().
		Model(record).
		WherePK().
		Exec(ctx)
	return err
}

// validateCredentials enforces the data model invariants at the store
// boundary: username between 4 and 255 characters, password never
// empty. The HTTP payloads mirror these rules, but a direct store
// consumer must not be able to persist an unusable account either.
func validateCredentials(record *User) error {
	if record == nil {
		return ErrUsernameInvalid
	}

	if n := len(record.Username); n < 4 || n > 255 {
		return ErrUsernameInvalid
	}

	if record.Password == "" {
		return ErrPasswordRequired
	}

	return nil
}

// ensureUsernameFree is the store boundary uniqueness check. It only
// considers live rows; the soft-delete predicate is applied implicitly.
func (a *users) ensureUsernameFree(ctx context.Context, tx bun.IDB, username string, selfID uuid.UUID) error {
	q := tx.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.username = ?", username)

	if selfID != uuid.Nil {
		q = q.Where("?TableAlias.id != ?", selfID)
	}

	exists, err := q.Exists(ctx)
	if err != nil {
		return err
	}

	if exists {
		return ErrUsernameTaken
	}

	return nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
