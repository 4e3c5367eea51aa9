package auth

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// HasLifecycleFields is implemented by every persisted model that opts
// into timestamp stamping and soft deletes. The repositories own these
// fields; nothing else should set them.
type HasLifecycleFields interface {
	MarkCreated(now time.Time)
	MarkUpdated(now time.Time)
	LifecycleDeletedAt() *time.Time
}

// stampLifecycle applies the lifecycle contract right before a model is
// appended to a query: inserts get created_at == updated_at, updates
// bump updated_at. Soft deletes are handled by the bun soft_delete tag,
// which rewrites NewDelete into an UPDATE setting deleted_at and adds
// the standing deleted_at IS NULL predicate to every select.
//
// If the commit itself fails the row keeps its previous timestamps and
// the caller sees the driver error unmodified.
func stampLifecycle(query bun.Query, record HasLifecycleFields) {
	switch query.(type) {
	case *bun.InsertQuery:
		now := time.Now()
		record.MarkCreated(now)
	case *bun.UpdateQuery:
		record.MarkUpdated(time.Now())
	}
}

var _ bun.BeforeAppendModelHook = (*User)(nil)
var _ bun.BeforeAppendModelHook = (*Token)(nil)

var _ HasLifecycleFields = (*User)(nil)
var _ HasLifecycleFields = (*Token)(nil)

func (u *User) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	stampLifecycle(query, u)
	return nil
}

func (u *User) MarkCreated(now time.Time) {
	u.CreatedAt = &now
	u.UpdatedAt = &now
}

func (u *User) MarkUpdated(now time.Time) {
	u.UpdatedAt = &now
}

func (u *User) LifecycleDeletedAt() *time.Time {
	return u.DeletedAt
}

func (t *Token) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	stampLifecycle(query, t)
	return nil
}

func (t *Token) MarkCreated(now time.Time) {
	t.CreatedAt = &now
	t.UpdatedAt = &now
}

func (t *Token) MarkUpdated(now time.Time) {
	t.UpdatedAt = &now
}

func (t *Token) LifecycleDeletedAt() *time.Time {
	return t.DeletedAt
}
