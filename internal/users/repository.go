package users

import (
	"context"
	"fmt"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository resolves users by id or email.
type Repository interface {
	Create(ctx context.Context, record *User) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error)
}

// NotFoundError is returned when a user lookup misses.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return "user not found"
	}
	return fmt.Sprintf("user %q not found", e.Key)
}

func NewUserRepository(db *bun.DB) repository.Repository[*User] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			u.ID = id
		},
		GetIdentifier: func() string {
			return "email"
		},
		GetIdentifierValue: func(u *User) string {
			return u.Email
		},
	})
}
