package users

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BunRepository struct {
	repo repository.Repository[*User]
	base repository.Repository[*User]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache wraps ID and email lookups with go-repository-cache
// when both cacheService and keySerializer are provided. ListByIDs always
// reads from the database.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	base := NewUserRepository(db)
	var repo repository.Repository[*User] = base
	if cacheService != nil && keySerializer != nil {
		repo = repositorycache.New(repo, cacheService, keySerializer)
	}
	return &BunRepository{repo: repo, base: base}
}

func (r *BunRepository) Create(ctx context.Context, record *User) (*User, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.Email = strings.ToLower(strings.TrimSpace(record.Email))
	return r.repo.Create(ctx, record)
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	record, err := r.repo.GetByIdentifier(ctx, normalized)
	if err != nil {
		return nil, mapRepositoryError(err, normalized)
	}
	return record, nil
}

func (r *BunRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.id IN (?)", bun.In(ids))
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.email ASC")
		}),
	)
	return records, err
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("user repository error: %w", err)
}
