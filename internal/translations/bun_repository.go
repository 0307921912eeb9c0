package translations

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunResourceRepository implements ResourceRepository with optional caching.
// Only ID lookups go through the cache; the cache keys List criteria by
// function pointer, so filtered queries always hit base.
type BunResourceRepository struct {
	repo repository.Repository[*Resource]
	base repository.Repository[*Resource]
}

func NewBunResourceRepository(db *bun.DB) *BunResourceRepository {
	return NewBunResourceRepositoryWithCache(db, nil, nil)
}

func NewBunResourceRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunResourceRepository {
	base := NewResourceRepository(db)
	return &BunResourceRepository{repo: wrapWithCache(base, cacheService, keySerializer), base: base}
}

func (r *BunResourceRepository) Create(ctx context.Context, record *Resource) (*Resource, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("resource repository error: %w", err)
	}
	return created, nil
}

func (r *BunResourceRepository) GetByID(ctx context.Context, id uuid.UUID) (*Resource, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "resource", id.String())
	}
	return record, nil
}

func (r *BunResourceRepository) GetByPath(ctx context.Context, projectID uuid.UUID, path string) (*Resource, error) {
	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.project_id = ?", projectID).
				Where("?TableAlias.path = ?", path)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "resource", path)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "resource", Key: path}
	}
	return records[0], nil
}

func (r *BunResourceRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Resource, error) {
	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.project_id = ?", projectID).
				OrderExpr("?TableAlias.path ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("resource repository error: %w", err)
	}
	return records, nil
}

// BunEntityRepository implements EntityRepository.
type BunEntityRepository struct {
	repo repository.Repository[*Entity]
}

func NewBunEntityRepository(db *bun.DB) *BunEntityRepository {
	return &BunEntityRepository{repo: NewEntityRepository(db)}
}

func (r *BunEntityRepository) Create(ctx context.Context, record *Entity) (*Entity, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("entity repository error: %w", err)
	}
	return created, nil
}

func (r *BunEntityRepository) GetByID(ctx context.Context, id uuid.UUID) (*Entity, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "entity", id.String())
	}
	return record, nil
}

func (r *BunEntityRepository) GetByKey(ctx context.Context, resourceID uuid.UUID, keys ...string) (*Entity, error) {
	if len(keys) == 0 {
		return nil, &NotFoundError{Resource: "entity"}
	}
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.resource_id = ?", resourceID).
				Where("?TableAlias.key IN (?)", bun.In(keys)).
				OrderExpr("?TableAlias.obsolete ASC, ?TableAlias.sort_order ASC")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "entity", keys[0])
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "entity", Key: keys[0]}
	}
	return records[0], nil
}

func (r *BunEntityRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Entity, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Join("JOIN resources AS r ON r.id = ?TableAlias.resource_id").
				Where("r.project_id = ?", projectID).
				Where("?TableAlias.obsolete = ?", false).
				OrderExpr("r.path ASC, ?TableAlias.sort_order ASC, ?TableAlias.key ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("entity repository error: %w", err)
	}
	return records, nil
}

// BunTranslationRepository implements TranslationRepository.
type BunTranslationRepository struct {
	db   *bun.DB
	repo repository.Repository[*Translation]
}

func NewBunTranslationRepository(db *bun.DB) *BunTranslationRepository {
	return &BunTranslationRepository{db: db, repo: NewTranslationRepository(db)}
}

func (r *BunTranslationRepository) Create(ctx context.Context, record *Translation) (*Translation, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.Active = false
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("translation repository error: %w", err)
	}
	return created, nil
}

func (r *BunTranslationRepository) Activate(ctx context.Context, record *Translation) (*Translation, error) {
	if r.db == nil {
		return nil, fmt.Errorf("translation repository: database not configured")
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.Active = true

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().
			Model((*Translation)(nil)).
			Set("active = ?", false).
			Where("?TableAlias.entity_id = ?", record.EntityID).
			Where("?TableAlias.locale_id = ?", record.LocaleID).
			Where("?TableAlias.active = ?", true).
			Exec(ctx); err != nil {
			return fmt.Errorf("deactivate translations: %w", err)
		}
		if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
			return fmt.Errorf("insert active translation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunTranslationRepository) ListFor(ctx context.Context, entityID, localeID uuid.UUID) ([]*Translation, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.entity_id = ?", entityID).
				Where("?TableAlias.locale_id = ?", localeID).
				OrderExpr("?TableAlias.date ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("translation repository error: %w", err)
	}
	return records, nil
}

func (r *BunTranslationRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Translation, error) {
	return r.listByProject(ctx, projectID, false)
}

func (r *BunTranslationRepository) ListActiveByProject(ctx context.Context, projectID uuid.UUID) ([]*Translation, error) {
	return r.listByProject(ctx, projectID, true)
}

func (r *BunTranslationRepository) listByProject(ctx context.Context, projectID uuid.UUID, activeOnly bool) ([]*Translation, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Join("JOIN entities AS e ON e.id = ?TableAlias.entity_id").
				Join("JOIN resources AS r ON r.id = e.resource_id").
				Where("r.project_id = ?", projectID).
				Where("e.obsolete = ?", false)
			if activeOnly {
				q = q.Where("?TableAlias.active = ?", true)
			}
			return q.OrderExpr("?TableAlias.date ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("translation repository error: %w", err)
	}
	return records, nil
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
