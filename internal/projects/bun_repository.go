package projects

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunProjectRepository implements ProjectRepository. Projects change slug, so
// identifier lookups are never served from cache.
type BunProjectRepository struct {
	db      *bun.DB
	repo    repository.Repository[*Project]
	history repository.Repository[*ProjectSlugHistory]
	locales repository.Repository[*Locale]
}

func NewBunProjectRepository(db *bun.DB) *BunProjectRepository {
	return &BunProjectRepository{
		db:      db,
		repo:    NewProjectRepository(db),
		history: NewSlugHistoryRepository(db),
		locales: NewLocaleRepository(db),
	}
}

func (r *BunProjectRepository) Create(ctx context.Context, record *Project) (*Project, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("project repository error: %w", err)
	}
	return created, nil
}

func (r *BunProjectRepository) Update(ctx context.Context, record *Project) (*Project, error) {
	record.UpdatedAt = time.Now().UTC()
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("slug", "name", "info", "visibility", "disabled", "system_project", "tags_enabled", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "project", record.ID.String())
	}
	return updated, nil
}

func (r *BunProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "project", id.String())
	}
	return record, nil
}

func (r *BunProjectRepository) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "project", slug)
	}
	return record, nil
}

func (r *BunProjectRepository) GetByName(ctx context.Context, name string) (*Project, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.name = ?", name)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "project", name)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "project", Key: name}
	}
	return records[0], nil
}

func (r *BunProjectRepository) List(ctx context.Context) ([]*Project, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.name ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("project repository error: %w", err)
	}
	return records, nil
}

func (r *BunProjectRepository) AddSlugHistory(ctx context.Context, record *ProjectSlugHistory) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if _, err := r.history.Create(ctx, record); err != nil {
		return fmt.Errorf("project slug history error: %w", err)
	}
	return nil
}

func (r *BunProjectRepository) GetBySlugHistory(ctx context.Context, oldSlug string) (*Project, error) {
	entry, err := r.history.GetByIdentifier(ctx, oldSlug)
	if err != nil {
		return nil, mapRepositoryError(err, "project", oldSlug)
	}
	return r.GetByID(ctx, entry.ProjectID)
}

func (r *BunProjectRepository) AddLocale(ctx context.Context, projectID, localeID uuid.UUID) error {
	link := &ProjectLocale{ID: uuid.New(), ProjectID: projectID, LocaleID: localeID}
	_, err := r.db.NewInsert().
		Model(link).
		On("CONFLICT (project_id, locale_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("project locale insert failed: %w", err)
	}
	return nil
}

func (r *BunProjectRepository) ListLocales(ctx context.Context, projectID uuid.UUID) ([]*Locale, error) {
	records, _, err := r.locales.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Join("JOIN project_locales AS pl ON pl.locale_id = ?TableAlias.id").
				Where("pl.project_id = ?", projectID).
				OrderExpr("?TableAlias.name ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("project locale list failed: %w", err)
	}
	return records, nil
}

// BunLocaleRepository implements LocaleRepository. ID and code lookups are
// cached; name lookups and listings read from base.
type BunLocaleRepository struct {
	repo repository.Repository[*Locale]
	base repository.Repository[*Locale]
}

func NewBunLocaleRepository(db *bun.DB) *BunLocaleRepository {
	return NewBunLocaleRepositoryWithCache(db, nil, nil)
}

func NewBunLocaleRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunLocaleRepository {
	base := NewLocaleRepository(db)
	return &BunLocaleRepository{repo: wrapWithCache(base, cacheService, keySerializer), base: base}
}

func (r *BunLocaleRepository) Create(ctx context.Context, record *Locale) (*Locale, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("locale repository error: %w", err)
	}
	return created, nil
}

func (r *BunLocaleRepository) GetByID(ctx context.Context, id uuid.UUID) (*Locale, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "locale", id.String())
	}
	return record, nil
}

func (r *BunLocaleRepository) GetByCode(ctx context.Context, code string) (*Locale, error) {
	record, err := r.repo.GetByIdentifier(ctx, code)
	if err != nil {
		return nil, mapRepositoryError(err, "locale", code)
	}
	return record, nil
}

func (r *BunLocaleRepository) GetByName(ctx context.Context, name string) (*Locale, error) {
	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("LOWER(?TableAlias.name) = ?", strings.ToLower(name))
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "locale", name)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "locale", Key: name}
	}
	return records[0], nil
}

func (r *BunLocaleRepository) List(ctx context.Context) ([]*Locale, error) {
	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.name ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("locale repository error: %w", err)
	}
	return records, nil
}

// BunTagRepository implements TagRepository.
type BunTagRepository struct {
	db   *bun.DB
	repo repository.Repository[*Tag]
}

func NewBunTagRepository(db *bun.DB) *BunTagRepository {
	return &BunTagRepository{db: db, repo: NewTagRepository(db)}
}

func (r *BunTagRepository) Create(ctx context.Context, record *Tag) (*Tag, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("tag repository error: %w", err)
	}
	return created, nil
}

func (r *BunTagRepository) AttachResource(ctx context.Context, tagID, resourceID uuid.UUID) error {
	_, err := r.db.NewInsert().
		Model(&ResourceTag{TagID: tagID, ResourceID: resourceID}).
		On("CONFLICT (tag_id, resource_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("resource tag insert failed: %w", err)
	}
	return nil
}

func (r *BunTagRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Tag, error) {
	var records []*Tag
	err := r.db.NewSelect().
		Model(&records).
		ColumnExpr("?TableAlias.*").
		ColumnExpr("(SELECT COUNT(*) FROM resource_tags AS rt WHERE rt.tag_id = ?TableAlias.id) AS resource_count").
		Where("?TableAlias.project_id = ?", projectID).
		OrderExpr("?TableAlias.priority DESC, ?TableAlias.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("tag list failed: %w", err)
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
