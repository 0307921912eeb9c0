package translations

import (
	"context"
	"fmt"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ResourceRepository persists resources.
type ResourceRepository interface {
	Create(ctx context.Context, record *Resource) (*Resource, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Resource, error)
	GetByPath(ctx context.Context, projectID uuid.UUID, path string) (*Resource, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Resource, error)
}

// EntityRepository persists source strings.
type EntityRepository interface {
	Create(ctx context.Context, record *Entity) (*Entity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Entity, error)
	// GetByKey returns the first entity of the resource whose key matches any
	// of the candidates.
	GetByKey(ctx context.Context, resourceID uuid.UUID, keys ...string) (*Entity, error)
	// ListByProject returns non-obsolete entities ordered by resource path,
	// then order, then key.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Entity, error)
}

// TranslationRepository persists translations. Translations are never
// deleted.
type TranslationRepository interface {
	// Create inserts an inactive translation.
	Create(ctx context.Context, record *Translation) (*Translation, error)
	// Activate inserts record as the active translation for its entity and
	// locale, deactivating the previous one atomically.
	Activate(ctx context.Context, record *Translation) (*Translation, error)
	ListFor(ctx context.Context, entityID, localeID uuid.UUID) ([]*Translation, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Translation, error)
	ListActiveByProject(ctx context.Context, projectID uuid.UUID) ([]*Translation, error)
}

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func NewResourceRepository(db *bun.DB) repository.Repository[*Resource] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Resource]{
		NewRecord: func() *Resource { return &Resource{} },
		GetID: func(r *Resource) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Resource, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "path"
		},
		GetIdentifierValue: func(r *Resource) string {
			return r.Path
		},
	})
}

func NewEntityRepository(db *bun.DB) repository.Repository[*Entity] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Entity]{
		NewRecord: func() *Entity { return &Entity{} },
		GetID: func(e *Entity) uuid.UUID {
			return e.ID
		},
		SetID: func(e *Entity, id uuid.UUID) {
			e.ID = id
		},
		GetIdentifier: func() string {
			return "key"
		},
		GetIdentifierValue: func(e *Entity) string {
			return e.Key
		},
	})
}

func NewTranslationRepository(db *bun.DB) repository.Repository[*Translation] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Translation]{
		NewRecord: func() *Translation { return &Translation{} },
		GetID: func(t *Translation) uuid.UUID {
			return t.ID
		},
		SetID: func(t *Translation, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(t *Translation) string {
			return t.ID.String()
		},
	})
}
