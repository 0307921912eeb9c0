package projects

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ProjectRepository persists projects, their slug history and locale links.
type ProjectRepository interface {
	Create(ctx context.Context, record *Project) (*Project, error)
	Update(ctx context.Context, record *Project) (*Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	GetBySlug(ctx context.Context, slug string) (*Project, error)
	GetByName(ctx context.Context, name string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	AddSlugHistory(ctx context.Context, record *ProjectSlugHistory) error
	GetBySlugHistory(ctx context.Context, oldSlug string) (*Project, error)
	AddLocale(ctx context.Context, projectID, localeID uuid.UUID) error
	ListLocales(ctx context.Context, projectID uuid.UUID) ([]*Locale, error)
}

// LocaleRepository persists locales.
type LocaleRepository interface {
	Create(ctx context.Context, record *Locale) (*Locale, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Locale, error)
	GetByCode(ctx context.Context, code string) (*Locale, error)
	GetByName(ctx context.Context, name string) (*Locale, error)
	List(ctx context.Context) ([]*Locale, error)
}

// TagRepository persists tags and their resource links.
type TagRepository interface {
	Create(ctx context.Context, record *Tag) (*Tag, error)
	AttachResource(ctx context.Context, tagID, resourceID uuid.UUID) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Tag, error)
}

func NewProjectRepository(db *bun.DB) repository.Repository[*Project] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Project]{
		NewRecord: func() *Project { return &Project{} },
		GetID: func(p *Project) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Project, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Project) string {
			return p.Slug
		},
	})
}

func NewSlugHistoryRepository(db *bun.DB) repository.Repository[*ProjectSlugHistory] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ProjectSlugHistory]{
		NewRecord: func() *ProjectSlugHistory { return &ProjectSlugHistory{} },
		GetID: func(h *ProjectSlugHistory) uuid.UUID {
			return h.ID
		},
		SetID: func(h *ProjectSlugHistory, id uuid.UUID) {
			h.ID = id
		},
		GetIdentifier: func() string {
			return "old_slug"
		},
		GetIdentifierValue: func(h *ProjectSlugHistory) string {
			return h.OldSlug
		},
	})
}

func NewLocaleRepository(db *bun.DB) repository.Repository[*Locale] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Locale]{
		NewRecord: func() *Locale { return &Locale{} },
		GetID: func(l *Locale) uuid.UUID {
			return l.ID
		},
		SetID: func(l *Locale, id uuid.UUID) {
			l.ID = id
		},
		GetIdentifier: func() string {
			return "code"
		},
		GetIdentifierValue: func(l *Locale) string {
			return l.Code
		},
	})
}

func NewTagRepository(db *bun.DB) repository.Repository[*Tag] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Tag]{
		NewRecord: func() *Tag { return &Tag{} },
		GetID: func(t *Tag) uuid.UUID {
			return t.ID
		},
		SetID: func(t *Tag, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(t *Tag) string {
			return t.Slug
		},
	})
}
