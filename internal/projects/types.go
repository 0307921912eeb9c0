package projects

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-l10n/internal/domain"
)

// Project groups the resources translated into a set of locales.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID            uuid.UUID         `bun:",pk,type:uuid"                                 json:"id"`
	Slug          string            `bun:"slug,notnull,unique"                           json:"slug"`
	Name          string            `bun:"name,notnull"                                  json:"name"`
	Info          string            `bun:"info,notnull"                                  json:"info"`
	Visibility    domain.Visibility `bun:"visibility,notnull"                            json:"visibility"`
	Disabled      bool              `bun:"disabled,notnull"                              json:"disabled"`
	SystemProject bool              `bun:"system_project,notnull"                        json:"system_project"`
	TagsEnabled   bool              `bun:"tags_enabled,notnull"                          json:"tags_enabled"`
	CreatedAt     time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time         `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// IsPublic reports whether anonymous users may see the project.
func (p *Project) IsPublic() bool {
	return p != nil && p.Visibility != domain.VisibilityPrivate
}

// ProjectSlugHistory remembers previous slugs so old URLs keep resolving.
type ProjectSlugHistory struct {
	bun.BaseModel `bun:"table:project_slug_history,alias:psh"`

	ID        uuid.UUID `bun:",pk,type:uuid"                                 json:"id"`
	ProjectID uuid.UUID `bun:"project_id,notnull,type:uuid"                  json:"project_id"`
	OldSlug   string    `bun:"old_slug,notnull,unique"                       json:"old_slug"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Locale is a target language.
type Locale struct {
	bun.BaseModel `bun:"table:locales,alias:l"`

	ID        uuid.UUID `bun:",pk,type:uuid"                                 json:"id"`
	Code      string    `bun:"code,notnull,unique"                           json:"code"`
	Name      string    `bun:"name,notnull"                                  json:"name"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// ProjectLocale associates a locale with a project.
type ProjectLocale struct {
	bun.BaseModel `bun:"table:project_locales,alias:pl"`

	ID        uuid.UUID `bun:",pk,type:uuid"                json:"id"`
	ProjectID uuid.UUID `bun:"project_id,notnull,type:uuid" json:"project_id"`
	LocaleID  uuid.UUID `bun:"locale_id,notnull,type:uuid"  json:"locale_id"`
}

// Tag labels a subset of a project's resources.
type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:tg"`

	ID        uuid.UUID `bun:",pk,type:uuid"                json:"id"`
	ProjectID uuid.UUID `bun:"project_id,notnull,type:uuid" json:"project_id"`
	Slug      string    `bun:"slug,notnull"                 json:"slug"`
	Name      string    `bun:"name,notnull"                 json:"name"`
	Priority  int       `bun:"priority,notnull"             json:"priority"`

	ResourceCount int `bun:"resource_count,scanonly" json:"resource_count"`
}

// ResourceTag attaches a tag to a resource.
type ResourceTag struct {
	bun.BaseModel `bun:"table:resource_tags,alias:rt"`

	TagID      uuid.UUID `bun:"tag_id,pk,type:uuid"      json:"tag_id"`
	ResourceID uuid.UUID `bun:"resource_id,pk,type:uuid" json:"resource_id"`
}
