package translations

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-l10n/internal/domain"
)

// Resource is a translatable file inside a project.
type Resource struct {
	bun.BaseModel `bun:"table:resources,alias:r"`

	ID        uuid.UUID     `bun:",pk,type:uuid"                                 json:"id"`
	ProjectID uuid.UUID     `bun:"project_id,notnull,type:uuid"                  json:"project_id"`
	Path      string        `bun:"path,notnull"                                  json:"path"`
	Format    domain.Format `bun:"format,notnull"                                json:"format"`
	CreatedAt time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Entity is a single source string inside a resource.
type Entity struct {
	bun.BaseModel `bun:"table:entities,alias:e"`

	ID         uuid.UUID `bun:",pk,type:uuid"                                 json:"id"`
	ResourceID uuid.UUID `bun:"resource_id,notnull,type:uuid"                 json:"resource_id"`
	Key        string    `bun:"key,notnull"                                   json:"key"`
	String     string    `bun:"string,notnull"                                json:"string"`
	Obsolete   bool      `bun:"obsolete,notnull"                              json:"obsolete"`
	Order      int       `bun:"sort_order,notnull"                            json:"order"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Translation is one submitted string for an entity in a locale.
type Translation struct {
	bun.BaseModel `bun:"table:translations,alias:t"`

	ID             uuid.UUID  `bun:",pk,type:uuid"                    json:"id"`
	EntityID       uuid.UUID  `bun:"entity_id,notnull,type:uuid"      json:"entity_id"`
	LocaleID       uuid.UUID  `bun:"locale_id,notnull,type:uuid"      json:"locale_id"`
	UserID         *uuid.UUID `bun:"user_id,type:uuid"                json:"user_id,omitempty"`
	String         string     `bun:"string,notnull"                   json:"string"`
	Date           time.Time  `bun:"date,notnull"                     json:"date"`
	Active         bool       `bun:"active,notnull"                   json:"active"`
	Approved       bool       `bun:"approved,notnull"                 json:"approved"`
	ApprovedUserID *uuid.UUID `bun:"approved_user_id,type:uuid"       json:"approved_user_id,omitempty"`
	ApprovedDate   *time.Time `bun:"approved_date,nullzero"           json:"approved_date,omitempty"`
	Rejected       bool       `bun:"rejected,notnull"                 json:"rejected"`
	RejectedUserID *uuid.UUID `bun:"rejected_user_id,type:uuid"       json:"rejected_user_id,omitempty"`
	RejectedDate   *time.Time `bun:"rejected_date,nullzero"           json:"rejected_date,omitempty"`
	Pretranslated  bool       `bun:"pretranslated,notnull"            json:"pretranslated"`
	Fuzzy          bool       `bun:"fuzzy,notnull"                    json:"fuzzy"`
}

// Mark returns the placeholder exported for an active translation that is
// not approved. Approved translations export their string instead.
func (t *Translation) Mark() domain.Mark {
	switch {
	case t.Pretranslated:
		return domain.MarkPretranslated
	case t.Rejected:
		return domain.MarkRejected
	case t.Fuzzy:
		return domain.MarkFuzzy
	default:
		return domain.MarkUnreviewed
	}
}
