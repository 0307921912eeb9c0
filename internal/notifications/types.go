package notifications

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Verbs recorded on notifications and activity records.
const (
	VerbMessage  = "notification.sent"
	VerbImported = "translations.imported"
)

// Notification is an in-app message addressed to one user.
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID              uuid.UUID      `bun:",pk,type:uuid"                                 json:"id"`
	RecipientID     uuid.UUID      `bun:"recipient_id,notnull,type:uuid"                json:"recipient_id"`
	ActorID         *uuid.UUID     `bun:"actor_id,type:uuid"                            json:"actor_id,omitempty"`
	Verb            string         `bun:"verb,notnull"                                  json:"verb"`
	TargetProjectID *uuid.UUID     `bun:"target_project_id,type:uuid"                   json:"target_project_id,omitempty"`
	Description     string         `bun:"description,notnull"                           json:"description"`
	Unread          bool           `bun:"unread,notnull"                                json:"unread"`
	Data            map[string]any `bun:"data,type:jsonb"                               json:"data,omitempty"`
	CreatedAt       time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
