package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is an account that submits, reviews or imports translations.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID          uuid.UUID `bun:",pk,type:uuid"                                json:"id"`
	Email       string    `bun:"email,notnull,unique"                         json:"email"`
	Name        string    `bun:"name,notnull"                                 json:"name"`
	IsSuperuser bool      `bun:"is_superuser,notnull"                         json:"is_superuser"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// DisplayName falls back to the email when no name is set.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
