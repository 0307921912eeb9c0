package projects

import (
	"errors"
	"fmt"
)

var (
	ErrSlugRequired   = errors.New("projects: slug is required")
	ErrSlugInvalid    = errors.New("projects: slug contains invalid characters")
	ErrSlugExists     = errors.New("projects: slug already exists")
	ErrNameRequired   = errors.New("projects: name is required")
	ErrUnknownLocale  = errors.New("projects: unknown locale")
	ErrProjectHidden  = errors.New("projects: project not visible")
	ErrLocaleRequired = errors.New("projects: locale code and name are required")
)

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

// SlugRedirectError is returned when a lookup hits a retired slug. Callers
// redirect to Slug.
type SlugRedirectError struct {
	OldSlug string
	Slug    string
}

func (e *SlugRedirectError) Error() string {
	return fmt.Sprintf("project %q moved to %q", e.OldSlug, e.Slug)
}

// IsNotFound reports whether err is a NotFoundError for any resource.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
