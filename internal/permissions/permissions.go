package permissions

import (
	"context"
	"errors"
	"strings"
)

type Action string

const (
	ActionView      Action = "view"
	ActionTranslate Action = "translate"
	ActionManage    Action = "manage"
)

const (
	ResourceProjects     = "projects"
	ResourceTranslations = "translations"
)

const (
	ProjectsView          = "projects:view"
	ProjectsManage        = "projects:manage"
	TranslationsTranslate = "translations:translate"
)

var ErrPermissionDenied = errors.New("permissions: denied")

type Error struct {
	Permission string
}

func (e Error) Error() string {
	if strings.TrimSpace(e.Permission) == "" {
		return "permission denied"
	}
	return "permission denied: " + e.Permission
}

func (e Error) Unwrap() error {
	return ErrPermissionDenied
}

// Join builds a permission token from resource and action.
func Join(resource string, action Action) string {
	res := normalizeToken(resource)
	act := normalizeToken(string(action))
	if res == "" || act == "" {
		return ""
	}
	return res + ":" + act
}

type Checker interface {
	Allowed(permission string) bool
}

type CheckerFunc func(permission string) bool

func (fn CheckerFunc) Allowed(permission string) bool {
	return fn(permission)
}

// Set is a static permission list. "resource:*" and "*" act as wildcards.
type Set map[string]struct{}

func NewSet(perms ...string) Set {
	set := Set{}
	for _, perm := range perms {
		normalized := normalizePermission(perm)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return set
}

func (s Set) Allowed(permission string) bool {
	if len(s) == 0 {
		return false
	}
	normalized := normalizePermission(permission)
	if normalized == "" {
		return false
	}
	if _, ok := s[normalized]; ok {
		return true
	}
	resource, _ := splitPermission(normalized)
	if resource != "" {
		if _, ok := s[resource+":*"]; ok {
			return true
		}
	}
	if _, ok := s["*"]; ok {
		return true
	}
	return false
}

type contextKey string

const checkerKey contextKey = "l10n.permissions.checker"

// WithChecker stores a permission checker on the context. Checkers on the
// context grant permissions on top of stored grants; trusted operators run
// with WithPermissions(ctx, "*").
func WithChecker(ctx context.Context, checker Checker) context.Context {
	if ctx == nil || checker == nil {
		return ctx
	}
	return context.WithValue(ctx, checkerKey, checker)
}

// WithPermissions stores a static permission set on the context.
func WithPermissions(ctx context.Context, perms ...string) context.Context {
	if ctx == nil || len(perms) == 0 {
		return ctx
	}
	return WithChecker(ctx, NewSet(perms...))
}

// CheckerFromContext returns the configured permission checker if available.
func CheckerFromContext(ctx context.Context) Checker {
	if ctx == nil {
		return nil
	}
	checker, _ := ctx.Value(checkerKey).(Checker)
	return checker
}

// ContextAllows reports whether a checker on the context grants permission.
// A missing checker grants nothing.
func ContextAllows(ctx context.Context, permission string) bool {
	checker := CheckerFromContext(ctx)
	if checker == nil {
		return false
	}
	normalized := normalizePermission(permission)
	if normalized == "" {
		return false
	}
	return checker.Allowed(normalized)
}

func splitPermission(permission string) (string, Action) {
	normalized := normalizePermission(permission)
	if normalized == "" {
		return "", ""
	}
	parts := strings.SplitN(normalized, ":", 2)
	resource := normalizeToken(parts[0])
	if len(parts) == 1 {
		return resource, ""
	}
	return resource, Action(normalizeToken(parts[1]))
}

func normalizePermission(permission string) string {
	trimmed := strings.TrimSpace(permission)
	if trimmed == "" {
		return ""
	}
	return strings.ToLower(trimmed)
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
