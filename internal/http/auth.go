package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-l10n/internal/users"
	"github.com/goliatone/go-l10n/pkg/interfaces"
)

// DefaultIdentityHeader carries the authenticated user's id or email when a
// fronting proxy handles authentication.
const DefaultIdentityHeader = "X-L10n-User"

type identityKey struct{}

// WithUserID stores the authenticated user's id or email on ctx.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, identityKey{}, strings.TrimSpace(id))
}

// UserIDFromContext returns the identity stored by WithUserID.
func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(identityKey{}).(string)
	return id
}

// ContextAuth resolves the identity stored by WithUserID or IdentityHeader.
type ContextAuth struct{}

var _ interfaces.AuthProvider = ContextAuth{}

func (ContextAuth) CurrentUserID(ctx context.Context) (string, error) {
	return UserIDFromContext(ctx), nil
}

// IdentityHeader copies the named request header into the request context.
func IdentityHeader(header string, next http.Handler) http.Handler {
	if strings.TrimSpace(header) == "" {
		header = DefaultIdentityHeader
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get(header)); id != "" {
			r = r.WithContext(WithUserID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// UserDirectory resolves accounts for the current identity.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*users.User, error)
	GetByEmail(ctx context.Context, email string) (*users.User, error)
}

// currentUser returns nil for anonymous requests and for identities that do
// not match an account.
func (api *API) currentUser(r *http.Request) (*users.User, error) {
	if api.auth == nil || api.users == nil {
		return nil, nil
	}
	id, err := api.auth.CurrentUserID(r.Context())
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var user *users.User
	if parsed, parseErr := uuid.Parse(id); parseErr == nil {
		user, err = api.users.GetByID(r.Context(), parsed)
	} else {
		user, err = api.users.GetByEmail(r.Context(), id)
	}
	if err != nil {
		if isUserNotFound(err) {
			api.logger.Warn("http.auth.unknown_user", "identity", id)
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
