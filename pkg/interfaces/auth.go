package interfaces

import "context"

// AuthProvider resolves the identity behind a request context. An empty id
// with a nil error means the request is anonymous.
type AuthProvider interface {
	CurrentUserID(ctx context.Context) (string, error)
}
