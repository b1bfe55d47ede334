package auth

import (
	"context"
	"net/http"

	"github.com/Adams521/everything-gift/internal/models"
	"github.com/Adams521/everything-gift/internal/session"
)

type contextKey struct{}

// Middleware reads the persisted identity on every page load and makes it
// available to rendering. It never rejects a request: the token is not
// verified here, a stale one only shows up when the backend refuses it.
type Middleware struct {
	store session.Store
}

func NewMiddleware(store session.Store) *Middleware {
	return &Middleware{store: store}
}

func (m *Middleware) LoadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := m.store.Read(r); ok {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFrom returns the identity attached by LoadIdentity, if any.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(models.Identity)
	return id, ok
}
