package web

import (
	"context"
	"net/http"
)

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// pageKey is the context key for the per-request PageDeps.
const pageKey ctxKey = 0

// NewContext returns a context carrying the given PageDeps.
func NewContext(ctx context.Context, p *PageDeps) context.Context {
	return context.WithValue(ctx, pageKey, p)
}

// FromContext retrieves the PageDeps attached to ctx, if any.
func FromContext(ctx context.Context) (*PageDeps, bool) {
	p, ok := ctx.Value(pageKey).(*PageDeps)
	return p, ok
}

// FromRequest retrieves the PageDeps attached to the request context.
func FromRequest(r *http.Request) (*PageDeps, bool) {
	return FromContext(r.Context())
}

// Middleware attaches a fresh PageDeps to every request context, the Go
// equivalent of a new-request subscriber. Handlers and template helpers
// retrieve it with [FromRequest], require what they need, and the layout
// renders the outputs once.
func Middleware(factory Factory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := NewContext(r.Context(), factory())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
