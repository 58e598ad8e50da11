package transport

import (
	"context"
	"net/http"
	"strings"

	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/model"
)

type identityKey struct{}

// IdentityResolver resolves the acting identity from a bearer token.
type IdentityResolver interface {
	Parse(token string) (*model.Identity, error)
}

// WithIdentity returns a context carrying the acting identity.
func WithIdentity(ctx context.Context, id *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the acting identity, or nil when the request is
// anonymous.
func IdentityFromContext(ctx context.Context) *model.Identity {
	id, _ := ctx.Value(identityKey{}).(*model.Identity)
	return id
}

// AuthMiddleware resolves bearer tokens. Requests without a token pass through
// anonymously and the authorization rules decide; a token that does not parse
// is rejected outright.
func AuthMiddleware(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := resolver.Parse(token)
			if err != nil || id == nil {
				writeError(w, apperr.New(apperr.KindUnauthorized, "Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
