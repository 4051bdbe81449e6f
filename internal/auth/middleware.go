package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/ridgecrew/trainhub/internal/apperr"
	"github.com/ridgecrew/trainhub/internal/authz"
	"github.com/ridgecrew/trainhub/internal/identity"
)

type principalKey struct{}

func WithPrincipal(ctx context.Context, p identity.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the authenticated principal, or nil when the
// request is unauthenticated.
func PrincipalFromContext(ctx context.Context) *identity.Principal {
	if p, ok := ctx.Value(principalKey{}).(identity.Principal); ok {
		return &p
	}
	return nil
}

// JWTMiddleware verifies the bearer token and puts the subject and claimed
// role into the context.
func JWTMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			claims, err := a.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			ctx := authz.WithSubject(r.Context(), claims.Sub)
			ctx = authz.WithRole(ctx, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AttachPrincipal resolves the token subject against the local user store
// and overrides the claimed role with the stored one, which is
// authoritative. With allowClaimFallback (dev/offline), a subject missing
// from the store is synthesized from the claims instead of rejected.
func AttachPrincipal(store identity.Store, allowClaimFallback bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sub := authz.SubjectFromContext(ctx)
			p, err := store.Get(ctx, sub)
			switch {
			case err == nil:
				ctx = WithPrincipal(ctx, p)
				ctx = authz.WithRole(ctx, p.Role)
			case apperr.IsNotFound(err) && allowClaimFallback:
				p = identity.Principal{ID: sub, Role: authz.RoleFromContext(ctx)}
				ctx = WithPrincipal(ctx, p)
			default:
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
