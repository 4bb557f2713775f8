package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/minhle/user-admin-api/internal/authz"
	"github.com/minhle/user-admin-api/internal/domain"
)

// RequireRoles rejects authenticated callers whose role is not in the allowed
// set. An empty set allows any authenticated caller. Must run after
// Authenticate.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if len(roles) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Printf("ERROR [middleware.RequireRoles] role %s not allowed", user.Role)
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

// RequirePermissions rejects callers whose role does not hold every listed
// permission. Requirements are declared per route at registration time; there
// is no reflection or metadata scanning. Must run after Authenticate.
func RequirePermissions(resolver *authz.Resolver, permissions ...domain.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			allowed, err := resolver.HasAll(r.Context(), user.Role, permissions)
			if err != nil {
				log.Printf("ERROR [middleware.RequirePermissions] permission resolution failed: %v", err)
				if errors.Is(err, domain.ErrStoreUnavailable) {
					http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
					return
				}
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				log.Printf("ERROR [middleware.RequirePermissions] role %s missing required permissions %v", user.Role, permissions)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
