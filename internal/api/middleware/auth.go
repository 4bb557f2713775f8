package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/minhle/user-admin-api/internal/domain"
	"github.com/minhle/user-admin-api/internal/session"
	"github.com/minhle/user-admin-api/internal/token"
)

// Cookie names for the two token transports.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

type contextKey string

const (
	authUserKey   contextKey = "authUser"
	refreshCtxKey contextKey = "refreshContext"
)

// AuthUser is the authenticated identity attached to the request context by
// the access guard. Role comes from the live session record, not the token.
type AuthUser struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
	SessionID uuid.UUID
	Role      domain.Role
}

// RefreshContext carries the verified refresh claims plus the raw presented
// token, which the refresh flow must hash-match against the stored record.
type RefreshContext struct {
	Claims       *token.Claims
	RefreshToken string
}

// Authenticate verifies the access token and requires a live session whose
// userId matches the token's subject. Signature validity alone is not enough:
// a deleted or expired session record rejects the request, which is what makes
// logout instant.
func Authenticate(tokens *token.Issuer, sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := extractToken(r, AccessTokenCookie)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Verify(raw, token.TypeAccess)
			if err != nil {
				log.Printf("ERROR [middleware.Authenticate] token verification failed: %v", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			sid, err := claims.Session()
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			userID, err := claims.UserID()
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			rec, err := sessions.Get(r.Context(), sid)
			if err != nil {
				log.Printf("ERROR [middleware.Authenticate] session lookup failed: %v", err)
				if errors.Is(err, domain.ErrStoreUnavailable) {
					http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
					return
				}
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if rec == nil || rec.UserID != userID {
				log.Printf("ERROR [middleware.Authenticate] no live session for sid %s", sid)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			authUser := &AuthUser{
				UserID:    rec.UserID,
				AccountID: rec.AccountID,
				SessionID: sid,
				Role:      rec.Role,
			}

			ctx := context.WithValue(r.Context(), authUserKey, authUser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthenticateRefresh verifies a refresh-typed token from the refresh
// transport (cookie or bearer). Session and hash validation happen in the
// refresh flow itself so that the guard stays free of rotation logic.
func AuthenticateRefresh(tokens *token.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := extractToken(r, RefreshTokenCookie)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Verify(raw, token.TypeRefresh)
			if err != nil {
				log.Printf("ERROR [middleware.AuthenticateRefresh] token verification failed: %v", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), refreshCtxKey, &RefreshContext{
				Claims:       claims,
				RefreshToken: raw,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the identity stored by Authenticate.
func CurrentUser(ctx context.Context) (*AuthUser, bool) {
	user, ok := ctx.Value(authUserKey).(*AuthUser)
	return user, ok
}

// CurrentRefresh returns the refresh context stored by AuthenticateRefresh.
func CurrentRefresh(ctx context.Context) (*RefreshContext, bool) {
	rc, ok := ctx.Value(refreshCtxKey).(*RefreshContext)
	return rc, ok
}

// extractToken reads the named cookie first and falls back to a bearer header.
func extractToken(r *http.Request, cookieName string) (string, bool) {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
		return parts[1], true
	}

	return "", false
}
