package handlers

import (
	"net/http"

	"github.com/minhle/user-admin-api/internal/api/middleware"
	"github.com/minhle/user-admin-api/internal/config"
	"github.com/minhle/user-admin-api/internal/token"
)

// setAuthCookies delivers both tokens as same-site, HTTP-only cookies. The
// Secure flag follows the environment so local development over plain HTTP
// still works.
func setAuthCookies(w http.ResponseWriter, cfg *config.Config, pair *token.Pair) {
	http.SetCookie(w, authCookie(cfg, middleware.AccessTokenCookie, pair.AccessToken, int(cfg.TokenExpiry.Seconds())))
	http.SetCookie(w, authCookie(cfg, middleware.RefreshTokenCookie, pair.RefreshToken, int(cfg.TokenExpiry.Seconds())))
}

func clearAuthCookies(w http.ResponseWriter, cfg *config.Config) {
	http.SetCookie(w, authCookie(cfg, middleware.AccessTokenCookie, "", -1))
	http.SetCookie(w, authCookie(cfg, middleware.RefreshTokenCookie, "", -1))
}

func authCookie(cfg *config.Config, name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
}
