package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/minhle/user-admin-api/internal/api/handlers"
	"github.com/minhle/user-admin-api/internal/api/middleware"
	"github.com/minhle/user-admin-api/internal/authz"
	"github.com/minhle/user-admin-api/internal/config"
	"github.com/minhle/user-admin-api/internal/domain"
	"github.com/minhle/user-admin-api/internal/service"
	"github.com/minhle/user-admin-api/internal/session"
	"github.com/minhle/user-admin-api/internal/token"
)

func NewRouter(
	services *service.Services,
	tokens *token.Issuer,
	sessions *session.Store,
	resolver *authz.Resolver,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	userHandler := handlers.NewUserHandler(services.User)

	authenticate := middleware.Authenticate(tokens, sessions)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Public auth routes
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// The refresh endpoint is the only consumer of the refresh guard.
			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthenticateRefresh(tokens))
				r.Post("/refresh", authHandler.Refresh)
			})

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// User administration. Each route declares its permission requirement
		// explicitly at registration time.
		r.Route("/users", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRoles(domain.RoleAdmin))

			r.With(middleware.RequirePermissions(resolver, domain.PermissionUserCreate)).
				Post("/", userHandler.Create)
			r.With(middleware.RequirePermissions(resolver, domain.PermissionUserRead)).
				Get("/", userHandler.List)
			r.With(middleware.RequirePermissions(resolver, domain.PermissionUserRead)).
				Get("/{id}", userHandler.Get)
			r.With(middleware.RequirePermissions(resolver, domain.PermissionUserUpdate)).
				Patch("/{id}", userHandler.Update)
			r.With(middleware.RequirePermissions(resolver, domain.PermissionUserDelete)).
				Delete("/{id}", userHandler.Delete)
		})
	})

	return r
}
