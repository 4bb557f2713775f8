package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minhle/user-admin-api/internal/api"
	"github.com/minhle/user-admin-api/internal/authz"
	"github.com/minhle/user-admin-api/internal/cache"
	"github.com/minhle/user-admin-api/internal/config"
	"github.com/minhle/user-admin-api/internal/repository/postgres"
	"github.com/minhle/user-admin-api/internal/service"
	"github.com/minhle/user-admin-api/internal/session"
	"github.com/minhle/user-admin-api/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize Redis
	rdb, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	// Initialize repositories and auth components
	repos := postgres.NewRepositories(db)
	sessions := session.NewStore(rdb)
	resolver := authz.NewResolver(rdb, cfg.PermissionCacheTTL)
	tokens := token.NewIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.TokenExpiry)

	// Initialize services
	services := service.NewServices(repos, sessions, tokens, cfg)

	// Initialize router
	router := api.NewRouter(services, tokens, sessions, resolver, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	if err := rdb.Close(); err != nil {
		log.Printf("failed to close redis client: %v", err)
	}

	log.Println("Server stopped")
}
