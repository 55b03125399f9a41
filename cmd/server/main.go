package main

import (
	"context"
	"errors"
	"fmt"
	"go-blog-app/internal/auth"
	"go-blog-app/internal/cache"
	"go-blog-app/internal/config"
	"go-blog-app/internal/data"
	"go-blog-app/internal/handler"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
	"go-blog-app/internal/session"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const cachePurgeInterval = 10 * time.Minute

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, nil)

	// --- Database Initialization and Migration ---
	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(cfg.DB); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	// --- Cache Initialization ---
	log.Info("Initializing SQLite cache...")
	responseCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer responseCache.Close()
	log.Info("Cache initialized.")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go purgeCache(ctx, responseCache, log)

	// --- Dependency Injection and Handler Initialization ---
	postRepository := data.NewSQLPostRepository(db)
	categoryRepository := data.NewCategoryRepository(db)
	postService := service.NewPostService(postRepository, categoryRepository, responseCache,
		service.WithRelatedLimit(cfg.Content.RelatedLimit),
		service.WithCacheTTL(time.Duration(cfg.Cache.TTLSeconds)*time.Second),
	)

	handlers := handler.Handlers{
		Posts:      handler.NewPostHandler(postService, log),
		Categories: handler.NewCategoryHandler(postService),
		SEO:        handler.NewSeoHandler(postService, cfg.Server.BaseURL),
	}

	// --- Authentication and Authorization Setup ---
	var (
		sessionManager  session.Manager
		authzMiddleware func(http.Handler) http.Handler
	)
	if cfg.Auth.Enabled {
		log.Info("Initializing authentication and authorization...")
		sm := session.New(db, cfg.DB.Driver, time.Duration(cfg.Session.Lifetime)*time.Hour, cfg.Server.TLS.Enabled)
		sessionManager = sm

		authenticator, err := auth.NewAuthenticator(&cfg.OIDC)
		if err != nil {
			log.Fatal(err, "Failed to initialize authenticator")
		}
		enforcer, err := auth.NewEnforcer(cfg.DB.Driver, cfg.DB.DSN, cfg.Auth.ModelPath)
		if err != nil {
			log.Fatal(err, "Failed to initialize enforcer")
		}
		auth.SeedDefaultPolicies(enforcer, cfg.Auth.Editors, log)

		handlers.Auth = handler.NewAuthHandler(authenticator, sm, log)
		authzMiddleware = middleware.Authorizer(enforcer, sm, log)
		log.Info("Auth components initialized and policies seeded.")
	} else {
		authzMiddleware = middleware.Open(log)
	}

	// --- Router Setup ---
	router := handler.NewRouter(handlers, log, sessionManager, authzMiddleware)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}

// purgeCache drops expired cache entries until ctx is cancelled.
func purgeCache(ctx context.Context, c *cache.Cache, log logger.Logger) {
	ticker := time.NewTicker(cachePurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := c.PurgeExpired(ctx)
			if err != nil {
				log.Error(err, "Failed to purge expired cache entries")
				continue
			}
			if n > 0 {
				log.Debug(fmt.Sprintf("Purged %d expired cache entries", n))
			}
		}
	}
}
