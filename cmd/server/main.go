package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"Newsroom/internal/api/middleware"
	"Newsroom/internal/api/routes"
	"Newsroom/internal/auth"
	"Newsroom/internal/config"
	"Newsroom/internal/core/organizations"
	"Newsroom/internal/core/permissions"
	"Newsroom/internal/core/posts"
	"Newsroom/internal/core/users"
	"Newsroom/internal/db/migrations"
	postgresRepo "Newsroom/internal/db/postgres"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.LoadDotEnvs()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	config.ConfigureLogging(cfg.LogLevel, cfg.LogPretty)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	if err := migrations.Up(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Msg("Migrations completed successfully")

	// Initialize repositories and services
	userService := users.NewUserService(postgresRepo.NewUserRepository(db))
	orgService := organizations.NewOrganizationService(postgresRepo.NewOrganizationRepository(db))
	permissionService := permissions.NewPermissionService(postgresRepo.NewPermissionRepository(db))
	postService := posts.NewPostService(
		postgresRepo.NewPostRepository(db),
		postgresRepo.NewTransactor(db),
		permissionService,
		userService,
		orgService,
	)

	tokens, err := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token manager")
	}
	authMiddleware := middleware.NewAuthMiddleware(tokens, userService)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
	defer rateLimiter.Close()

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(routes.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(rateLimiter.Middleware)

	routes.RegisterNewsPostRoutes(r, postService, authMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Newsroom API starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
