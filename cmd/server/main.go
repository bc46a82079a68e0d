package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"passage/internal/adapters/api"
	"passage/internal/adapters/api/middleware"
	"passage/internal/adapters/db/memory"
	pgrepo "passage/internal/adapters/db/postgres"
	appauth "passage/internal/application/auth"
	"passage/internal/config"
	domainauth "passage/internal/domain/auth"
	"passage/internal/infrastructure/google"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg := config.LoadConfig()

	log.Info().
		Str("http_port", cfg.HTTPPort).
		Str("base_url", cfg.BaseURL).
		Str("client_url", cfg.ClientURL).
		Bool("production", cfg.IsProduction()).
		Msg("Starting passage server")

	if cfg.Google.ClientID == "" || cfg.Google.ClientSecret == "" {
		log.Fatal().Msg("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
	}
	if cfg.Session.Secret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	// Initialize the user repository (Postgres or in-memory)
	var userRepo domainauth.Repository
	if cfg.Database.Enabled {
		log.Info().Str("dsn", cfg.Database.DSN).Msg("Initializing Postgres repository")
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("open postgres")
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("ping postgres")
		}
		if err := pgrepo.RunMigrations(ctx, db, cfg.Database.Migrations); err != nil {
			log.Fatal().Err(err).Msg("run migrations")
		}
		userRepo = pgrepo.NewUserRepository(db)
	} else {
		log.Warn().Msg("DB disabled - using in-memory user repository")
		userRepo = memory.NewUserRepository()
	}

	// The OAuth client configuration is built once at startup and passed
	// into the handshake service explicitly.
	provider, err := google.NewProvider(context.Background(), &cfg.Google)
	if err != nil {
		log.Fatal().Err(err).Msg("init Google provider")
	}

	codec := appauth.NewTokenCodec(cfg.Session.Secret)
	authService := appauth.NewService(provider, userRepo, codec)

	// Initialize API handler
	handler := api.NewHandler(authService, cfg)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// The frontend sends the session cookie cross-origin, so CORS must
	// name the origin and allow credentials.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Register routes with the session guard
	handler.RegisterRoutes(r, middleware.RequireUser(authService))

	// Start server
	log.Info().Msgf("Server running at %s", cfg.BaseURL)
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
