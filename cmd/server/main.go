package main

import (
	"alcyxob/fitcoach/internal/api"
	"alcyxob/fitcoach/internal/authz"
	"alcyxob/fitcoach/internal/config"
	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/repository/memory"
	"alcyxob/fitcoach/internal/repository/mongo"
	"alcyxob/fitcoach/internal/seed"
	"alcyxob/fitcoach/internal/service"
	"alcyxob/fitcoach/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Fitness Coaching API
// @version 1.0
// @description Consent-gated access for trainers to their clients' workout data.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	setupLogging(cfg.Log)
	log.Info().Str("driver", cfg.Database.Driver).Msg("configuration loaded")

	// Guard, services and fixtures share one clock.
	clock := service.Clock(service.SystemClock)

	// --- Repositories ---
	store, closeStore := openStore(cfg.Database)
	defer closeStore()

	if cfg.Seed.Fixtures != "" {
		fx, err := seed.Load(cfg.Seed.Fixtures)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load fixtures")
		}
		if err := seed.Apply(context.Background(), store, fx, clock()); err != nil {
			log.Fatal().Err(err).Msg("could not apply fixtures")
		}
	}

	// --- Storage ---
	fileStorage := storage.Disabled()
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize S3 storage")
		}
	} else {
		log.Warn().Msg("S3 is not configured; media uploads are disabled")
	}

	// --- Services ---
	guard := authz.NewConsentGuard(store.Consents).WithClock(clock)
	authService := service.NewAuthService(store.Users, cfg.JWT.Secret, cfg.JWT.Expiration)
	consentService := service.NewConsentService(store.Consents, store.Users, clock)
	coachService := service.NewCoachService(guard, store, fileStorage, clock)
	clientService := service.NewClientService(store, fileStorage, clock)
	exerciseService := service.NewExerciseService(store.Exercises, clock)
	adminService := service.NewAdminService(store.Users, store.Memberships, clock)

	// --- Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger())
	api.SetupRoutes(router, authService, consentService, coachService, clientService, exerciseService, adminService)

	// CORS wraps the engine so pre-flight requests never reach auth.
	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Address).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server stopped")
}

func setupLogging(cfg config.LogConfig) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// openStore returns the configured repositories and a func releasing them.
func openStore(cfg config.DatabaseConfig) (*repository.Store, func()) {
	if cfg.Driver == config.DriverMemory {
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return memory.NewStore(), func() {}
	}

	dbClient, err := mongo.ConnectDB(cfg.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to MongoDB")
	}
	db := dbClient.Database(cfg.Name)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("could not create indexes")
	}
	log.Info().Str("database", cfg.Name).Msg("database connection established")

	return mongo.NewStore(db), func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error().Err(err).Msg("failed to disconnect MongoDB")
		}
	}
}
