package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aprendia/learning-assistant/internal/api"
	"github.com/aprendia/learning-assistant/internal/config"
	"github.com/aprendia/learning-assistant/internal/domain"
	"github.com/aprendia/learning-assistant/internal/extract"
	"github.com/aprendia/learning-assistant/internal/llm"
	"github.com/aprendia/learning-assistant/internal/llm/gemini"
	"github.com/aprendia/learning-assistant/internal/repository/memory"
	"github.com/aprendia/learning-assistant/internal/repository/mongo"
	"github.com/aprendia/learning-assistant/internal/repository/redis"
	"github.com/aprendia/learning-assistant/internal/service"
	"github.com/aprendia/learning-assistant/internal/sweeper"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !cfg.App.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Info().
		Str("environment", cfg.App.Environment).
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting learning assistant API server")

	// Initialize session storage
	var (
		store       domain.SessionStore
		redisClient *redis.Client
		rateLimiter *redis.RateLimiter
	)

	switch cfg.Storage.Backend {
	case "redis":
		redisClient, err = redis.NewClient(cfg.Storage.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()

		store = redis.NewSessionStore(redisClient)
		rateLimiter = redis.NewRateLimiter(
			redisClient,
			cfg.LLM.RateLimit.RequestsPerMinute,
			cfg.LLM.RateLimit.Burst,
		)
		log.Info().Str("addr", cfg.Storage.Redis.Addr()).Msg("Using Redis session storage")
	case "mongo":
		mongoStore, err := mongo.NewSessionStore(context.Background(), cfg.Storage.Mongo)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer mongoStore.Close(context.Background())

		store = mongoStore
		log.Info().Str("database", cfg.Storage.Mongo.Database).Msg("Using MongoDB session storage")
	default:
		store = memory.NewStore()
		log.Info().Msg("Using in-memory session storage")
	}

	// Register LLM providers
	registry := llm.NewRegistry(cfg.LLM.Provider)
	if cfg.LLM.Gemini.APIKey != "" {
		registry.Register(gemini.NewProvider(cfg.LLM.Gemini))
		log.Info().Str("model", cfg.LLM.Gemini.Model).Msg("Registered Gemini provider")
	} else {
		log.Warn().Msg("Gemini API key is empty, skipping registration")
	}

	// Initialize services
	sessions := service.NewSessionService(store)
	assistant := service.NewAssistantService(sessions, registry, extract.NewDocumentExtractor())

	// Start background session sweeper
	sw := sweeper.New(sessions, cfg.Session.Timeout(), cfg.Session.SweepInterval)
	sw.Start(context.Background())
	defer sw.Stop()

	// Initialize router
	router := api.NewRouter(cfg, sessions, assistant, registry, rateLimiter)

	// Create HTTP server. WriteTimeout stays at zero so long-lived event
	// streams are not cut off mid-answer.
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
