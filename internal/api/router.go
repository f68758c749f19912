package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aprendia/learning-assistant/internal/api/handler"
	customMiddleware "github.com/aprendia/learning-assistant/internal/api/middleware"
	"github.com/aprendia/learning-assistant/internal/config"
	"github.com/aprendia/learning-assistant/internal/llm"
	"github.com/aprendia/learning-assistant/internal/repository/redis"
	"github.com/aprendia/learning-assistant/internal/service"
)

// NewRouter creates and configures the HTTP router. rateLimiter may be nil
// when no Redis backend is configured.
func NewRouter(cfg *config.Config, sessions *service.SessionService, assistant *service.AssistantService, registry *llm.Registry, rateLimiter *redis.RateLimiter) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	sessionHandler := handler.NewSessionHandler(sessions)
	askHandler := handler.NewAskHandler(assistant)

	r.Route("/api/v1", func(r chi.Router) {
		// Plain JSON routes run under a request deadline
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

			r.Get("/health", handler.HealthCheck(cfg, registry))

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", sessionHandler.Create)
				r.Get("/{sessionID}/history", sessionHandler.GetHistory)
				r.Delete("/{sessionID}", sessionHandler.Delete)
			})
		})

		// The streaming route is exempt from the deadline, a turn runs as
		// long as the model keeps producing
		r.Group(func(r chi.Router) {
			if rateLimiter != nil {
				r.Use(customMiddleware.NewRateLimitMiddleware(rateLimiter).Limit)
			}
			r.Post("/ask", askHandler.Ask)
		})
	})

	return r
}
