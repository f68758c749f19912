package handler

import (
	"net/http"

	"github.com/aprendia/learning-assistant/internal/api/response"
	"github.com/aprendia/learning-assistant/internal/config"
	"github.com/aprendia/learning-assistant/internal/llm"
)

// HealthCheck reports service identity, environment and the configured
// completion providers
func HealthCheck(cfg *config.Config, registry *llm.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]any{
			"status":           "ok",
			"version":          cfg.App.Version,
			"environment":      cfg.App.Environment,
			"providers":        registry.List(),
			"default_provider": registry.DefaultProvider(),
		})
	}
}
