package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "learning-assistant",
			Version:     "0.1.0",
			Environment: "development",
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Workers: 1,
		},
		Session: SessionConfig{
			TimeoutHours:  24,
			SweepInterval: time.Hour,
		},
		Storage: StorageConfig{Backend: "memory"},
		LLM: LLMConfig{
			Provider: "gemini",
			Gemini:   GeminiConfig{APIKey: "test-key"},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("bad environment", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Environment = "prod"
		assert.Error(t, cfg.Validate())
	})

	t.Run("port bounds", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Port = 0
		assert.Error(t, cfg.Validate())

		cfg.Server.Port = 70000
		assert.Error(t, cfg.Validate())
	})

	t.Run("worker bounds", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Workers = 0
		assert.Error(t, cfg.Validate())

		cfg.Server.Workers = 9
		assert.Error(t, cfg.Validate())
	})

	t.Run("session timeout bounds", func(t *testing.T) {
		cfg := validConfig()
		cfg.Session.TimeoutHours = 0
		assert.Error(t, cfg.Validate())

		cfg.Session.TimeoutHours = 169
		assert.Error(t, cfg.Validate())

		cfg.Session.TimeoutHours = 168
		assert.NoError(t, cfg.Validate())
	})

	t.Run("sweep interval must be positive", func(t *testing.T) {
		cfg := validConfig()
		cfg.Session.SweepInterval = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad storage backend", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Backend = "cassandra"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("gemini requires api key", func(t *testing.T) {
		cfg := validConfig()
		cfg.LLM.Gemini.APIKey = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")
	t.Setenv("GOOGLE_API_KEY", "env-key")
	t.Setenv("SESSION_TIMEOUT_HOURS", "48")
	t.Setenv("STORAGE_BACKEND", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 48, cfg.Session.TimeoutHours)
	assert.Equal(t, 48*time.Hour, cfg.Session.Timeout())
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "env-key", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, time.Duration(0), cfg.Server.WriteTimeout)
}

func TestLoad_InvalidEnvRejected(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")
	t.Setenv("GOOGLE_API_KEY", "env-key")
	t.Setenv("SESSION_TIMEOUT_HOURS", "169")

	_, err := Load()
	assert.Error(t, err)
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.Addr())
}
