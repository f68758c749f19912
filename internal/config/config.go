package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Session SessionConfig `mapstructure:"session"`
	Storage StorageConfig `mapstructure:"storage"`
	LLM     LLMConfig     `mapstructure:"llm"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Workers         int           `mapstructure:"workers"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

type SessionConfig struct {
	TimeoutHours  int           `mapstructure:"timeout_hours"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// Timeout returns the configured session idle timeout as a duration
func (c SessionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutHours) * time.Hour
}

type StorageConfig struct {
	Backend string      `mapstructure:"backend"`
	Redis   RedisConfig `mapstructure:"redis"`
	Mongo   MongoConfig `mapstructure:"mongo"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type LLMConfig struct {
	Provider  string          `mapstructure:"provider"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// IsProduction reports whether the app runs in production mode
func (c AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set config file path
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if _, statErr := os.Stat(configPath); statErr == nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// Config file not found, use defaults and env vars
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks all startup-critical settings. The process must not start
// on an invalid configuration.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment %q: must be development, staging or production", c.App.Environment)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d: must be 1-65535", c.Server.Port)
	}
	if c.Server.Workers < 1 || c.Server.Workers > 8 {
		return fmt.Errorf("invalid worker count %d: must be 1-8", c.Server.Workers)
	}

	if c.Session.TimeoutHours < 1 || c.Session.TimeoutHours > 168 {
		return fmt.Errorf("invalid session timeout %dh: must be 1-168 hours", c.Session.TimeoutHours)
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("invalid sweep interval %s: must be positive", c.Session.SweepInterval)
	}

	switch c.Storage.Backend {
	case "memory", "redis", "mongo":
	default:
		return fmt.Errorf("invalid storage backend %q: must be memory, redis or mongo", c.Storage.Backend)
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}

	if c.LLM.Provider == "gemini" && c.LLM.Gemini.APIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required and cannot be empty")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "learning-assistant")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.environment", "development")

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.workers", 1)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "0")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.request_timeout", "30s")

	// Session
	v.SetDefault("session.timeout_hours", 24)
	v.SetDefault("session.sweep_interval", "1h")

	// Storage
	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", 6379)
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("storage.mongo.database", "assistant")

	// LLM
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.gemini.model", "gemini-2.0-flash")
	v.SetDefault("llm.rate_limit.requests_per_minute", 60)
	v.SetDefault("llm.rate_limit.burst", 10)

	// CORS
	v.SetDefault("cors.origins", []string{"*"})

	// Logging
	v.SetDefault("logging.level", "info")
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.environment", "ENVIRONMENT")

	// Server
	v.BindEnv("server.host", "API_HOST")
	v.BindEnv("server.port", "API_PORT")
	v.BindEnv("server.workers", "API_WORKERS")

	// Session
	v.BindEnv("session.timeout_hours", "SESSION_TIMEOUT_HOURS")

	// Storage
	v.BindEnv("storage.backend", "STORAGE_BACKEND")
	v.BindEnv("storage.redis.password", "REDIS_PASSWORD")
	v.BindEnv("storage.mongo.uri", "MONGO_URI")

	// LLM API keys
	v.BindEnv("llm.gemini.api_key", "GOOGLE_API_KEY", "GEMINI_API_KEY")

	// CORS
	v.BindEnv("cors.origins", "CORS_ORIGINS")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
}
