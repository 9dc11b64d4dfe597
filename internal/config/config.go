// Package config loads ats-scorer settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. ATS_LOG_LEVEL
const EnvPrefix = "ATS"

// Config is the full application configuration
type Config struct {
	Log         LogConfig       `mapstructure:"log"`
	CatalogPath string          `mapstructure:"catalog_path"`
	Embedding   EmbeddingConfig `mapstructure:"embedding"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Server      ServerConfig    `mapstructure:"server"`
	Fetch       FetchConfig     `mapstructure:"fetch"`
}

// LogConfig selects the zap level and encoder
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// EmbeddingConfig configures the embedder stack
type EmbeddingConfig struct {
	// Provider is the primary strategy. The hashing embedder needs no network.
	Provider       string        `mapstructure:"provider" validate:"oneof=gemini hashing"`
	Model          string        `mapstructure:"model"`
	LegacyModel    string        `mapstructure:"legacy_model"`
	APIKey         string        `mapstructure:"api_key"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRetries     int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff" validate:"gte=0"`
	Workers        int           `mapstructure:"workers" validate:"gte=1,lte=64"`
	Dimension      int           `mapstructure:"dimension" validate:"gte=16"`
	// Fallback appends the hashing embedder after a remote provider
	Fallback bool `mapstructure:"fallback"`
}

// CacheConfig selects the embedding cache backend
type CacheConfig struct {
	Backend    string        `mapstructure:"backend" validate:"oneof=none memory redis"`
	RedisURL   string        `mapstructure:"redis_url"`
	TTL        time.Duration `mapstructure:"ttl" validate:"gte=0"`
	MaxEntries int           `mapstructure:"max_entries" validate:"gte=0"`
}

// DatabaseConfig selects where analyses are persisted
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver" validate:"oneof=none postgres sqlite"`
	URL        string `mapstructure:"url"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port           int             `mapstructure:"port" validate:"gte=1,lte=65535"`
	MaxUploadBytes int64           `mapstructure:"max_upload_bytes" validate:"gt=0"`
	CORSOrigins    []string        `mapstructure:"cors_origins"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig configures per-client request limits
type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DefaultLimit  int           `mapstructure:"default_limit" validate:"gte=0"`
	DefaultWindow time.Duration `mapstructure:"default_window" validate:"gt=0"`
	AnalyzeLimit  int           `mapstructure:"analyze_limit" validate:"gte=0"`
	AnalyzeWindow time.Duration `mapstructure:"analyze_window" validate:"gt=0"`
	AnalyzeBurst  int           `mapstructure:"analyze_burst" validate:"gte=0"`
}

// FetchConfig configures job description retrieval from URLs
type FetchConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UseBrowser bool          `mapstructure:"use_browser"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("catalog_path", "")

	v.SetDefault("embedding.provider", "gemini")
	v.SetDefault("embedding.model", "text-embedding-004")
	v.SetDefault("embedding.legacy_model", "embedding-001")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.timeout", 30*time.Second)
	v.SetDefault("embedding.max_retries", 2)
	v.SetDefault("embedding.initial_backoff", 250*time.Millisecond)
	v.SetDefault("embedding.workers", 4)
	v.SetDefault("embedding.dimension", 384)
	v.SetDefault("embedding.fallback", true)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.redis_url", "redis://localhost:6379/0")
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.max_entries", 10000)

	v.SetDefault("database.driver", "none")
	v.SetDefault("database.url", "")
	v.SetDefault("database.sqlite_path", "ats-scorer.db")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_bytes", 10<<20)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.default_limit", 600)
	v.SetDefault("server.rate_limit.default_window", time.Minute)
	v.SetDefault("server.rate_limit.analyze_limit", 60)
	v.SetDefault("server.rate_limit.analyze_window", time.Minute)
	v.SetDefault("server.rate_limit.analyze_burst", 10)

	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.use_browser", false)
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. An empty path looks for
// ats-scorer.yaml in the working directory and ignores it when absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// conventional names used by other tools
	if err := v.BindEnv("embedding.api_key", EnvPrefix+"_EMBEDDING_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}
	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URL: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("ats-scorer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and cross-field requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' validation (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.Embedding.Provider == "gemini" && c.Embedding.APIKey == "" && !c.Embedding.Fallback {
		return errors.New("config error: 'embedding.api_key' (or GEMINI_API_KEY) is required when fallback is disabled")
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisURL == "" {
		return errors.New("config error: 'cache.redis_url' is required for the redis backend")
	}
	if c.Database.Driver == "postgres" && c.Database.URL == "" {
		return errors.New("config error: 'database.url' (or DATABASE_URL) is required for the postgres driver")
	}
	if c.Database.Driver == "sqlite" && c.Database.SQLitePath == "" {
		return errors.New("config error: 'database.sqlite_path' is required for the sqlite driver")
	}
	return nil
}
