package config

import (
	"strings"
	"time"
)

// Deployment environments.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Rate limit counter backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	App       AppConfig       `mapstructure:"app"        validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Security  SecurityConfig  `mapstructure:"security"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Events    EventsConfig    `mapstructure:"events"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	Environment     string        `mapstructure:"environment"      validate:"required,oneof=development staging production"`
	Debug           bool          `mapstructure:"debug"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"gt=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"     validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// AppConfig describes the service itself.
type AppConfig struct {
	Name    string `mapstructure:"name"    validate:"required"`
	Version string `mapstructure:"version" validate:"required"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"               validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	AcquireTimeout  time.Duration `mapstructure:"acquire_timeout"   validate:"gt=0"`
}

// SecurityConfig controls the security header and request size stages.
type SecurityConfig struct {
	HeadersEnabled bool  `mapstructure:"headers_enabled"`
	MaxBodyBytes   int64 `mapstructure:"max_body_bytes" validate:"gt=0"`
}

// CORSConfig controls cross-origin access.
type CORSConfig struct {
	// Origins is a comma-separated allowlist; "*" allows any origin.
	Origins          string `mapstructure:"origins"`
	AllowCredentials bool   `mapstructure:"allow_credentials"`
}

// RuleConfig is one rate limit threshold.
type RuleConfig struct {
	Limit  int           `mapstructure:"limit"  validate:"gte=0"`
	Window time.Duration `mapstructure:"window" validate:"gt=0"`
}

// RateLimitConfig controls the per-client rate limiting stage.
type RateLimitConfig struct {
	Enabled         bool                  `mapstructure:"enabled"`
	Backend         string                `mapstructure:"backend"           validate:"oneof=memory redis"`
	RedisAddr       string                `mapstructure:"redis_addr"        validate:"required_if=Backend redis"`
	RedisPassword   string                `mapstructure:"redis_password"`
	RedisDB         int                   `mapstructure:"redis_db"          validate:"gte=0"`
	RetryAfterFloor time.Duration         `mapstructure:"retry_after_floor" validate:"gte=0"`
	JanitorInterval time.Duration         `mapstructure:"janitor_interval"  validate:"gt=0"`
	Rules           map[string]RuleConfig `mapstructure:"rules"             validate:"dive"`
}

// EventsConfig controls task event publication.
type EventsConfig struct {
	// KafkaBrokers is a comma-separated seed broker list. Empty disables Kafka.
	KafkaBrokers string `mapstructure:"kafka_brokers"`
	KafkaTopic   string `mapstructure:"kafka_topic" validate:"required_with=KafkaBrokers"`
}

// Brokers returns the configured Kafka seed brokers.
func (e EventsConfig) Brokers() []string {
	return splitList(e.KafkaBrokers)
}

// IsProduction reports whether the service runs in the production environment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, EnvProduction)
}

// CORSOrigins returns the parsed origin allowlist. Production drops plain
// http://localhost origins.
func (c *Config) CORSOrigins() []string {
	origins := splitList(c.CORS.Origins)
	if !c.IsProduction() {
		return origins
	}
	kept := origins[:0]
	for _, o := range origins {
		if !strings.HasPrefix(o, "http://localhost") {
			kept = append(kept, o)
		}
	}
	return kept
}

// SecurityWarnings lists risky settings for a production deployment.
// It returns nil outside production.
func (c *Config) SecurityWarnings() []string {
	if !c.IsProduction() {
		return nil
	}
	var warnings []string
	if c.Server.Debug {
		warnings = append(warnings, "Debug mode is enabled in production")
	}
	if strings.Contains(c.CORS.Origins, "localhost") {
		warnings = append(warnings, "Localhost origins allowed in production")
	}
	if c.CORS.Origins == "*" && c.CORS.AllowCredentials {
		warnings = append(warnings, "Wildcard CORS origin combined with credentials")
	}
	return warnings
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
