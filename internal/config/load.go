package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads.
const EnvPrefix = "TASKAPI"

// configFileEnv names an explicit config file path.
const configFileEnv = "TASKAPI_CONFIG_FILE"

// DefaultRules are the per-route rate limit thresholds, all per minute.
// "default" applies to requests that match no other rule.
var DefaultRules = map[string]int{
	"root":    10,
	"list":    30,
	"get":     60,
	"create":  10,
	"update":  15,
	"delete":  5,
	"health":  60,
	"default": 100,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.environment", EnvDevelopment)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("app.name", "Task Management API")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 30)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.acquire_timeout", "5s")

	v.SetDefault("security.headers_enabled", true)
	v.SetDefault("security.max_body_bytes", 1024*1024)

	v.SetDefault("cors.origins", "http://localhost:3000,http://localhost:8080")
	v.SetDefault("cors.allow_credentials", true)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.backend", BackendMemory)
	v.SetDefault("rate_limit.redis_addr", "")
	v.SetDefault("rate_limit.redis_password", "")
	v.SetDefault("rate_limit.redis_db", 0)
	v.SetDefault("rate_limit.retry_after_floor", "1s")
	v.SetDefault("rate_limit.janitor_interval", "1m")
	for name, limit := range DefaultRules {
		v.SetDefault("rate_limit.rules."+name+".limit", limit)
		v.SetDefault("rate_limit.rules."+name+".window", "1m")
	}

	v.SetDefault("events.kafka_brokers", "")
	v.SetDefault("events.kafka_topic", "task-events")
}

// Load configuration from defaults, an optional config file and environment
// variables. Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path := os.Getenv(configFileEnv); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || os.Getenv(configFileEnv) != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate runs struct validation over cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
