package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for namespaced environment variables,
// e.g. STOCKPILE_SERVER_LOG_LEVEL for server.log_level.
const EnvPrefix = "STOCKPILE"

// legacyEnv maps config keys to the bare variable names the service has
// always honoured. The namespaced variable wins when both are set.
var legacyEnv = map[string]string{
	"server.port":       "PORT",
	"database.user":     "DB_USER",
	"database.password": "DB_PASS",
	"auth.jwt_secret":   "ACCESS_TOKEN",
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		namespaced := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, namespaced, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", legacy, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and cross-field rules.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := cfg.Database.ConnectionURI(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_allowed_origins", "*")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.uri", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "stockpile")
	v.SetDefault("database.items_collection", "products")
	v.SetDefault("database.subscriptions_collection", "newsletterEmails")
	v.SetDefault("database.operation_timeout", "10s")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 24*60)

	v.SetDefault("inventory.max_page_size", 0)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.rate_limit_rps", 20)
	v.SetDefault("redis.rate_limit_burst", 40)
}
