package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Supported values for DatabaseConfig.Driver.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// CORSAllowedOrigins is a comma-separated list of origins; "*" allows any origin.
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`

	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"   validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=mongo postgres memory"`

	// URI is the full connection string. When empty and Driver is mongo,
	// it is assembled from Host, User and Password.
	URI      string `mapstructure:"uri"`
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`

	Name                    string `mapstructure:"name"                     validate:"required"`
	ItemsCollection         string `mapstructure:"items_collection"         validate:"required"`
	SubscriptionsCollection string `mapstructure:"subscriptions_collection" validate:"required"`

	// OperationTimeout bounds every single store round trip.
	OperationTimeout time.Duration `mapstructure:"operation_timeout" validate:"gt=0"`

	// AutoMigrate applies pending PostgreSQL migrations at startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// InventoryConfig holds listing behaviour settings.
type InventoryConfig struct {
	// MaxPageSize rejects page sizes above this value. Zero means unbounded.
	MaxPageSize int64 `mapstructure:"max_page_size" validate:"gte=0"`
}

// RedisConfig configures the optional Redis-backed rate limiter.
// An empty URL disables rate limiting.
type RedisConfig struct {
	URL            string `mapstructure:"url"`
	RateLimitRPS   int    `mapstructure:"rate_limit_rps"   validate:"gte=0"`
	RateLimitBurst int    `mapstructure:"rate_limit_burst" validate:"gte=0"`
}

// ConnectionURI returns the connection string for the configured driver.
// For mongo without an explicit URI, an SRV string is built from the
// host and credentials.
func (d DatabaseConfig) ConnectionURI() (string, error) {
	if d.URI != "" {
		return d.URI, nil
	}

	switch d.Driver {
	case DriverMongo:
		if d.Host == "" {
			return "", fmt.Errorf("database host is required when database uri is empty")
		}
		u := url.URL{
			Scheme:   "mongodb+srv",
			Host:     d.Host,
			Path:     "/",
			RawQuery: "retryWrites=true&w=majority",
		}
		if d.User != "" {
			u.User = url.UserPassword(d.User, d.Password)
		}
		return u.String(), nil
	case DriverMemory:
		return "", nil
	default:
		return "", fmt.Errorf("database uri is required for driver %q", d.Driver)
	}
}

// AllowedOrigins parses the comma-separated origins string into a slice.
func (s ServerConfig) AllowedOrigins() []string {
	if s.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(s.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// TokenLifetime returns the access token lifetime as a duration.
func (a AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(a.TokenLifetimeMinutes) * time.Minute
}
