package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	App           AppConfig
	Auth          AuthConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" required:"true" validate:"required"`
	Host            string        `envconfig:"SERVER_HOST" required:"true" validate:"required"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" required:"true" validate:"gt=0"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" required:"true" validate:"gt=0"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" required:"true" validate:"gt=0"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" required:"true" validate:"gt=0"`
	// CORSOrigins is empty to allow every origin.
	CORSOrigins []string `envconfig:"SERVER_CORS_ORIGINS"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" required:"true" validate:"required"`
	Port     string `envconfig:"DB_PORT" required:"true" validate:"required"`
	User     string `envconfig:"DB_USER" required:"true" validate:"required"`
	Password string `envconfig:"DB_PASSWORD" required:"true" validate:"required"`
	Name     string `envconfig:"DB_NAME" required:"true" validate:"required"`
	SSLMode  string `envconfig:"DB_SSLMODE" required:"true" validate:"oneof=disable require verify-ca verify-full"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" required:"true" validate:"gt=0"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" required:"true" validate:"gt=0"`
	// AcquireTimeout bounds how long a request waits for a pooled connection.
	AcquireTimeout time.Duration `envconfig:"DB_ACQUIRE_TIMEOUT" default:"5s" validate:"gt=0"`
	AutoMigrate    bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// AppConfig holds application-specific configuration.
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" required:"true" validate:"oneof=development staging production test"`
	LogLevel    string `envconfig:"LOG_LEVEL" required:"true" validate:"oneof=debug info warn error"`
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	JWTSecret string        `envconfig:"AUTH_JWT_SECRET" required:"true" validate:"min=32"`
	Issuer    string        `envconfig:"AUTH_ISSUER" default:"readlater"`
	TokenTTL  time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h" validate:"gt=0"`
}

// ObservabilityConfig holds service identity reported by the health check.
type ObservabilityConfig struct {
	ServiceName    string `envconfig:"SERVICE_NAME" default:"readlater" validate:"required"`
	ServiceVersion string `envconfig:"SERVICE_VERSION" default:"dev" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load loads configuration from environment variables only.
// (Do .env loading in internal/app for dev, not here.)
func Load() (*Config, error) {
	cfg := &Config{}

	sections := []struct {
		name   string
		target any
	}{
		{"Server", &cfg.Server},
		{"Database", &cfg.Database},
		{"App", &cfg.App},
		{"Auth", &cfg.Auth},
		{"Observability", &cfg.Observability},
	}

	for _, s := range sections {
		if err := envconfig.Process("", s.target); err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", s.name, err)
		}
		if err := validate.Struct(s.target); err != nil {
			return nil, fmt.Errorf("invalid %s config: %w", s.name, describe(err))
		}
	}

	if cfg.Database.MinConns > cfg.Database.MaxConns {
		return nil, fmt.Errorf("invalid Database config: min connections (%d) cannot be greater than max connections (%d)",
			cfg.Database.MinConns, cfg.Database.MaxConns)
	}

	return cfg, nil
}

// describe flattens validator errors into one readable line.
func describe(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s cannot be empty", fe.Field()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be positive", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("invalid %s: %v (must be one of: %s)", fe.Field(), fe.Value(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
