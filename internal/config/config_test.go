package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"SERVER_PORT":             "8080",
		"SERVER_HOST":             "0.0.0.0",
		"SERVER_READ_TIMEOUT":     "10s",
		"SERVER_WRITE_TIMEOUT":    "10s",
		"SERVER_IDLE_TIMEOUT":     "120s",
		"SERVER_SHUTDOWN_TIMEOUT": "30s",

		"DB_HOST":      "localhost",
		"DB_PORT":      "5432",
		"DB_USER":      "testuser",
		"DB_PASSWORD":  "testpass",
		"DB_NAME":      "testdb",
		"DB_SSLMODE":   "disable",
		"DB_MAX_CONNS": "25",
		"DB_MIN_CONNS": "5",

		"APP_ENV":   "test",
		"LOG_LEVEL": "debug",

		"AUTH_JWT_SECRET": "0123456789abcdef0123456789abcdef",
	}
}

// setEnv applies env for the duration of the test. Keys mapped to "" are unset.
func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for key, value := range env {
		t.Setenv(key, value)
		if value == "" {
			require.NoError(t, os.Unsetenv(key))
		}
	}
}

func TestLoad_Success(t *testing.T) {
	env := baseEnv()
	env["SERVER_CORS_ORIGINS"] = "https://a.example,https://b.example"
	env["AUTH_TOKEN_TTL"] = "90m"
	setEnv(t, env)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.Database.AcquireTimeout)
	assert.True(t, cfg.Database.AutoMigrate)

	assert.Equal(t, "test", cfg.App.Environment)
	assert.Equal(t, "debug", cfg.App.LogLevel)

	assert.Equal(t, "readlater", cfg.Auth.Issuer)
	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)

	assert.Equal(t, "readlater", cfg.Observability.ServiceName)
	assert.Equal(t, "dev", cfg.Observability.ServiceVersion)
}

func TestLoad_MissingRequiredVariable(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "DB_HOST", "DB_NAME", "APP_ENV", "AUTH_JWT_SECRET"} {
		t.Run(key, func(t *testing.T) {
			env := baseEnv()
			env[key] = ""
			setEnv(t, env)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name        string
		envVar      string
		value       string
		errContains string
	}{
		{"invalid duration", "SERVER_READ_TIMEOUT", "invalid", "Server"},
		{"zero duration", "SERVER_WRITE_TIMEOUT", "0s", "WriteTimeout must be positive"},
		{"invalid int", "DB_MAX_CONNS", "not-a-number", "Database"},
		{"invalid bool", "DB_AUTO_MIGRATE", "maybe", "Database"},
		{"unknown ssl mode", "DB_SSLMODE", "sometimes", "invalid SSLMode"},
		{"unknown environment", "APP_ENV", "qa", "invalid Environment"},
		{"unknown log level", "LOG_LEVEL", "trace", "invalid LogLevel"},
		{"short secret", "AUTH_JWT_SECRET", "short", "at least 32"},
		{"min above max", "DB_MIN_CONNS", "30", "cannot be greater"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			env[tt.envVar] = tt.value
			setEnv(t, env)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	db := DatabaseConfig{
		Host:     "testhost",
		Port:     "5432",
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=testhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable",
		db.ConnectionString(),
	)
}
