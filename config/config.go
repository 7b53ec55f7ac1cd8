// Package config loads service configuration from environment variables.
// A .env file in the working directory is honoured when present, real
// environment variables always win.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Backend names accepted for DB_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// ServiceConfig identifies the running service.
type ServiceConfig struct {
	Name    string
	Version string
	Env     string
	Port    string
}

// AuthConfig holds the session-token settings.
// TokenTTL is fixed at one hour and is intentionally not configurable.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// DatabaseConfig selects and configures the storage backend.
type DatabaseConfig struct {
	Backend string
	URL     string
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string
}

// TracingConfig holds OpenTelemetry exporter settings.
type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

// ProfilingConfig holds Pyroscope settings.
type ProfilingConfig struct {
	Enabled  bool
	Endpoint string
}

// Config is the root configuration, loaded once at startup.
type Config struct {
	Service   ServiceConfig
	Auth      AuthConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
	Profiling ProfilingConfig

	ShutdownTimeoutSeconds    int
	ReadinessDrainDelaySecond int
}

// Load reads configuration from the environment, applying defaults for
// anything unset. It never fails; Validate reports missing required values.
func Load() *Config {
	// Best-effort: absence of a .env file is the normal production case.
	_ = godotenv.Load()

	return &Config{
		Service: ServiceConfig{
			Name:    getEnv("SERVICE_NAME", "user-service"),
			Version: getEnv("SERVICE_VERSION", "dev"),
			Env:     getEnv("ENV", "development"),
			Port:    getEnv("PORT", "3000"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  time.Hour,
		},
		Database: DatabaseConfig{
			Backend: getEnv("DB_BACKEND", BackendMemory),
			URL:     os.Getenv("DATABASE_URL"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Tracing: TracingConfig{
			Enabled:    getEnvBool("TRACING_ENABLED", false),
			Endpoint:   getEnv("TRACING_ENDPOINT", "localhost:4318"),
			SampleRate: getEnvFloat("TRACING_SAMPLE_RATE", 1.0),
		},
		Profiling: ProfilingConfig{
			Enabled:  getEnvBool("PROFILING_ENABLED", false),
			Endpoint: getEnv("PROFILING_ENDPOINT", "http://localhost:4040"),
		},
		ShutdownTimeoutSeconds:    getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10),
		ReadinessDrainDelaySecond: getEnvInt("READINESS_DRAIN_DELAY_SECONDS", 0),
	}
}

// Validate checks that required values are present and consistent.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.Database.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL is required when DB_BACKEND=postgres")
		}
	default:
		return errors.New("DB_BACKEND must be 'memory' or 'postgres'")
	}
	return nil
}

// IsProduction reports whether the service runs in the production environment.
// Test-only routes are registered only when this is false.
func (c *Config) IsProduction() bool {
	return c.Service.Env == "production"
}

// GetShutdownTimeoutDuration returns the graceful-shutdown timeout.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// GetReadinessDrainDelayDuration returns how long /ready should fail before
// the HTTP server starts shutting down.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	return time.Duration(c.ReadinessDrainDelaySecond) * time.Second
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
