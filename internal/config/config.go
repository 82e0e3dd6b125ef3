// Package config loads the dashboard backend configuration from the
// environment, with an optional .env file for local development.
package config

import (
	"errors"
	"fmt"

	pkgconfig "github.com/SeanSoulong/admin-bay/pkg/config"
	"github.com/SeanSoulong/admin-bay/pkg/database"
)

// Config holds all configuration for the admin dashboard backend.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"ADMIN_HTTP_PORT" envDefault:"8080"`

	// Redis record store
	RedisHost       string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort       int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword   string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	RedisPoolSize   int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RecordNamespace string `env:"RECORD_NAMESPACE" envDefault:"bay"`

	// Blob store. With an empty endpoint the in-memory store is used, which
	// serves uploads from process memory for local development.
	MinioEndpoint  string `env:"MINIO_ENDPOINT" envDefault:""`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY" envDefault:""`
	MinioSecretKey string `env:"MINIO_SECRET_KEY" envDefault:""`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"bay-admin"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	BlobBaseURL    string `env:"BLOB_BASE_URL" envDefault:""`

	// Kafka audit trail
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Session gate
	SessionSecret      string   `env:"SESSION_TOKEN_SECRET" envDefault:""`
	AdminAllowedEmails []string `env:"ADMIN_ALLOWED_EMAILS" envSeparator:","`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// pprof, disabled unless at least one CIDR is allow-listed
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"" envSeparator:","`

	// Tracing
	TracingEnabled      bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingOTLPEndpoint string  `env:"TRACING_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate   float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from the environment, loading a .env file first
// when one exists, and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadWithDotenv(cfg); err != nil {
		return nil, fmt.Errorf("load admin config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate admin config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings the service cannot run without.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("http port %d out of range", c.HTTPPort)
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_TOKEN_SECRET is required")
	}
	if len(c.AdminAllowedEmails) == 0 {
		return errors.New("ADMIN_ALLOWED_EMAILS must list at least one admin")
	}
	if c.MinioEndpoint != "" && (c.MinioAccessKey == "" || c.MinioSecretKey == "") {
		return errors.New("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required with MINIO_ENDPOINT")
	}
	return nil
}

// Redis returns the record store connection settings.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
		PoolSize: c.RedisPoolSize,
	}
}
