package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the stylist backend.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"stylist-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database
	DatabaseURL    string        `env:"DATABASE_URL,notEmpty"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`

	// Authentication
	JWTSecretKey string        `env:"JWT_SECRET_KEY,notEmpty"`
	TokenTTL     time.Duration `env:"JWT_TTL" envDefault:"720h"`

	// Storage Backend Selection
	StorageType string `env:"STORAGE_TYPE" envDefault:"local"` // Options: "local" or "bucket"

	// Local Storage Configuration
	LocalImageDir string `env:"LOCAL_IMAGE_DIR" envDefault:"./data"`

	// Bucket (S3-compatible) Storage Configuration
	S3Endpoint       string `env:"S3_ENDPOINT"`
	S3PublicEndpoint string `env:"S3_PUBLIC_ENDPOINT"`
	S3Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket         string `env:"S3_BUCKET"`
	S3KeyPrefix      string `env:"S3_KEY_PREFIX" envDefault:"images/"`
	S3AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle   bool   `env:"S3_USE_PATH_STYLE" envDefault:"true"`

	// Classifier service
	ClassifierURL     string        `env:"CLASSIFIER_URL" envDefault:"http://localhost:9000"`
	ClassifierTimeout time.Duration `env:"CLASSIFIER_TIMEOUT" envDefault:"15s"`

	// Ingestion pipeline
	PageFetchTimeout time.Duration `env:"PAGE_FETCH_TIMEOUT" envDefault:"10s"`
	DownloadTimeout  time.Duration `env:"DOWNLOAD_TIMEOUT" envDefault:"10s"`
	IngestDeadline   time.Duration `env:"INGEST_DEADLINE" envDefault:"45s"`
	MaxImageBytes    int64         `env:"MAX_IMAGE_BYTES" envDefault:"5242880"`
	VariantSize      int           `env:"VARIANT_SIZE" envDefault:"800"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	cfg.S3PublicEndpoint = strings.TrimSpace(cfg.S3PublicEndpoint)
	cfg.ClassifierURL = strings.TrimRight(strings.TrimSpace(cfg.ClassifierURL), "/")

	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = 5 * 1024 * 1024
	}
	if cfg.VariantSize <= 0 {
		cfg.VariantSize = 800
	}
	if cfg.IsBucketStorage() && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required when STORAGE_TYPE is bucket")
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsLocalStorage returns true if the local filesystem backend is configured.
func (c *Config) IsLocalStorage() bool {
	return strings.ToLower(strings.TrimSpace(c.StorageType)) != "bucket"
}

// IsBucketStorage returns true if the S3-compatible backend is configured.
func (c *Config) IsBucketStorage() bool {
	return strings.ToLower(strings.TrimSpace(c.StorageType)) == "bucket"
}
