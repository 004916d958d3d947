// Package config defines all configuration structures for UrbanSight.
// No I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// Version is the application version reported by /health and the CLI.
// Overridable at build time via -ldflags "-X .../internal/config.Version=...".
var Version = "1.0.0"

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// ModelConfig locates the trained regression artifact and its matching
// feature scaler.  Source selects where the artifacts are read from:
// "file" reads ModelPath/ScalerPath from local disk, "s3" reads them as
// object keys from the bucket in ObjectStoreConfig.
type ModelConfig struct {
	Source     string `mapstructure:"source"` // "file" | "s3"
	ModelPath  string `mapstructure:"model_path"`
	ScalerPath string `mapstructure:"scaler_path"`
}

// ObjectStoreConfig holds S3-compatible object storage parameters used when
// model artifacts are fetched from a bucket rather than local disk.
type ObjectStoreConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Region    string `mapstructure:"region"`
}

// LogConfig mirrors logging.Config; kept separate so the config package does
// not import the logging package.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Config is the root configuration for every UrbanSight binary.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Model       ModelConfig       `mapstructure:"model"`
	ObjectStore ObjectStoreConfig `mapstructure:"object_store"`
	Log         LogConfig         `mapstructure:"log"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// Validate checks cross-field consistency.  It assumes ApplyDefaults has
// already run, so zero values only remain where the user explicitly set them.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be one of debug|release|test, got %q", c.Server.Mode)
	}
	switch c.Model.Source {
	case "file", "s3":
	default:
		return fmt.Errorf("model.source must be file or s3, got %q", c.Model.Source)
	}
	if c.Model.Source == "s3" {
		if c.ObjectStore.Endpoint == "" {
			return fmt.Errorf("object_store.endpoint is required when model.source is s3")
		}
		if c.ObjectStore.Bucket == "" {
			return fmt.Errorf("object_store.bucket is required when model.source is s3")
		}
	}
	return nil
}
