// Package config handles configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/jittakal/adzip/internal/codec"
	"github.com/jittakal/adzip/internal/config/dto"
	pkgcodec "github.com/jittakal/adzip/pkg/codec"
)

// Loader handles configuration loading and validation.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader. Settings may come from
// a YAML file and from environment variables with the ADZIP_ prefix
// (dots replaced by underscores, e.g. ADZIP_STORAGE_BACKEND).
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ADZIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// Load loads configuration from file and environment variables. An
// empty path loads defaults and environment only; a missing file at an
// explicit path is not an error.
func (l *Loader) Load(path string) (*dto.ApplicationConfig, error) {
	l.setDefaults()

	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Expand ${VAR} references in config values.
	for _, key := range l.v.AllKeys() {
		value := l.v.GetString(key)
		if strings.Contains(value, "${") {
			l.v.Set(key, os.ExpandEnv(value))
		}
	}

	var config dto.ApplicationConfig
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func (l *Loader) setDefaults() {
	// Application defaults
	l.v.SetDefault("application.name", "adzip")
	l.v.SetDefault("application.version", "1.0.0")
	l.v.SetDefault("application.environment", "development")

	// Pipeline defaults
	l.v.SetDefault("pipeline.parallelism", 0) // 0 = hardware concurrency
	l.v.SetDefault("pipeline.queue_capacity_factor", 4)

	// Strategy defaults
	l.v.SetDefault("strategy.fast_codec", string(pkgcodec.MethodDeflateFast))
	l.v.SetDefault("strategy.strong_codec", string(pkgcodec.MethodDeflateBest))
	l.v.SetDefault("strategy.binary_codec", string(pkgcodec.MethodLZ4))

	// Storage defaults
	l.v.SetDefault("storage.backend", "file")
	l.v.SetDefault("storage.s3.use_path_style", false)
	l.v.SetDefault("storage.s3.sse_enabled", true)

	// Observability defaults
	l.v.SetDefault("observability.logging.level", "info")
	l.v.SetDefault("observability.logging.format", "text")
	l.v.SetDefault("observability.logging.output", "stderr")
	l.v.SetDefault("observability.metrics.enabled", false)
	l.v.SetDefault("observability.metrics.port", 9090)
}

// Validate validates the configuration.
func (l *Loader) Validate(config *dto.ApplicationConfig) error {
	// Pipeline validation
	if config.Pipeline.Parallelism < 0 {
		return fmt.Errorf("pipeline.parallelism must not be negative: %d", config.Pipeline.Parallelism)
	}
	if config.Pipeline.QueueCapacityFactor < 1 {
		return fmt.Errorf("pipeline.queue_capacity_factor must be at least 1: %d", config.Pipeline.QueueCapacityFactor)
	}

	// Strategy validation
	for key, method := range map[string]string{
		"strategy.fast_codec":   config.Strategy.FastCodec,
		"strategy.strong_codec": config.Strategy.StrongCodec,
		"strategy.binary_codec": config.Strategy.BinaryCodec,
	} {
		if !codec.IsSupported(pkgcodec.Method(method)) {
			return fmt.Errorf("%s: unsupported codec %q", key, method)
		}
	}

	// Storage validation
	switch config.Storage.Backend {
	case "file":
		// base_path is optional: empty leaves the archive in place
	case "s3":
		if config.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket is required for S3 backend")
		}
		if config.Storage.S3.Region == "" {
			return errors.New("storage.s3.region is required for S3 backend")
		}
	case "azure":
		if config.Storage.Azure.AccountName == "" {
			return errors.New("storage.azure.account_name is required for Azure backend")
		}
		if config.Storage.Azure.Container == "" {
			return errors.New("storage.azure.container is required for Azure backend")
		}
	case "gcs":
		if config.Storage.GCS.Bucket == "" {
			return errors.New("storage.gcs.bucket is required for GCS backend")
		}
	default:
		return fmt.Errorf("unsupported storage backend: %s (supported: file, s3, azure, gcs)", config.Storage.Backend)
	}

	// Port validation
	if config.Observability.Metrics.Enabled {
		if config.Observability.Metrics.Port < 1 || config.Observability.Metrics.Port > 65535 {
			return fmt.Errorf("invalid metrics port: %d", config.Observability.Metrics.Port)
		}
	}

	return nil
}
