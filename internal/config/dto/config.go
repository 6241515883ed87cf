// Package dto defines the configuration structures mapped from the
// configuration file and environment.
package dto

// ApplicationConfig is the root configuration structure.
type ApplicationConfig struct {
	Application   ApplicationInfo     `mapstructure:"application"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline"`
	Strategy      StrategyConfig      `mapstructure:"strategy"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// ApplicationInfo contains application metadata.
type ApplicationInfo struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// PipelineConfig tunes the compression pipeline.
type PipelineConfig struct {
	// Parallelism is the number of concurrent compressing workers.
	// Zero uses the available hardware concurrency.
	Parallelism int `mapstructure:"parallelism"`

	// QueueCapacityFactor sizes the handoff queue as a multiple of the
	// parallelism; it bounds the memory held by compressed entries that
	// are not yet written.
	QueueCapacityFactor int `mapstructure:"queue_capacity_factor"`
}

// StrategyConfig overrides which codec backs each selector role.
type StrategyConfig struct {
	FastCodec   string `mapstructure:"fast_codec"`
	StrongCodec string `mapstructure:"strong_codec"`
	BinaryCodec string `mapstructure:"binary_codec"`
}

// StorageConfig selects where finished archives are delivered.
type StorageConfig struct {
	Backend string      `mapstructure:"backend"`
	File    FileConfig  `mapstructure:"file"`
	S3      S3Config    `mapstructure:"s3"`
	Azure   AzureConfig `mapstructure:"azure"`
	GCS     GCSConfig   `mapstructure:"gcs"`
}

// FileConfig contains local filesystem sink configuration.
type FileConfig struct {
	// BasePath is the directory finished archives are moved into.
	// Empty leaves the archive where the pipeline wrote it.
	BasePath string `mapstructure:"base_path"`
}

// S3Config contains AWS S3 sink configuration.
type S3Config struct {
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	BasePath     string `mapstructure:"base_path"`
	Endpoint     string `mapstructure:"endpoint"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
	SSEEnabled   bool   `mapstructure:"sse_enabled"`
	SSEKMSKeyID  string `mapstructure:"sse_kms_key_id"`
}

// AzureConfig contains Azure Blob Storage sink configuration.
type AzureConfig struct {
	AccountName string `mapstructure:"account_name"`
	Container   string `mapstructure:"container"`
	BasePath    string `mapstructure:"base_path"`
}

// GCSConfig contains Google Cloud Storage sink configuration.
type GCSConfig struct {
	Bucket               string `mapstructure:"bucket"`
	ProjectID            string `mapstructure:"project_id"`
	BasePath             string `mapstructure:"base_path"`
	CredentialsFile      string `mapstructure:"credentials_file"`
	CredentialsJSON      string `mapstructure:"credentials_json"`
	UseDefaultCredential bool   `mapstructure:"use_default_credential"`
}

// ObservabilityConfig contains observability settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig contains metrics endpoint settings. The endpoint is
// only useful for long archiving runs and is disabled by default.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}
