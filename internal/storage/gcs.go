package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	gcstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	apperrors "github.com/jittakal/adzip/internal/errors"
	"github.com/jittakal/adzip/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ storage.Sink = (*GCSSink)(nil)

// GCSConfig contains Google Cloud Storage sink configuration.
type GCSConfig struct {
	Bucket               string
	ProjectID            string
	BasePath             string
	CredentialsFile      string
	CredentialsJSON      string
	Endpoint             string
	UseDefaultCredential bool
}

// GCSSink uploads finished archives to Google Cloud Storage. It
// supports service-account file, inline JSON, and application-default
// credentials.
type GCSSink struct {
	client  *gcstorage.Client
	bucket  string
	router  *KeyRouter
	logger  *slog.Logger
	metrics MetricsCollector
}

// NewGCSSink creates a GCS sink.
func NewGCSSink(cfg GCSConfig, logger *slog.Logger, metrics MetricsCollector) (*GCSSink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}

	var clientOpts []option.ClientOption
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}

	switch {
	case cfg.UseDefaultCredential:
		logger.Info("using default GCP credentials")
	case cfg.CredentialsJSON != "":
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
		logger.Info("using GCP credentials from JSON string")
	case cfg.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
		logger.Info("using GCP credentials from file", "file", cfg.CredentialsFile)
	default:
		logger.Info("no explicit credentials provided, using default GCP credentials")
	}

	client, err := gcstorage.NewClient(context.Background(), clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	logger.Info("GCS sink created", "bucket", cfg.Bucket, "project_id", cfg.ProjectID)

	return &GCSSink{
		client:  client,
		bucket:  cfg.Bucket,
		router:  NewKeyRouter(cfg.BasePath),
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Store uploads the archive to GCS and returns its object URL.
func (s *GCSSink) Store(ctx context.Context, archivePath string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("gcs", "open")
		}
		return "", &apperrors.StorageError{
			Backend:   "gcs",
			Operation: "open",
			Path:      archivePath,
			Err:       err,
		}
	}
	defer f.Close()

	key := s.router.Route(filepath.Base(archivePath), time.Now())

	startTime := time.Now()
	obj := s.client.Bucket(s.bucket).Object(key)
	w := obj.NewWriter(ctx)
	w.ContentType = "application/zip"

	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		if s.metrics != nil {
			s.metrics.IncStorageErrors("gcs", "upload")
		}
		return "", &apperrors.StorageError{
			Backend:   "gcs",
			Operation: "upload",
			Path:      key,
			Err:       err,
		}
	}
	if err := w.Close(); err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("gcs", "upload")
		}
		return "", &apperrors.StorageError{
			Backend:   "gcs",
			Operation: "upload",
			Path:      key,
			Err:       err,
		}
	}

	location := fmt.Sprintf("gs://%s/%s", s.bucket, key)
	s.logger.Info("archive stored",
		"backend", "gcs",
		"bucket", s.bucket,
		"key", key,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
	if s.metrics != nil {
		s.metrics.IncArchivesStored("gcs", "success")
	}
	return location, nil
}

// Close closes the underlying GCS client.
func (s *GCSSink) Close() error {
	return s.client.Close()
}
