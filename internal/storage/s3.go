package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	apperrors "github.com/jittakal/adzip/internal/errors"
	"github.com/jittakal/adzip/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ storage.Sink = (*S3Sink)(nil)

// S3Config contains AWS S3 sink configuration.
type S3Config struct {
	Bucket       string
	Region       string
	BasePath     string
	Endpoint     string
	UsePathStyle bool
	SSEEnabled   bool
	SSEKMSKeyID  string
}

// S3Sink uploads finished archives to AWS S3 with multipart upload
// support and optional server-side encryption.
type S3Sink struct {
	uploader    *manager.Uploader
	bucket      string
	sseEnabled  bool
	sseKMSKeyID string
	router      *KeyRouter
	logger      *slog.Logger
	metrics     MetricsCollector
}

// NewS3Sink creates an S3 sink.
func NewS3Sink(cfg S3Config, logger *slog.Logger, metrics MetricsCollector) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("s3 region is required")
	}

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 10 * 1024 * 1024
		u.Concurrency = 5
	})

	logger.Info("S3 sink created",
		"bucket", cfg.Bucket,
		"region", cfg.Region,
		"sse_enabled", cfg.SSEEnabled,
	)

	return &S3Sink{
		uploader:    uploader,
		bucket:      cfg.Bucket,
		sseEnabled:  cfg.SSEEnabled,
		sseKMSKeyID: cfg.SSEKMSKeyID,
		router:      NewKeyRouter(cfg.BasePath),
		logger:      logger,
		metrics:     metrics,
	}, nil
}

// Store uploads the archive to S3 and returns its object URL.
func (s *S3Sink) Store(ctx context.Context, archivePath string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("s3", "open")
		}
		return "", &apperrors.StorageError{
			Backend:   "s3",
			Operation: "open",
			Path:      archivePath,
			Err:       err,
		}
	}
	defer f.Close()

	key := s.router.Route(filepath.Base(archivePath), time.Now())

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if s.sseEnabled {
		if s.sseKMSKeyID != "" {
			input.ServerSideEncryption = types.ServerSideEncryptionAwsKms
			input.SSEKMSKeyId = aws.String(s.sseKMSKeyID)
		} else {
			input.ServerSideEncryption = types.ServerSideEncryptionAes256
		}
	}

	startTime := time.Now()
	result, err := s.uploader.Upload(ctx, input)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("s3", "upload")
		}
		return "", &apperrors.StorageError{
			Backend:   "s3",
			Operation: "upload",
			Path:      key,
			Err:       err,
		}
	}

	s.logger.Info("archive stored",
		"backend", "s3",
		"bucket", s.bucket,
		"key", key,
		"location", result.Location,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
	if s.metrics != nil {
		s.metrics.IncArchivesStored("s3", "success")
	}
	return result.Location, nil
}

// Close closes the sink.
func (s *S3Sink) Close() error {
	return nil
}
