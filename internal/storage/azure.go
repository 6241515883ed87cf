package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	apperrors "github.com/jittakal/adzip/internal/errors"
	"github.com/jittakal/adzip/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ storage.Sink = (*AzureSink)(nil)

// AzureConfig contains Azure Blob Storage sink configuration.
type AzureConfig struct {
	AccountName string
	AccountKey  string
	Container   string
	BasePath    string
	Endpoint    string
}

// AzureSink uploads finished archives to Azure Blob Storage using
// access-key authentication.
type AzureSink struct {
	client    *azblob.Client
	container string
	router    *KeyRouter
	logger    *slog.Logger
	metrics   MetricsCollector
}

// NewAzureSink creates an Azure Blob sink.
func NewAzureSink(cfg AzureConfig, logger *slog.Logger, metrics MetricsCollector) (*AzureSink, error) {
	if cfg.AccountName == "" {
		return nil, fmt.Errorf("azure account name is required")
	}
	if cfg.Container == "" {
		return nil, fmt.Errorf("azure container is required")
	}

	var connectionString string
	if cfg.Endpoint != "" {
		connectionString = fmt.Sprintf("DefaultEndpointsProtocol=https;AccountName=%s;AccountKey=%s;BlobEndpoint=%s",
			cfg.AccountName, cfg.AccountKey, cfg.Endpoint)
	} else {
		connectionString = fmt.Sprintf("DefaultEndpointsProtocol=https;AccountName=%s;AccountKey=%s;EndpointSuffix=core.windows.net",
			cfg.AccountName, cfg.AccountKey)
	}

	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure client: %w", err)
	}

	logger.Info("Azure sink created", "container", cfg.Container, "account", cfg.AccountName)

	return &AzureSink{
		client:    client,
		container: cfg.Container,
		router:    NewKeyRouter(cfg.BasePath),
		logger:    logger,
		metrics:   metrics,
	}, nil
}

// Store uploads the archive to the container and returns its blob path.
func (s *AzureSink) Store(ctx context.Context, archivePath string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("azure", "open")
		}
		return "", &apperrors.StorageError{
			Backend:   "azure",
			Operation: "open",
			Path:      archivePath,
			Err:       err,
		}
	}
	defer f.Close()

	key := s.router.Route(filepath.Base(archivePath), time.Now())

	startTime := time.Now()
	if _, err := s.client.UploadFile(ctx, s.container, key, f, nil); err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("azure", "upload")
		}
		return "", &apperrors.StorageError{
			Backend:   "azure",
			Operation: "upload",
			Path:      key,
			Err:       err,
		}
	}

	location := fmt.Sprintf("wasbs://%s/%s", s.container, key)
	s.logger.Info("archive stored",
		"backend", "azure",
		"container", s.container,
		"key", key,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
	if s.metrics != nil {
		s.metrics.IncArchivesStored("azure", "success")
	}
	return location, nil
}

// Close closes the sink.
func (s *AzureSink) Close() error {
	return nil
}
