package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "github.com/jittakal/adzip/internal/errors"
	"github.com/jittakal/adzip/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ storage.Sink = (*FileSink)(nil)

// FileConfig contains local filesystem sink configuration.
type FileConfig struct {
	BasePath string
}

// FileSink delivers finished archives to a local directory. With an
// empty base path the archive simply stays where the pipeline wrote it.
type FileSink struct {
	basePath string
	logger   *slog.Logger
	metrics  MetricsCollector
}

// NewFileSink creates a filesystem sink.
func NewFileSink(cfg FileConfig, logger *slog.Logger, metrics MetricsCollector) (*FileSink, error) {
	if cfg.BasePath != "" {
		if err := os.MkdirAll(cfg.BasePath, 0o755); err != nil {
			return nil, fmt.Errorf("create base path: %w", err)
		}
	}
	return &FileSink{basePath: cfg.BasePath, logger: logger, metrics: metrics}, nil
}

// Store moves the archive into the base path. A cross-device rename
// falls back to copy-and-remove.
func (s *FileSink) Store(ctx context.Context, archivePath string) (string, error) {
	if s.basePath == "" {
		return archivePath, nil
	}

	dest := filepath.Join(s.basePath, filepath.Base(archivePath))
	if dest == archivePath {
		return archivePath, nil
	}

	if err := os.Rename(archivePath, dest); err != nil {
		if err := copyFile(archivePath, dest); err != nil {
			if s.metrics != nil {
				s.metrics.IncStorageErrors("file", "write")
			}
			return "", &apperrors.StorageError{
				Backend:   "file",
				Operation: "write",
				Path:      dest,
				Err:       err,
			}
		}
		os.Remove(archivePath)
	}

	s.logger.Info("archive stored", "backend", "file", "path", dest)
	if s.metrics != nil {
		s.metrics.IncArchivesStored("file", "success")
	}
	return dest, nil
}

// Close closes the sink.
func (s *FileSink) Close() error {
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
