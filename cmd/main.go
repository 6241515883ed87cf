package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jittakal/adzip/internal/archive"
	"github.com/jittakal/adzip/internal/codec"
	"github.com/jittakal/adzip/internal/config"
	"github.com/jittakal/adzip/internal/observability"
	"github.com/jittakal/adzip/internal/pipeline"
	"github.com/jittakal/adzip/internal/progress"
	"github.com/jittakal/adzip/internal/scanner"
	"github.com/jittakal/adzip/internal/server"
	"github.com/jittakal/adzip/internal/storage"
	"github.com/jittakal/adzip/internal/strategy"
	pkgcodec "github.com/jittakal/adzip/pkg/codec"
	pkgprogress "github.com/jittakal/adzip/pkg/progress"
	pkgstorage "github.com/jittakal/adzip/pkg/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

func run() error {
	// Parse command-line flags
	configPath := flag.String("config", "", "path to configuration file")
	outputPath := flag.String("output", "", "archive output path (default: <input>.zip)")
	parallelism := flag.Int("parallelism", 0, "number of compressing workers (0 = hardware concurrency)")
	quiet := flag.Bool("quiet", false, "suppress progress output")
	flag.Parse()

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: adzip [flags] <file-or-directory>")
	}
	input := flag.Arg(0)

	// Load configuration
	// Priority: CLI flag > ADZIP_CONFIG_PATH env var > defaults only
	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = os.Getenv("ADZIP_CONFIG_PATH")
	}

	loader := config.NewLoader()
	cfg, err := loader.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if *parallelism > 0 {
		cfg.Pipeline.Parallelism = *parallelism
	}

	// Initialize observability
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
		Output: cfg.Observability.Logging.Output,
	})
	logger.Info("starting archiver",
		"version", cfg.Application.Version,
		"input", input,
	)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	// Optional metrics endpoint, useful for long archiving runs
	checker := &pipelineHealthChecker{}
	checker.healthy.Store(true)
	if cfg.Observability.Metrics.Enabled {
		httpServer := server.New(cfg.Observability.Metrics.Port, checker, registry, logger)
		httpServer.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			httpServer.Shutdown(ctx)
		}()
	}

	// Create storage sink based on backend
	var sink pkgstorage.Sink
	switch cfg.Storage.Backend {
	case "file":
		sink, err = storage.NewFileSink(storage.FileConfig{
			BasePath: cfg.Storage.File.BasePath,
		}, logger, metrics)
		if err != nil {
			return fmt.Errorf("failed to create filesystem sink: %w", err)
		}
	case "s3":
		sink, err = storage.NewS3Sink(storage.S3Config{
			Bucket:       cfg.Storage.S3.Bucket,
			Region:       cfg.Storage.S3.Region,
			BasePath:     cfg.Storage.S3.BasePath,
			Endpoint:     cfg.Storage.S3.Endpoint,
			UsePathStyle: cfg.Storage.S3.UsePathStyle,
			SSEEnabled:   cfg.Storage.S3.SSEEnabled,
			SSEKMSKeyID:  cfg.Storage.S3.SSEKMSKeyID,
		}, logger, metrics)
		if err != nil {
			return fmt.Errorf("failed to create S3 sink: %w", err)
		}
	case "azure":
		sink, err = storage.NewAzureSink(storage.AzureConfig{
			AccountName: cfg.Storage.Azure.AccountName,
			AccountKey:  os.Getenv("AZURE_STORAGE_ACCOUNT_KEY"),
			Container:   cfg.Storage.Azure.Container,
			BasePath:    cfg.Storage.Azure.BasePath,
		}, logger, metrics)
		if err != nil {
			return fmt.Errorf("failed to create Azure Blob sink: %w", err)
		}
	case "gcs":
		sink, err = storage.NewGCSSink(storage.GCSConfig{
			Bucket:               cfg.Storage.GCS.Bucket,
			ProjectID:            cfg.Storage.GCS.ProjectID,
			BasePath:             cfg.Storage.GCS.BasePath,
			CredentialsFile:      cfg.Storage.GCS.CredentialsFile,
			CredentialsJSON:      os.Getenv("GCP_CREDENTIALS_JSON"),
			UseDefaultCredential: cfg.Storage.GCS.UseDefaultCredential,
		}, logger, metrics)
		if err != nil {
			return fmt.Errorf("failed to create GCS sink: %w", err)
		}
	default:
		return fmt.Errorf("unsupported storage backend: %s (supported: file, s3, azure, gcs)", cfg.Storage.Backend)
	}
	defer sink.Close()

	// Scan input before touching the output path: a missing input must
	// not leave an empty archive behind.
	items, err := scanner.New(logger).Scan(input)
	if err != nil {
		return err
	}

	output := *outputPath
	if output == "" {
		output = scanner.OutputPath(input)
	}

	writer, err := archive.NewWriter(output, logger)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	selector := strategy.New(strategy.Config{
		FastCodec:   pkgcodec.Method(cfg.Strategy.FastCodec),
		StrongCodec: pkgcodec.Method(cfg.Strategy.StrongCodec),
		BinaryCodec: pkgcodec.Method(cfg.Strategy.BinaryCodec),
	})

	var reporter pkgprogress.Reporter = progress.NewTerminalReporter(os.Stdout)
	if *quiet {
		reporter = pkgprogress.Nop{}
	}

	p := pipeline.New(selector, codec.Get, writer, reporter, logger, metrics, pipeline.Config{
		Parallelism:         cfg.Pipeline.Parallelism,
		QueueCapacityFactor: cfg.Pipeline.QueueCapacityFactor,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, runErr := p.Run(ctx, items)
	if runErr != nil {
		checker.healthy.Store(false)
		// A half-written archive is unusable; remove it.
		if rmErr := writer.Remove(); rmErr != nil {
			logger.Error("failed to remove partial archive", "path", output, "error", rmErr)
		}
		return fmt.Errorf("archiving failed: %w", runErr)
	}

	if err := writer.Close(); err != nil {
		checker.healthy.Store(false)
		writer.Remove()
		return fmt.Errorf("failed to finalize archive: %w", err)
	}

	reporter.Done(stats)

	location, err := sink.Store(ctx, output)
	if err != nil {
		checker.healthy.Store(false)
		return fmt.Errorf("failed to store archive: %w", err)
	}

	logger.Info("archive complete",
		"location", location,
		"entries", writer.Entries(),
		"files_failed", stats.FilesFailed,
	)
	return nil
}

// pipelineHealthChecker implements server.HealthChecker
type pipelineHealthChecker struct {
	healthy atomic.Bool
}

func (h *pipelineHealthChecker) IsHealthy() bool {
	return h.healthy.Load()
}

func (h *pipelineHealthChecker) Status() map[string]string {
	status := "healthy"
	if !h.healthy.Load() {
		status = "unhealthy"
	}
	return map[string]string{"status": status}
}
