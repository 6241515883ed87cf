package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the archiver.
type Metrics struct {
	// Pipeline metrics
	FilesProcessed      *prometheus.CounterVec
	BytesRead           prometheus.Counter
	BytesWritten        prometheus.Counter
	CompressionDuration *prometheus.HistogramVec
	QueueDepth          prometheus.Gauge

	// Storage metrics
	ArchivesStored *prometheus.CounterVec
	StorageErrors  *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		FilesProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adzip_files_processed_total",
				Help: "Total number of files processed by the pipeline",
			},
			[]string{"method", "status"},
		),
		BytesRead: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "adzip_bytes_read_total",
				Help: "Total uncompressed bytes read from source files",
			},
		),
		BytesWritten: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "adzip_bytes_written_total",
				Help: "Total payload bytes handed to the archive container",
			},
		),
		CompressionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "adzip_compression_duration_seconds",
				Help:    "Duration of per-file compression operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		QueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "adzip_queue_depth",
				Help: "Entries currently held in the handoff queue",
			},
		),
		ArchivesStored: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adzip_archives_stored_total",
				Help: "Total number of archives delivered to a storage sink",
			},
			[]string{"backend", "status"},
		),
		StorageErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adzip_storage_errors_total",
				Help: "Total number of storage sink errors",
			},
			[]string{"backend", "operation"},
		),
	}
}

// IncFilesProcessed increments the files processed counter. An empty
// method is recorded as "none" (the file failed before a method stuck).
func (m *Metrics) IncFilesProcessed(method string, status string) {
	if method == "" {
		method = "none"
	}
	m.FilesProcessed.WithLabelValues(method, status).Inc()
}

// AddBytesRead adds to the source bytes counter.
func (m *Metrics) AddBytesRead(n int64) {
	m.BytesRead.Add(float64(n))
}

// AddBytesWritten adds to the payload bytes counter.
func (m *Metrics) AddBytesWritten(n int64) {
	m.BytesWritten.Add(float64(n))
}

// ObserveCompressionDuration observes one per-file compression duration.
func (m *Metrics) ObserveCompressionDuration(method string, seconds float64) {
	m.CompressionDuration.WithLabelValues(method).Observe(seconds)
}

// SetQueueDepth sets the handoff queue depth gauge.
func (m *Metrics) SetQueueDepth(depth int) {
	m.QueueDepth.Set(float64(depth))
}

// IncArchivesStored increments the archives stored counter.
func (m *Metrics) IncArchivesStored(backend string, status string) {
	m.ArchivesStored.WithLabelValues(backend, status).Inc()
}

// IncStorageErrors increments the storage errors counter.
func (m *Metrics) IncStorageErrors(backend string, operation string) {
	m.StorageErrors.WithLabelValues(backend, operation).Inc()
}
