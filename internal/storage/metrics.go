package storage

// MetricsCollector defines the metrics operations sinks emit.
type MetricsCollector interface {
	IncArchivesStored(backend string, status string)
	IncStorageErrors(backend string, operation string)
}
