// Package storage defines the interface for archive destinations.
//
// Once the pipeline has fully written the local archive, a Sink delivers
// it to its configured destination (local directory, S3, Azure Blob,
// Google Cloud Storage).
package storage

import "context"

// Sink stores a finished archive at its destination.
type Sink interface {
	// Store delivers the archive at archivePath to the destination and
	// returns the final location (a path or an object URL).
	Store(ctx context.Context, archivePath string) (string, error)

	// Close releases any resources held by the sink.
	Close() error
}
