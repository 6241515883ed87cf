// Package progress defines the interface for run progress reporting.
//
// The pipeline emits one event per completed file; rendering is left to
// the reporter implementation.
package progress

import "github.com/jittakal/adzip/pkg/archive"

// Reporter receives progress events from the pipeline.
// FileCompleted may be called concurrently from multiple workers.
type Reporter interface {
	// Start is called once before the first file is dispatched.
	Start(total int)

	// FileCompleted is called after a file's entry has been handed to
	// the archive queue. completed is monotonically non-decreasing and
	// never exceeds total.
	FileCompleted(completed, total int)

	// Done is called once after the archive writer has closed.
	Done(stats archive.Stats)
}

// Nop is a Reporter that discards all events.
type Nop struct{}

func (Nop) Start(int)              {}
func (Nop) FileCompleted(int, int) {}
func (Nop) Done(archive.Stats)     {}
