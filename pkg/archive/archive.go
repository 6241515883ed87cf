// Package archive defines the core data model for the compression pipeline.
//
// A WorkItem names one file to archive. A worker turns a WorkItem into an
// Entry, which the sequential archive writer appends to the output zip.
package archive

import (
	"time"

	"github.com/jittakal/adzip/pkg/codec"
)

// WorkItem identifies one source file to be compressed and archived.
// Items are created once at enumeration time, are immutable, and are
// consumed by exactly one worker.
type WorkItem struct {
	// SourcePath is the filesystem path of the file to read.
	SourcePath string

	// EntryName is the name the payload is stored under inside the
	// archive: the bare file name for single-file input, or the
	// root-relative path with forward slashes for directory input.
	EntryName string
}

// Entry is a completed archive entry produced by one worker.
// Ownership transfers worker -> queue -> writer; the payload is released
// once written.
type Entry struct {
	// Name is the entry name inside the archive.
	Name string

	// Payload is the (possibly compressed) file content. The archive
	// container stores it as-is without further compression.
	Payload []byte

	// Method is the compression method applied to Payload.
	Method codec.Method

	// OriginalSize is the uncompressed size of the source file.
	OriginalSize int64
}

// Result is the per-item outcome of one worker: either an Entry or the
// reason the file was skipped. A failed item never aborts the run.
type Result struct {
	Item  WorkItem
	Entry *Entry
	Err   error
}

// Stats summarizes a finished pipeline run.
type Stats struct {
	// FilesTotal is the number of enumerated work items.
	FilesTotal int

	// FilesArchived is the number of entries written to the archive.
	FilesArchived int

	// FilesFailed is the number of items skipped due to read or codec
	// errors.
	FilesFailed int

	// BytesRead is the total uncompressed bytes read from source files.
	BytesRead int64

	// BytesWritten is the total payload bytes handed to the archive.
	BytesWritten int64

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Ratio returns payload bytes over source bytes, or zero when nothing
// was read. Values below 1.0 indicate net compression.
func (s Stats) Ratio() float64 {
	if s.BytesRead == 0 {
		return 0
	}
	return float64(s.BytesWritten) / float64(s.BytesRead)
}
