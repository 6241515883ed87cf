// Package archive implements the sequential zip container writer.
//
// The writer is the sole consumer of the pipeline's handoff queue. The
// underlying zip library keeps internal state that is not safe for
// concurrent writers, so exactly one goroutine may own a Writer.
package archive

import (
	"archive/zip"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/jittakal/adzip/internal/errors"
	"github.com/jittakal/adzip/pkg/archive"
)

// state models the writer lifecycle: Idle on creation, Draining once
// the first entry arrives, Closed after Close. No entry may be written
// after Closed.
type state int

const (
	stateIdle state = iota
	stateDraining
	stateClosed
)

// Writer appends completed entries to a zip archive on disk.
//
// Every entry is written as a container-level stored entry: the payload
// already carries whatever compression its codec applied, and the
// container must not compress it again.
type Writer struct {
	path    string
	f       *os.File
	zw      *zip.Writer
	state   state
	entries int
	written int64
	logger  *slog.Logger
}

// NewWriter creates the output archive file and a writer over it.
// Parent directories are created as needed.
func NewWriter(path string, logger *slog.Logger) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create archive %s: %w", path, err)
	}

	return &Writer{
		path:   path,
		f:      f,
		zw:     zip.NewWriter(f),
		state:  stateIdle,
		logger: logger,
	}, nil
}

// Path returns the archive file path.
func (w *Writer) Path() string {
	return w.path
}

// Entries returns the number of entries written so far.
func (w *Writer) Entries() int {
	return w.entries
}

// BytesWritten returns the total payload bytes appended so far.
func (w *Writer) BytesWritten() int64 {
	return w.written
}

// WriteEntry appends one entry to the archive under its entry name.
func (w *Writer) WriteEntry(e archive.Entry) error {
	if w.state == stateClosed {
		return apperrors.ErrWriterClosed
	}
	w.state = stateDraining

	hdr := &zip.FileHeader{
		Name:     e.Name,
		Method:   zip.Store,
		Modified: time.Now(),
	}
	hdr.SetMode(0o644)

	fw, err := w.zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", e.Name, err)
	}
	if _, err := fw.Write(e.Payload); err != nil {
		return fmt.Errorf("write entry %s: %w", e.Name, err)
	}

	w.entries++
	w.written += int64(len(e.Payload))

	w.logger.Debug("wrote archive entry",
		"entry", e.Name,
		"method", e.Method.String(),
		"original_size", e.OriginalSize,
		"payload_size", len(e.Payload),
	)
	return nil
}

// Close finalizes the zip central directory and closes the file.
// Close is safe to call once after end-of-stream has been observed.
func (w *Writer) Close() error {
	if w.state == stateClosed {
		return nil
	}
	w.state = stateClosed

	if err := w.zw.Close(); err != nil {
		w.f.Close()
		return fmt.Errorf("finalize archive: %w", err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("close archive file: %w", err)
	}

	w.logger.Info("archive closed",
		"path", w.path,
		"entries", w.entries,
		"payload_bytes", w.written,
	)
	return nil
}

// Remove deletes the (possibly partial) archive file. Used by the
// caller after a fatal pipeline error, when a half-written archive
// would be unusable.
func (w *Writer) Remove() error {
	if w.state != stateClosed {
		w.zw.Close()
		w.f.Close()
		w.state = stateClosed
	}
	return os.Remove(w.path)
}
