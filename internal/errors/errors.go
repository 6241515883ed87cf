// Package errors defines application-specific error types and sentinel errors.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	ErrInputNotFound     = errors.New("input path does not exist")
	ErrQueueClosed       = errors.New("queue is closed")
	ErrWriterClosed      = errors.New("archive writer is closed")
	ErrUnsupportedMethod = errors.New("unsupported compression method")
)

// FileError represents a recoverable per-file failure (read or codec).
// The file is skipped and the pipeline continues.
type FileError struct {
	Path string
	Op   string // "read" or "compress"
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file error: op=%s path=%s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// WriterError represents a failure appending an entry to the archive
// container. Writer errors are fatal for the run: a half-written archive
// may be unusable, so remaining work is aborted.
type WriterError struct {
	Entry string
	Err   error
}

func (e *WriterError) Error() string {
	return fmt.Sprintf("archive writer error: entry=%s: %v", e.Entry, e.Err)
}

func (e *WriterError) Unwrap() error {
	return e.Err
}

// StorageError represents a failure delivering the finished archive to
// its destination sink.
type StorageError struct {
	Backend   string
	Operation string
	Path      string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: backend=%s operation=%s path=%s: %v",
		e.Backend, e.Operation, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsRetryable determines if a StorageError is worth retrying.
func (e *StorageError) IsRetryable() bool {
	return e.Operation == "upload" || e.Operation == "write"
}

// IsFatal reports whether an error must abort the run rather than skip a
// single file.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInputNotFound) {
		return true
	}
	var writerErr *WriterError
	return errors.As(err, &writerErr)
}
