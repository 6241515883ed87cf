package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestFileError_Unwrap(t *testing.T) {
	err := &FileError{Path: "/tmp/a.txt", Op: "read", Err: fs.ErrPermission}

	if !errors.Is(err, fs.ErrPermission) {
		t.Error("errors.Is() failed to unwrap FileError")
	}
	for _, want := range []string{"read", "/tmp/a.txt"} {
		if msg := err.Error(); !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, want it to mention %q", msg, want)
		}
	}
}

func TestWriterError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := &WriterError{Entry: "a.txt", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is() failed to unwrap WriterError")
	}
}

func TestStorageError_IsRetryable(t *testing.T) {
	tests := []struct {
		operation string
		want      bool
	}{
		{"upload", true},
		{"write", true},
		{"open", false},
	}

	for _, tt := range tests {
		err := &StorageError{Backend: "s3", Operation: tt.operation, Err: fmt.Errorf("boom")}
		if got := err.IsRetryable(); got != tt.want {
			t.Errorf("IsRetryable(%s) = %v, want %v", tt.operation, got, tt.want)
		}
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"input not found", fmt.Errorf("%w: /tmp/x", ErrInputNotFound), true},
		{"writer error", &WriterError{Entry: "a", Err: fmt.Errorf("boom")}, true},
		{"wrapped writer error", fmt.Errorf("run: %w", &WriterError{Entry: "a", Err: fmt.Errorf("boom")}), true},
		{"file error", &FileError{Path: "a", Op: "read", Err: fmt.Errorf("boom")}, false},
		{"plain error", fmt.Errorf("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal() = %v, want %v", got, tt.want)
			}
		})
	}
}
