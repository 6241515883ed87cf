// Package scanner validates the input path and enumerates work items.
package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jittakal/adzip/internal/errors"
	"github.com/jittakal/adzip/pkg/archive"
)

// Scanner turns an input path into the list of files to archive.
type Scanner struct {
	logger *slog.Logger
}

// New creates a scanner.
func New(logger *slog.Logger) *Scanner {
	return &Scanner{logger: logger}
}

// Scan validates the input path and returns one work item per regular
// file. A single file yields one item named after its base name; a
// directory is recursed entirely and yields items named by their
// root-relative path with forward slashes.
//
// A missing input is fatal (errors.ErrInputNotFound); no archive must be
// created in that case.
func (s *Scanner) Scan(input string) ([]archive.WorkItem, error) {
	info, err := os.Stat(input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrInputNotFound, input)
		}
		return nil, fmt.Errorf("stat input: %w", err)
	}

	if !info.IsDir() {
		return []archive.WorkItem{{
			SourcePath: input,
			EntryName:  filepath.Base(input),
		}}, nil
	}

	var items []archive.WorkItem
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(input, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		items = append(items, archive.WorkItem{
			SourcePath: path,
			EntryName:  filepath.ToSlash(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", input, err)
	}

	s.logger.Debug("scanned input", "path", input, "files", len(items))
	return items, nil
}

// OutputPath derives the archive path from the input path: the input
// without its trailing separator, plus ".zip".
func OutputPath(input string) string {
	trimmed := strings.TrimRight(input, string(os.PathSeparator))
	if trimmed == "" {
		trimmed = input
	}
	return trimmed + ".zip"
}
