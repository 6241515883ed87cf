// Package progress renders pipeline progress on a terminal.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jittakal/adzip/pkg/archive"
	"github.com/jittakal/adzip/pkg/progress"
)

// defaultInterval rate-limits terminal updates.
const defaultInterval = 200 * time.Millisecond

// TerminalReporter prints file-count progress to a terminal. Events may
// arrive concurrently from multiple workers; rendering is serialized
// with a mutex and rate-limited so the output stays readable.
type TerminalReporter struct {
	out      io.Writer
	interval time.Duration

	mu        sync.Mutex
	start     time.Time
	lastPrint time.Time
	lastDone  int
}

var _ progress.Reporter = (*TerminalReporter)(nil)

// NewTerminalReporter creates a reporter writing to out.
func NewTerminalReporter(out io.Writer) *TerminalReporter {
	return &TerminalReporter{
		out:      out,
		interval: defaultInterval,
	}
}

// Start records the run start and prints the file count.
func (r *TerminalReporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.start = time.Now()
	r.lastPrint = time.Time{}
	r.lastDone = 0
	fmt.Fprintf(r.out, "compressing %d files\n", total)
}

// FileCompleted renders the current completion count. Updates are
// throttled to the configured interval, except the final one, which is
// always printed.
func (r *TerminalReporter) FileCompleted(completed, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Counts can arrive out of order under concurrency; never let the
	// displayed number go backwards.
	if completed <= r.lastDone {
		return
	}
	r.lastDone = completed

	now := time.Now()
	if completed < total && now.Sub(r.lastPrint) < r.interval {
		return
	}
	r.lastPrint = now

	pct := 0.0
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}
	fmt.Fprintf(r.out, "\r%d/%d files (%.0f%%)", completed, total, pct)
	if completed == total {
		fmt.Fprintln(r.out)
	}
}

// Done prints the final summary with the elapsed wall-clock duration.
func (r *TerminalReporter) Done(stats archive.Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "archived %d/%d files, %s -> %s in %.2fs\n",
		stats.FilesArchived, stats.FilesTotal,
		formatSize(stats.BytesRead), formatSize(stats.BytesWritten),
		stats.Elapsed.Seconds(),
	)
	if stats.FilesFailed > 0 {
		fmt.Fprintf(r.out, "%d files skipped due to errors\n", stats.FilesFailed)
	}
}

// formatSize returns a human-readable size string.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
