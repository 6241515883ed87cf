package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	internalcodec "github.com/jittakal/adzip/internal/codec"
	apperrors "github.com/jittakal/adzip/internal/errors"
	"github.com/jittakal/adzip/internal/strategy"
	"github.com/jittakal/adzip/pkg/archive"
	"github.com/jittakal/adzip/pkg/codec"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// collectWriter records entries in delivery order. The pipeline
// guarantees a single consumer, but the mutex lets tests read the slice
// after Run returns without racing the detector.
type collectWriter struct {
	mu      sync.Mutex
	entries []archive.Entry
}

func (w *collectWriter) WriteEntry(e archive.Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, e)
	return nil
}

func (w *collectWriter) byName() map[string]archive.Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	m := make(map[string]archive.Entry, len(w.entries))
	for _, e := range w.entries {
		m[e.Name] = e
	}
	return m
}

type failWriter struct{}

func (failWriter) WriteEntry(archive.Entry) error {
	return fmt.Errorf("disk full")
}

func writeTestFile(t *testing.T, dir, name string, data []byte) archive.WorkItem {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return archive.WorkItem{SourcePath: path, EntryName: name}
}

func newTestPipeline(writer EntryWriter, cfg Config) *Pipeline {
	return New(strategy.New(strategy.Config{}), internalcodec.Get, writer, nil, testLogger(), nil, cfg)
}

func TestPipeline_MethodSelection(t *testing.T) {
	dir := t.TempDir()

	smallText := []byte("short note\n")
	largeText := bytes.Repeat([]byte("log line with some repetition\n"), 3000)
	largeBinary := append([]byte{0x00, 0x01, 0x02}, bytes.Repeat([]byte{0xab, 0x00, 0xcd, 0xef}, 20000)...)
	pngData := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

	items := []archive.WorkItem{
		writeTestFile(t, dir, "notes.txt", smallText),
		writeTestFile(t, dir, "server.log", largeText),
		writeTestFile(t, dir, "a.bin", largeBinary),
		writeTestFile(t, dir, "b.png", pngData),
	}

	writer := &collectWriter{}
	p := newTestPipeline(writer, Config{Parallelism: 4})

	stats, err := p.Run(context.Background(), items)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if stats.FilesArchived != 4 || stats.FilesFailed != 0 {
		t.Fatalf("stats = %d archived, %d failed, want 4, 0", stats.FilesArchived, stats.FilesFailed)
	}

	got := writer.byName()
	wantMethods := map[string]codec.Method{
		"notes.txt":  codec.MethodDeflateFast,
		"server.log": codec.MethodDeflateBest,
		"a.bin":      codec.MethodLZ4,
		"b.png":      codec.MethodStore,
	}
	for name, want := range wantMethods {
		entry, ok := got[name]
		if !ok {
			t.Errorf("entry %s missing from archive", name)
			continue
		}
		if entry.Method != want {
			t.Errorf("entry %s method = %v, want %v", name, entry.Method, want)
		}
	}

	// Stored entries carry the original payload unmodified.
	if e := got["b.png"]; !bytes.Equal(e.Payload, pngData) {
		t.Error("stored entry payload was modified")
	}
	if e := got["a.bin"]; e.OriginalSize != int64(len(largeBinary)) {
		t.Errorf("a.bin original size = %d, want %d", e.OriginalSize, len(largeBinary))
	}
}

func TestPipeline_PayloadsRoundTrip(t *testing.T) {
	dir := t.TempDir()

	largeText := bytes.Repeat([]byte("all work and no play makes a dull archive\n"), 4000)
	items := []archive.WorkItem{
		writeTestFile(t, dir, "big.txt", largeText),
	}

	writer := &collectWriter{}
	p := newTestPipeline(writer, Config{Parallelism: 2})

	if _, err := p.Run(context.Background(), items); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	entry := writer.byName()["big.txt"]
	c, err := internalcodec.Get(entry.Method)
	if err != nil {
		t.Fatalf("Get(%s) error: %v", entry.Method, err)
	}
	back, err := c.Decompress(entry.Payload)
	if err != nil {
		t.Fatalf("Decompress() error: %v", err)
	}
	if !bytes.Equal(back, largeText) {
		t.Error("decompressed payload does not match source file")
	}
}

func TestPipeline_PerFileErrorIsolation(t *testing.T) {
	dir := t.TempDir()

	items := []archive.WorkItem{
		writeTestFile(t, dir, "good1.txt", []byte("one")),
		{SourcePath: filepath.Join(dir, "missing.txt"), EntryName: "missing.txt"},
		writeTestFile(t, dir, "good2.txt", []byte("two")),
	}

	writer := &collectWriter{}
	p := newTestPipeline(writer, Config{Parallelism: 2})

	stats, err := p.Run(context.Background(), items)
	if err != nil {
		t.Fatalf("Run() error: %v, want nil (per-file errors are contained)", err)
	}
	if stats.FilesArchived != 2 {
		t.Errorf("FilesArchived = %d, want 2", stats.FilesArchived)
	}
	if stats.FilesFailed != 1 {
		t.Errorf("FilesFailed = %d, want 1", stats.FilesFailed)
	}
	if _, ok := writer.byName()["missing.txt"]; ok {
		t.Error("failed file must not produce an archive entry")
	}
}

func TestPipeline_WriterErrorIsFatal(t *testing.T) {
	dir := t.TempDir()

	var items []archive.WorkItem
	for i := 0; i < 20; i++ {
		items = append(items, writeTestFile(t, dir, fmt.Sprintf("f%02d.txt", i), []byte("data")))
	}

	p := newTestPipeline(failWriter{}, Config{Parallelism: 4})

	_, err := p.Run(context.Background(), items)
	if err == nil {
		t.Fatal("Run() = nil, want writer error")
	}
	var writerErr *apperrors.WriterError
	if !errors.As(err, &writerErr) {
		t.Errorf("Run() error = %v, want *WriterError", err)
	}
	if !apperrors.IsFatal(err) {
		t.Error("IsFatal(writer error) = false, want true")
	}
}

func TestPipeline_EmptyInput(t *testing.T) {
	writer := &collectWriter{}
	p := newTestPipeline(writer, Config{Parallelism: 2})

	stats, err := p.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if stats.FilesTotal != 0 || stats.FilesArchived != 0 {
		t.Errorf("stats = %+v, want zero counts", stats)
	}
	if len(writer.byName()) != 0 {
		t.Error("empty input must produce no entries")
	}
}

func TestPipeline_CancelledContext(t *testing.T) {
	dir := t.TempDir()

	var items []archive.WorkItem
	for i := 0; i < 50; i++ {
		items = append(items, writeTestFile(t, dir, fmt.Sprintf("f%02d.txt", i), bytes.Repeat([]byte("x"), 1024)))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	writer := &collectWriter{}
	p := newTestPipeline(writer, Config{Parallelism: 2})

	// A pre-cancelled run must terminate, not deadlock. It may archive
	// zero or a few files depending on scheduling.
	stats, err := p.Run(ctx, items)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if stats.FilesArchived == len(items) {
		t.Log("all files archived before cancellation took effect")
	}
}

// recordingReporter captures progress callbacks for assertions.
type recordingReporter struct {
	mu        sync.Mutex
	total     int
	completed []int
	done      bool
}

func (r *recordingReporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
}

func (r *recordingReporter) FileCompleted(completed, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, completed)
}

func (r *recordingReporter) Done(archive.Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = true
}

func TestPipeline_ProgressReporting(t *testing.T) {
	dir := t.TempDir()

	var items []archive.WorkItem
	for i := 0; i < 10; i++ {
		items = append(items, writeTestFile(t, dir, fmt.Sprintf("f%d.txt", i), []byte("data")))
	}

	reporter := &recordingReporter{}
	p := New(strategy.New(strategy.Config{}), internalcodec.Get, &collectWriter{}, reporter, testLogger(), nil, Config{Parallelism: 4})

	if _, err := p.Run(context.Background(), items); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	reporter.mu.Lock()
	defer reporter.mu.Unlock()

	if reporter.total != 10 {
		t.Errorf("Start(total) = %d, want 10", reporter.total)
	}
	if len(reporter.completed) != 10 {
		t.Errorf("FileCompleted called %d times, want 10", len(reporter.completed))
	}
	// Each completion count is unique and the set covers 1..10, even if
	// callbacks interleave across workers.
	seen := make(map[int]bool)
	for _, c := range reporter.completed {
		if c < 1 || c > 10 {
			t.Errorf("completion count %d out of range", c)
		}
		if seen[c] {
			t.Errorf("completion count %d reported twice", c)
		}
		seen[c] = true
	}
}
