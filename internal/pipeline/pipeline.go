// Package pipeline implements the concurrent compression pipeline: a
// pool of compressing workers feeding a bounded handoff queue drained by
// a single sequential archive writer.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jittakal/adzip/internal/errors"
	"github.com/jittakal/adzip/internal/strategy"
	"github.com/jittakal/adzip/pkg/archive"
	"github.com/jittakal/adzip/pkg/codec"
	"github.com/jittakal/adzip/pkg/progress"
)

// EntryWriter appends completed entries to the archive container.
// Implementations are not safe for concurrent use; the pipeline
// guarantees a single consumer.
type EntryWriter interface {
	WriteEntry(e archive.Entry) error
}

// CodecProvider resolves a codec for a method.
type CodecProvider func(method codec.Method) (codec.Codec, error)

// MetricsCollector defines the metrics operations the pipeline emits.
type MetricsCollector interface {
	IncFilesProcessed(method string, status string)
	AddBytesRead(n int64)
	AddBytesWritten(n int64)
	ObserveCompressionDuration(method string, seconds float64)
	SetQueueDepth(depth int)
}

// Config tunes the pipeline.
type Config struct {
	// Parallelism is the number of concurrent compressing workers.
	// Zero means runtime.NumCPU().
	Parallelism int

	// QueueCapacityFactor sizes the handoff queue as a multiple of the
	// parallelism. Zero means 4.
	QueueCapacityFactor int
}

// Pipeline coordinates workers, queue, and the archive writer for one run.
type Pipeline struct {
	selector *strategy.Selector
	codecs   CodecProvider
	writer   EntryWriter
	reporter progress.Reporter
	logger   *slog.Logger
	metrics  MetricsCollector
	cfg      Config
}

// New creates a pipeline. reporter and metrics may be nil.
func New(
	selector *strategy.Selector,
	codecs CodecProvider,
	writer EntryWriter,
	reporter progress.Reporter,
	logger *slog.Logger,
	metrics MetricsCollector,
	cfg Config,
) *Pipeline {
	if reporter == nil {
		reporter = progress.Nop{}
	}
	return &Pipeline{
		selector: selector,
		codecs:   codecs,
		writer:   writer,
		reporter: reporter,
		logger:   logger,
		metrics:  metrics,
		cfg:      cfg,
	}
}

// Run processes all work items: at most Parallelism files are being
// compressed at any moment, each completed entry is handed to the
// bounded queue, and the single writer goroutine appends entries in
// delivery order. Entry order therefore follows completion order, not
// enumeration order.
//
// Per-file read/codec errors are logged and skipped. A writer error is
// fatal: it cancels the shared context, aborts remaining work, and is
// returned to the caller.
func (p *Pipeline) Run(ctx context.Context, items []archive.WorkItem) (archive.Stats, error) {
	start := time.Now()

	parallelism := p.cfg.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	factor := p.cfg.QueueCapacityFactor
	if factor <= 0 {
		factor = 4
	}

	total := len(items)
	queue := NewQueue[archive.Entry](parallelism * factor)

	var (
		completed    atomic.Int64
		failed       atomic.Int64
		bytesRead    atomic.Int64
		bytesWritten atomic.Int64
	)

	p.reporter.Start(total)

	jobs := make(chan archive.WorkItem)

	g, gctx := errgroup.WithContext(ctx)

	// Feeder: dispatch items until done or the run is aborted.
	g.Go(func() error {
		defer close(jobs)
		for _, item := range items {
			select {
			case jobs <- item:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	// Worker pool. Workers contain per-file failures and never return
	// an error themselves; the queue is closed once all of them finish
	// so the writer can drain and observe end-of-stream.
	var workers sync.WaitGroup
	workers.Add(parallelism)
	for i := 0; i < parallelism; i++ {
		go func() {
			defer workers.Done()
			for item := range jobs {
				res := p.compressOne(item)
				if res.Err != nil {
					failed.Add(1)
					p.logger.Error("skipping file",
						"path", item.SourcePath,
						"error", res.Err,
					)
					if p.metrics != nil {
						p.metrics.IncFilesProcessed("", "error")
					}
					continue
				}

				if err := queue.Push(gctx, *res.Entry); err != nil {
					// Run aborted while blocked on backpressure.
					failed.Add(1)
					return
				}
				if p.metrics != nil {
					p.metrics.SetQueueDepth(queue.Len())
					p.metrics.IncFilesProcessed(res.Entry.Method.String(), "success")
					p.metrics.AddBytesRead(res.Entry.OriginalSize)
					p.metrics.AddBytesWritten(int64(len(res.Entry.Payload)))
				}
				bytesRead.Add(res.Entry.OriginalSize)
				bytesWritten.Add(int64(len(res.Entry.Payload)))

				done := completed.Add(1)
				p.reporter.FileCompleted(int(done), total)
			}
		}()
	}

	g.Go(func() error {
		workers.Wait()
		queue.Close()
		return nil
	})

	// Sequential archive writer: the sole consumer of the queue, so the
	// container library is only ever touched by one goroutine.
	g.Go(func() error {
		for {
			entry, ok := queue.Pop()
			if !ok {
				return nil
			}
			if p.metrics != nil {
				p.metrics.SetQueueDepth(queue.Len())
			}
			if err := p.writer.WriteEntry(entry); err != nil {
				return &errors.WriterError{Entry: entry.Name, Err: err}
			}
		}
	})

	err := g.Wait()
	workers.Wait()

	stats := archive.Stats{
		FilesTotal:    total,
		FilesArchived: int(completed.Load()),
		FilesFailed:   int(failed.Load()),
		BytesRead:     bytesRead.Load(),
		BytesWritten:  bytesWritten.Load(),
		Elapsed:       time.Since(start),
	}

	if err != nil {
		return stats, err
	}

	p.logger.Info("pipeline finished",
		"files", stats.FilesArchived,
		"failed", stats.FilesFailed,
		"bytes_read", stats.BytesRead,
		"bytes_written", stats.BytesWritten,
		"elapsed", stats.Elapsed.String(),
	)
	return stats, nil
}

// compressOne reads one file fully into memory, selects a method, and
// produces the archive entry. All failures are reported through the
// Result so the caller decides what a failure means.
func (p *Pipeline) compressOne(item archive.WorkItem) archive.Result {
	data, err := os.ReadFile(item.SourcePath)
	if err != nil {
		return archive.Result{
			Item: item,
			Err:  &errors.FileError{Path: item.SourcePath, Op: "read", Err: err},
		}
	}

	sample := data
	if len(sample) > strategy.ProbeWindow {
		sample = sample[:strategy.ProbeWindow]
	}
	method := p.selector.Select(item.EntryName, int64(len(data)), sample)

	c, err := p.codecs(method)
	if err != nil {
		return archive.Result{
			Item: item,
			Err:  &errors.FileError{Path: item.SourcePath, Op: "compress", Err: err},
		}
	}

	start := time.Now()
	payload, err := c.Compress(data)
	if err != nil {
		return archive.Result{
			Item: item,
			Err:  &errors.FileError{Path: item.SourcePath, Op: "compress", Err: err},
		}
	}

	// Block codecs signal an incompressible input with an empty result;
	// store the original bytes so the entry stays recoverable.
	if len(payload) == 0 && len(data) > 0 {
		method = codec.MethodStore
		payload = data
	}

	if p.metrics != nil {
		p.metrics.ObserveCompressionDuration(method.String(), time.Since(start).Seconds())
	}

	return archive.Result{
		Item: item,
		Entry: &archive.Entry{
			Name:         item.EntryName,
			Payload:      payload,
			Method:       method,
			OriginalSize: int64(len(data)),
		},
	}
}
