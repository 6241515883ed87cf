package pipeline

import (
	"context"
	"sync"

	"github.com/jittakal/adzip/internal/errors"
)

// Queue is a bounded FIFO handoff channel between concurrent producers
// and a single consumer. Push blocks while the queue is full, giving
// backpressure that bounds the memory held by compressed-but-unwritten
// entries. After Close, Pop drains the remaining items and then reports
// end-of-stream; it never blocks forever.
type Queue[T any] struct {
	ch        chan T
	closeOnce sync.Once
	done      chan struct{}
}

// NewQueue creates a bounded queue with the given capacity.
// Capacity must be at least 1.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{
		ch:   make(chan T, capacity),
		done: make(chan struct{}),
	}
}

// Push enqueues one item, blocking while the queue is full. It returns
// the context error if ctx is cancelled first, or errors.ErrQueueClosed
// if the queue has been closed for writing.
func (q *Queue[T]) Push(ctx context.Context, v T) error {
	select {
	case <-q.done:
		return errors.ErrQueueClosed
	default:
	}

	select {
	case q.ch <- v:
		return nil
	case <-q.done:
		return errors.ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop dequeues one item, blocking while the queue is empty. The second
// return value is false once the queue has been closed and drained.
func (q *Queue[T]) Pop() (T, bool) {
	v, ok := <-q.ch
	return v, ok
}

// Close marks the queue closed for writing. Pending items remain
// poppable; once drained, Pop signals end-of-stream. Close is
// idempotent and must be called after all producers have finished.
func (q *Queue[T]) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
		close(q.ch)
	})
}

// Cap returns the configured capacity.
func (q *Queue[T]) Cap() int {
	return cap(q.ch)
}

// Len returns the number of items currently queued.
func (q *Queue[T]) Len() int {
	return len(q.ch)
}
