package engine

import (
	"context"
	"errors"
	"sync"
)

var (
	errQueueClosed = errors.New("queue closed")
	errQueueFull   = errors.New("queue full")
)

// task is one unit of work for the worker.
type task struct {
	name  string
	run   func(ctx context.Context) error
	attrs []any // extra slog attributes when the task fails
}

// taskQueue is a thread-safe FIFO queue of tasks.
//
// The queue is unbounded unless maxDepth > 0. When capped, Enqueue fails
// fast with errQueueFull instead of blocking the producer.
//
// The queue uses a channel for signaling so the worker can sleep while
// empty without polling.
type taskQueue struct {
	mu       sync.Mutex
	tasks    []task
	closed   bool
	maxDepth int
	signal   chan struct{} // Signals task availability (buffered, size 1)
}

// newTaskQueue creates an empty queue. maxDepth <= 0 means unbounded.
func newTaskQueue(maxDepth int) *taskQueue {
	return &taskQueue{
		tasks:    make([]task, 0, 64),
		maxDepth: maxDepth,
		signal:   make(chan struct{}, 1),
	}
}

// Enqueue adds a task to the back of the queue.
// Thread-safe: may be called from any goroutine. Never blocks.
func (q *taskQueue) Enqueue(t task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return errQueueClosed
	}
	if q.maxDepth > 0 && len(q.tasks) >= q.maxDepth {
		return errQueueFull
	}

	q.tasks = append(q.tasks, t)
	q.notify()
	return nil
}

// EnqueueBarrier adds a task that ignores maxDepth. Barriers carry no
// event data, so they are admitted even when the queue is full.
func (q *taskQueue) EnqueueBarrier(t task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return errQueueClosed
	}

	q.tasks = append(q.tasks, t)
	q.notify()
	return nil
}

// CloseWith appends a final task and closes the queue in one step, so no
// other task can be admitted after it. Tasks already queued are kept.
// Returns false if the queue was already closed.
func (q *taskQueue) CloseWith(final task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.tasks = append(q.tasks, final)
	q.closed = true
	close(q.signal) // Wakes the worker; stays readable from now on
	return true
}

// notify signals availability. Non-blocking: the buffer of 1 coalesces
// multiple signals. Caller holds q.mu.
func (q *taskQueue) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// TryDequeue removes and returns the front task without blocking.
// Returns (task{}, false) if the queue is empty.
func (q *taskQueue) TryDequeue() (task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return task{}, false
	}

	t := q.tasks[0]

	// Nil out the slot so the closure and its captures can be collected.
	q.tasks[0] = task{}

	if len(q.tasks) == 1 {
		q.tasks = q.tasks[:0]
	} else {
		q.tasks = q.tasks[1:]
	}

	return t, true
}

// Wait returns a channel that signals when tasks may be available.
// After CloseWith the channel is closed and always ready.
func (q *taskQueue) Wait() <-chan struct{} {
	return q.signal
}

// Drained reports whether the queue is closed and empty.
func (q *taskQueue) Drained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.tasks) == 0
}

// Len returns the current queue length.
func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
