// Package engine implements the activity logging engine.
//
// ARCHITECTURE:
//
// Single-Writer Worker:
// Every store operation (open, insert, select, close) runs as a task on one
// worker goroutine that exclusively owns the *store.Store. Producers call
// Record from any goroutine; Record does only in-memory work (a set lookup,
// a clock read, a struct copy) and enqueues an insert task. It never waits
// on I/O.
//
// Task Flow:
//  1. New enqueues the store-open task and starts the worker
//  2. Record / SearchByActor / SearchByLocation enqueue tasks (FIFO)
//  3. The worker executes tasks one at a time in submission order
//  4. Search results are delivered to a caller-supplied Sink from the worker
//  5. Shutdown appends a store-close task, drains the queue, and waits
//
// Because inserts and queries share the same FIFO, a search submitted after
// a Record observes that record.
//
// ERROR HANDLING:
// A task's error is logged and the worker moves on; a panic inside a task is
// recovered and logged. Failed writes are not retried. The only error the
// public entry points return is ErrShuttingDown.
//
// STATES:
//
//	Initializing -> Ready | Unavailable -> ShuttingDown -> Closed
//
// Calls made while Initializing are queued behind the open task, so callers
// never observe the difference between "not yet open" and "open".
package engine
