package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/roach88/stalk/internal/event"
	"github.com/roach88/stalk/internal/querysql"
	"github.com/roach88/stalk/internal/store"
)

// Recorder is the contract producers log through. Producers hold only this
// interface, never the engine or the store.
type Recorder interface {
	Record(actorName, actorID string, kind event.ActionKind, detail string, loc *event.Location) error
}

// Searcher is the contract operator-facing callers query through.
type Searcher interface {
	SearchByActor(q ActorQuery, sink Sink) error
	SearchByLocation(loc event.Location, limit int, sink Sink) error
}

// ActorQuery is a search by actor name prefix.
type ActorQuery struct {
	Prefix string

	// Limit <= 0 uses the policy default; larger values are capped.
	Limit int

	// Exclude lists kinds to leave out. Matching is case-insensitive;
	// unknown names are accepted and match nothing.
	Exclude []string

	// SuppressActorID omits the actor id from formatted lines.
	SuppressActorID bool
}

// State is the engine lifecycle state.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateUnavailable // the store failed to open; tasks still drain
	StateShuttingDown
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	case StateShuttingDown:
		return "shutting_down"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Opener opens the store. The default is store.Open.
type Opener func(path string) (*store.Store, error)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock sets the capture clock. Default: SystemClock.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithDisabledActions sets the initial disabled-actions set.
func WithDisabledActions(kinds ...string) Option {
	return func(e *Engine) {
		set := event.NewKindSet(kinds...)
		e.disabled.Store(&set)
	}
}

// WithLimitPolicy sets the search limit policy.
func WithLimitPolicy(p querysql.LimitPolicy) Option {
	return func(e *Engine) {
		e.limits = p
	}
}

// WithFormatter sets how result lines are rendered.
func WithFormatter(f querysql.Formatter) Option {
	return func(e *Engine) {
		e.formatter = f
	}
}

// WithMaxQueueDepth caps the number of pending tasks. Records submitted to
// a full queue are dropped with a warning. Default: 0 (unbounded).
func WithMaxQueueDepth(n int) Option {
	return func(e *Engine) {
		e.maxDepth = n
	}
}

// WithOpener replaces store.Open, mainly for tests.
func WithOpener(open Opener) Option {
	return func(e *Engine) {
		if open != nil {
			e.open = open
		}
	}
}

// Engine is the logging engine facade.
//
// Thread-safety model:
//   - Record, SearchByActor, SearchByLocation, Configure, Flush, Shutdown:
//     safe from any goroutine
//   - the store is touched only by the worker goroutine
type Engine struct {
	path      string
	logger    *slog.Logger
	clock     Clock
	limits    querysql.LimitPolicy
	formatter querysql.Formatter
	open      Opener
	maxDepth  int

	disabled      atomic.Pointer[event.KindSet]
	state         atomic.Int32
	writeFailures atomic.Int64

	queue        *taskQueue
	done         chan struct{}
	shutdownOnce sync.Once

	// Owned by the worker goroutine.
	store *store.Store
}

// Compile-time interface checks.
var (
	_ Recorder = (*Engine)(nil)
	_ Searcher = (*Engine)(nil)
)

// New creates an engine for the database at path and starts its worker.
//
// New returns immediately. The store is opened by the first queued task, so
// a missing driver or slow disk never blocks the caller.
func New(path string, opts ...Option) *Engine {
	e := &Engine{
		path:      path,
		logger:    slog.Default(),
		clock:     SystemClock{},
		limits:    querysql.DefaultLimitPolicy(),
		formatter: querysql.NewFormatter("", nil),
		open:      store.Open,
		done:      make(chan struct{}),
	}
	empty := event.KindSet{}
	e.disabled.Store(&empty)

	for _, opt := range opts {
		opt(e)
	}

	e.queue = newTaskQueue(e.maxDepth)

	if set := *e.disabled.Load(); len(set) > 0 {
		e.logger.Info("disabled log actions", "actions", set.Sorted())
	}

	e.state.Store(int32(StateInitializing))
	// Cannot fail: the queue is fresh.
	_ = e.queue.Enqueue(task{name: "open_store", run: e.openStore})

	go e.run()
	return e
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) stopping() bool {
	return e.State() >= StateShuttingDown
}

// Record logs one occurrence.
//
// Kinds in the disabled set, and events with no kind, are dropped silently. Otherwise the timestamp is
// captured now, on the calling goroutine, and an insert is queued. Store
// failures are logged by the worker and never reach the caller.
//
// Returns ErrShuttingDown once Shutdown has begun.
func (e *Engine) Record(actorName, actorID string, kind event.ActionKind, detail string, loc *event.Location) error {
	k := event.NormalizeKind(string(kind))
	if k == "" {
		e.logger.Debug("dropping event without action kind", "actor", actorName)
		return nil
	}
	if e.disabled.Load().Has(k) {
		return nil
	}
	if e.stopping() {
		return ErrShuttingDown
	}

	rec := event.Record{
		Timestamp: e.clock.Now().UnixMilli(),
		ActorName: actorName,
		ActorID:   actorID,
		Kind:      k,
		Detail:    detail,
	}
	if loc != nil {
		l := *loc
		rec.Location = &l
	}

	err := e.queue.Enqueue(task{
		name:  "insert",
		run:   func(ctx context.Context) error { return e.insert(ctx, rec) },
		attrs: []any{"actor", rec.ActorName, "action", rec.Kind},
	})
	switch {
	case errors.Is(err, errQueueFull):
		e.logger.Warn("queue full, dropping event",
			"actor", rec.ActorName,
			"action", rec.Kind,
			"max_depth", e.maxDepth,
		)
		return nil
	case errors.Is(err, errQueueClosed):
		return ErrShuttingDown
	}
	return err
}

// SearchByActor queues a search for records whose actor name starts with
// q.Prefix, most recent first. Output goes to sink from the worker goroutine;
// the last message sent has Final set.
func (e *Engine) SearchByActor(q ActorQuery, sink Sink) error {
	filter := querysql.ActorFilter{
		Prefix:  q.Prefix,
		Exclude: event.NewKindSet(q.Exclude...),
		Limit:   e.limits.Actor(q.Limit),
	}
	banner := fmt.Sprintf("Searching: %s...", q.Prefix)
	return e.submitSearch("search_actor", banner, filter, q.SuppressActorID, sink)
}

// SearchByLocation queues a search for every record at loc, of any kind.
func (e *Engine) SearchByLocation(loc event.Location, limit int, sink Sink) error {
	filter := querysql.LocationFilter{
		Location: loc,
		Limit:    e.limits.Block(limit),
	}
	banner := fmt.Sprintf("Checking block history at %s...", loc)
	return e.submitSearch("search_location", banner, filter, false, sink)
}

// Configure replaces the disabled-actions set. It applies to Record calls
// made after it returns; events already queued are still written.
func (e *Engine) Configure(disabledActions []string) error {
	if e.stopping() {
		return ErrShuttingDown
	}
	set := event.NewKindSet(disabledActions...)
	e.disabled.Store(&set)
	e.logger.Info("logging configuration updated", "disabled_actions", set.Sorted())
	return nil
}

// WriteFailures returns how many inserts have failed after the store opened.
func (e *Engine) WriteFailures() int64 {
	return e.writeFailures.Load()
}

// DisabledActions returns the current disabled set, sorted.
func (e *Engine) DisabledActions() []event.ActionKind {
	return e.disabled.Load().Sorted()
}

// Flush blocks until every task submitted before the call has executed, or
// ctx is done.
func (e *Engine) Flush(ctx context.Context) error {
	if e.stopping() {
		return ErrShuttingDown
	}

	reached := make(chan struct{})
	err := e.queue.EnqueueBarrier(task{name: "flush", run: func(context.Context) error {
		close(reached)
		return nil
	}})
	if errors.Is(err, errQueueClosed) {
		return ErrShuttingDown
	}
	if err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	select {
	case <-reached:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting work, drains every queued task in order, closes
// the store, and returns once the worker has exited. Safe to call more than
// once; later calls wait for the first to finish.
func (e *Engine) Shutdown() {
	e.shutdownOnce.Do(func() {
		e.state.Store(int32(StateShuttingDown))
		e.logger.Info("engine shutting down", "pending", e.queue.Len())

		e.queue.CloseWith(task{name: "close_store", run: e.closeStore})
		<-e.done

		e.state.Store(int32(StateClosed))
		e.logger.Info("engine stopped")
	})
}

// Done is closed when the worker has exited.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// run is the worker loop. It exits once the queue is closed and drained.
// CRITICAL: the only goroutine that touches e.store.
func (e *Engine) run() {
	defer close(e.done)

	e.logger.Debug("engine worker starting")
	ctx := context.Background()

	for {
		if t, ok := e.queue.TryDequeue(); ok {
			e.execute(ctx, t)
			continue
		}
		if e.queue.Drained() {
			return
		}
		<-e.queue.Wait()
	}
}

// execute runs one task. Errors are logged, panics are recovered; either
// way the worker continues with the next task.
func (e *Engine) execute(ctx context.Context, t task) {
	defer func() {
		if r := recover(); r != nil {
			attrs := append([]any{"task", t.name, "panic", r}, t.attrs...)
			e.logger.Error("task panicked", attrs...)
		}
	}()

	if err := t.run(ctx); err != nil {
		attrs := append([]any{"task", t.name, "error", err}, t.attrs...)
		e.logger.Warn("task failed", attrs...)
	}
}

func (e *Engine) openStore(context.Context) error {
	s, err := e.open(e.path)
	if err != nil {
		e.state.CompareAndSwap(int32(StateInitializing), int32(StateUnavailable))
		e.logger.Error("failed to initialize database", "path", e.path, "error", err)
		return nil
	}

	e.store = s
	e.state.CompareAndSwap(int32(StateInitializing), int32(StateReady))
	e.logger.Info("database initialized", "path", e.path)
	return nil
}

func (e *Engine) closeStore(context.Context) error {
	if e.store == nil {
		return nil
	}
	s := e.store
	e.store = nil
	if err := s.Close(); err != nil {
		return &StoreError{Code: ErrCodeWriteFailure, Op: "close", Err: err}
	}
	return nil
}

func (e *Engine) insert(ctx context.Context, rec event.Record) error {
	if e.store == nil {
		return &StoreError{Code: ErrCodeStoreUnavailable, Op: "insert", Err: errNotConnected}
	}
	if _, err := e.store.Insert(ctx, rec); err != nil {
		e.writeFailures.Add(1)
		return &StoreError{Code: ErrCodeWriteFailure, Op: "insert", Err: err}
	}
	return nil
}

// compiler is implemented by the querysql filters.
type compiler interface {
	Compile() (string, []any, error)
}

func (e *Engine) submitSearch(name, banner string, c compiler, suppressActorID bool, sink Sink) error {
	if sink == nil {
		sink = discard
	}
	if e.stopping() {
		return ErrShuttingDown
	}

	err := e.queue.Enqueue(task{
		name: name,
		run: func(ctx context.Context) error {
			return e.search(ctx, banner, c, suppressActorID, sink)
		},
	})
	switch {
	case errors.Is(err, errQueueFull):
		sink.Send(Message{Kind: MessageError, Text: "Search rejected: queue is full.", Final: true})
		return nil
	case errors.Is(err, errQueueClosed):
		return ErrShuttingDown
	}
	return err
}

// search runs on the worker. Every path ends with exactly one Final message.
func (e *Engine) search(ctx context.Context, banner string, c compiler, suppressActorID bool, sink Sink) error {
	if e.store == nil {
		sink.Send(Message{Kind: MessageError, Text: "Database not connected.", Final: true})
		return &StoreError{Code: ErrCodeStoreUnavailable, Op: "search", Err: errNotConnected}
	}

	sink.Send(Message{Kind: MessageInfo, Text: banner})

	sql, params, err := c.Compile()
	if err == nil {
		var records []event.Record
		records, err = e.store.Select(ctx, sql, params)
		if err == nil {
			e.deliver(records, suppressActorID, sink)
			return nil
		}
	}

	sink.Send(Message{Kind: MessageError, Text: "Query error: " + err.Error(), Final: true})
	return &StoreError{Code: ErrCodeQueryFailure, Op: "search", Err: err}
}

func (e *Engine) deliver(records []event.Record, suppressActorID bool, sink Sink) {
	for i := range records {
		rec := records[i]
		line := e.formatter.Line(rec, suppressActorID)
		if suppressActorID {
			// Only the outgoing copy; the stored row keeps its id.
			rec.ActorID = ""
		}
		sink.Send(Message{Kind: MessageRow, Text: line, Record: &rec})
	}

	if len(records) == 0 {
		sink.Send(Message{Kind: MessageEmpty, Text: "No records found.", Final: true})
		return
	}
	sink.Send(Message{
		Kind:  MessageSummary,
		Text:  fmt.Sprintf("Shown %d records.", len(records)),
		Final: true,
	})
}
