package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/roach88/stalk/internal/config"
	"github.com/roach88/stalk/internal/engine"
)

// shutdownTimeout bounds how long a command waits for queued work.
const shutdownTimeout = 30 * time.Second

// loadConfig reads --config and applies --db.
func (o *RootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.Config)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Database != "" {
		cfg.Database = o.Database
	}
	return cfg, nil
}

// openEngine starts an engine configured from cfg. The database directory
// is created if needed.
func (o *RootOptions) openEngine(cfg config.Config) (*engine.Engine, error) {
	if dir := filepath.Dir(cfg.Database); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to create database directory", err)
		}
	}

	logger := o.Logger()
	logger.Debug("opening database", "path", cfg.Database)

	return engine.New(cfg.Database,
		engine.WithLogger(logger),
		engine.WithDisabledActions(cfg.DisabledActions()...),
		engine.WithLimitPolicy(cfg.LimitPolicy()),
		engine.WithFormatter(cfg.Formatter()),
		engine.WithMaxQueueDepth(cfg.Queue.MaxDepth),
	), nil
}

// settle waits for queued work and reports whether it reached the store.
// eng must be the engine of the current command, so any write failure it
// counts belongs to this run.
func settle(ctx context.Context, eng *engine.Engine) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := eng.Flush(ctx); err != nil {
		return WrapExitError(ExitFailure, "waiting for queued events", err)
	}
	if eng.State() == engine.StateUnavailable {
		return NewExitError(ExitFailure, "database unavailable")
	}
	if n := eng.WriteFailures(); n > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d events were not written", n))
	}
	return nil
}

// collectSink gathers one search's messages until the final one.
type collectSink struct {
	mu       sync.Mutex
	messages []engine.Message
	done     chan struct{}
	once     sync.Once
}

func newCollectSink() *collectSink {
	return &collectSink{done: make(chan struct{})}
}

func (s *collectSink) Send(m engine.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
	if m.Final {
		s.once.Do(func() { close(s.done) })
	}
}

// wait blocks until the final message or ctx is done.
func (s *collectSink) wait(ctx context.Context) ([]engine.Message, error) {
	select {
	case <-s.done:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for search results: %w", ctx.Err())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]engine.Message, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

// runSearch submits a search through submit, waits for it, renders it,
// and shuts the engine down.
func runSearch(ctx context.Context, eng *engine.Engine, out *OutputFormatter, submit func(engine.Sink) error) error {
	defer eng.Shutdown()

	sink := newCollectSink()
	if err := submit(sink); err != nil {
		return WrapExitError(ExitFailure, "search rejected", err)
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	messages, err := sink.wait(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "search did not complete", err)
	}
	return out.renderSearch(messages)
}
