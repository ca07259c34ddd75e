package testutil

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/roach88/stalk/internal/engine"
)

// RecordingSink collects search output for assertions.
type RecordingSink struct {
	mu       sync.Mutex
	messages []engine.Message
	final    chan struct{}
	once     sync.Once
}

// NewRecordingSink returns an empty sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{final: make(chan struct{})}
}

// Send implements engine.Sink.
func (s *RecordingSink) Send(m engine.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
	if m.Final {
		s.once.Do(func() { close(s.final) })
	}
}

// Wait blocks until a Final message arrives, failing the test after timeout.
// Returns every message received.
func (s *RecordingSink) Wait(t testing.TB, timeout time.Duration) []engine.Message {
	t.Helper()
	select {
	case <-s.final:
	case <-time.After(timeout):
		t.Fatalf("no final message within %s; got %d messages", timeout, len(s.Messages()))
	}
	return s.Messages()
}

// Messages returns a copy of everything received so far.
func (s *RecordingSink) Messages() []engine.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]engine.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// OfKind filters messages by kind.
func OfKind(messages []engine.Message, kind engine.MessageKind) []engine.Message {
	var out []engine.Message
	for _, m := range messages {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// LogBuffer is an io.Writer safe for use as a slog handler target shared
// between goroutines.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything written so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
