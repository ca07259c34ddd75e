package engine

import "github.com/roach88/stalk/internal/event"

// MessageKind classifies search output.
type MessageKind int

const (
	// MessageInfo announces that a search started.
	MessageInfo MessageKind = iota + 1
	// MessageRow carries one formatted record.
	MessageRow
	// MessageEmpty reports that the search ran and matched nothing.
	MessageEmpty
	// MessageSummary reports how many rows were shown.
	MessageSummary
	// MessageError reports that the search could not run.
	MessageError
)

func (k MessageKind) String() string {
	switch k {
	case MessageInfo:
		return "info"
	case MessageRow:
		return "row"
	case MessageEmpty:
		return "empty"
	case MessageSummary:
		return "summary"
	case MessageError:
		return "error"
	default:
		return "unknown"
	}
}

// Message is one line of search output.
type Message struct {
	Kind MessageKind
	Text string

	// Record is set for MessageRow.
	Record *event.Record

	// Final marks the last message a search will send.
	Final bool
}

// Sink receives search output. Send is called from the engine's worker
// goroutine; a slow Sink delays every task queued behind the search.
type Sink interface {
	Send(Message)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Message)

// Send calls f(m).
func (f SinkFunc) Send(m Message) {
	f(m)
}

var discard = SinkFunc(func(Message) {})
