package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/stalk/internal/engine"
	"github.com/roach88/stalk/internal/event"
	"github.com/roach88/stalk/internal/ingest"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The operation ran but failed (query error, store unavailable)
	ExitCommandError = 2 // Bad invocation (invalid arguments, unreadable config)
)

// Error codes used in JSON error responses.
const (
	CodeConfig = "E001" // configuration could not be loaded
	CodeInput  = "E002" // invalid arguments or input stream
	CodeStore  = "E003" // database unavailable
	CodeSearch = "E004" // search failed or was rejected
)

// ExitError is an error carrying the process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps err with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// nil maps to ExitSuccess; errors that are not ExitErrors map to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as text or JSON.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	Verbose bool
}

// CLIResponse is the JSON envelope for every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error part of a JSON response.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success outputs data in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// RecordView is the JSON form of a search row. Its fields line up with
// ingest.Line so search output can be replayed.
type RecordView struct {
	ID        int64            `json:"id"`
	Timestamp int64            `json:"timestamp"`
	Actor     string           `json:"actor"`
	ActorID   string           `json:"actor_id,omitempty"`
	Action    string           `json:"action"`
	Detail    string           `json:"detail,omitempty"`
	Location  *ingest.Location `json:"location,omitempty"`
	Line      string           `json:"line"`
}

// SearchResult is the JSON payload of search and block.
type SearchResult struct {
	Query   string       `json:"query"`
	Count   int          `json:"count"`
	Records []RecordView `json:"records"`
}

func newRecordView(rec event.Record, line string) RecordView {
	v := RecordView{
		ID:        rec.ID,
		Timestamp: rec.Timestamp,
		Actor:     rec.ActorName,
		ActorID:   rec.ActorID,
		Action:    rec.Kind.String(),
		Detail:    rec.Detail,
		Line:      line,
	}
	if rec.Location != nil {
		v.Location = &ingest.Location{
			World: rec.Location.World,
			X:     rec.Location.X,
			Y:     rec.Location.Y,
			Z:     rec.Location.Z,
		}
	}
	return v
}

// renderSearch writes a completed search. Text output mirrors the message
// stream line by line; JSON output is a single SearchResult.
//
// A search whose final message is an error returns an ExitError.
func (f *OutputFormatter) renderSearch(messages []engine.Message) error {
	var (
		final  engine.Message
		result = SearchResult{Records: []RecordView{}}
	)
	for _, m := range messages {
		switch m.Kind {
		case engine.MessageInfo:
			result.Query = m.Text
		case engine.MessageRow:
			if m.Record != nil {
				result.Records = append(result.Records, newRecordView(*m.Record, m.Text))
			}
		}
		if m.Final {
			final = m
		}
	}
	result.Count = len(result.Records)

	if f.Format != "json" {
		for _, m := range messages {
			fmt.Fprintln(f.Writer, m.Text)
		}
		if final.Kind == engine.MessageError {
			return NewExitError(ExitFailure, final.Text)
		}
		return nil
	}

	if final.Kind == engine.MessageError {
		if err := f.Error(CodeSearch, final.Text, nil); err != nil {
			return err
		}
		return NewExitError(ExitFailure, final.Text)
	}
	return f.Success(result)
}
