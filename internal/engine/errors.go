package engine

import (
	"errors"
	"fmt"
)

// ErrShuttingDown is returned by entry points called after Shutdown began.
var ErrShuttingDown = errors.New("engine is shutting down")

// errNotConnected marks operations attempted without an open store.
var errNotConnected = errors.New("database not connected")

// StoreErrorCode categorizes store failures seen by the worker.
type StoreErrorCode string

const (
	// ErrCodeStoreUnavailable indicates the store never opened.
	ErrCodeStoreUnavailable StoreErrorCode = "STORE_UNAVAILABLE"

	// ErrCodeWriteFailure indicates an insert failed after the store opened.
	ErrCodeWriteFailure StoreErrorCode = "WRITE_FAILURE"

	// ErrCodeQueryFailure indicates a search statement failed.
	ErrCodeQueryFailure StoreErrorCode = "QUERY_FAILURE"
)

// StoreError is a failure inside a worker task. It is logged, and for
// searches reported to the sink, but never returned to producers.
type StoreError struct {
	Code StoreErrorCode
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Op)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreUnavailable returns true if the error is a STORE_UNAVAILABLE error.
// Uses errors.As to handle wrapped errors.
func IsStoreUnavailable(err error) bool {
	return hasCode(err, ErrCodeStoreUnavailable)
}

// IsWriteFailure returns true if the error is a WRITE_FAILURE error.
func IsWriteFailure(err error) bool {
	return hasCode(err, ErrCodeWriteFailure)
}

// IsQueryFailure returns true if the error is a QUERY_FAILURE error.
func IsQueryFailure(err error) bool {
	return hasCode(err, ErrCodeQueryFailure)
}

func hasCode(err error, code StoreErrorCode) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
