// Package event defines the immutable activity records written to the audit
// log and the fixed set of action kinds producers may attach to them.
//
// A Record is created once per occurrence on the producer's goroutine and is
// never mutated afterwards. The store assigns the surrogate ID on insert; the
// Timestamp is the capture time, not the time the record reached disk.
package event
