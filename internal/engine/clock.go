package engine

import "time"

// Clock supplies capture timestamps for records.
//
// Now is called on the producer's goroutine, so implementations must be
// safe for concurrent use.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}
