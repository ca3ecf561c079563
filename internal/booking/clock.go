package booking

import "time"

// Clock abstracts wall-clock time so policy checks and the expiration
// sweeper can be tested without real delays.  All implementations must
// return UTC times.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now returns the current time in UTC.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always reports the same instant.  Intended for tests and for
// replaying policy decisions at a known point in time.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant in UTC.
func (f FixedClock) Now() time.Time { return f.At.UTC() }
