package clock

import "time"

// Clock is the source of "now" for state transitions.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock in UTC, truncated to microseconds so values
// round-trip through PostgreSQL timestamptz unchanged.
type Real struct{}

func (Real) Now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// Func adapts a function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }
