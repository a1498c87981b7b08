// Package clock provides the wall-clock source and one-shot timers used to
// drive the soundscape timeline, with a controllable mock for tests.
package clock

import "time"

// Timer is a pending one-shot callback
type Timer interface {
	// Stop cancels the callback, returns false if it already fired or was stopped
	Stop() bool
}

// Clock reads the current time and arms one-shot timers
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real provides the system time with monotonic clock readings
type Real struct{}

// New creates a real clock
func New() *Real {
	return &Real{}
}

// Now returns the current time with monotonic clock reading
func (Real) Now() time.Time {
	return time.Now()
}

// AfterFunc runs f on its own goroutine after d
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
