// Package clock abstracts the host clock so "today" and the current-time
// indicator can be pinned in tests.
package clock

import "time"

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// System is the host clock.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time { return time.Now() }

// Fixed always returns T.
type Fixed struct{ T time.Time }

// Now returns f.T.
func (f Fixed) Now() time.Time { return f.T }

// Func adapts a function to Clock.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time { return f() }
