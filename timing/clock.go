// Package timing provides the wall-clock source and deadlines used to bound
// stress runs.
package timing

import (
	"math"
	"time"
)

// A Clock tells the current time.
type Clock interface {
	Now() time.Time
}

// WallClock is a Clock backed by the system time.
type WallClock struct{}

// Now returns the current system time.
func (WallClock) Now() time.Time {
	return time.Now()
}

// SecondsToDuration converts a number of seconds into a duration, rounded to
// the nearest nanosecond.
func SecondsToDuration(sec float64) time.Duration {
	return time.Duration(math.Round(sec * float64(time.Second)))
}
