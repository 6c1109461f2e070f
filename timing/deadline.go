package timing

import "time"

// A Deadline is the absolute point in time at which a run must stop. It does
// not change after it is created.
type Deadline struct {
	at time.Time
}

// NewDeadline returns the deadline that is d after start. A zero or negative
// d gives a deadline that has already passed at start.
func NewDeadline(start time.Time, d time.Duration) Deadline {
	return Deadline{at: start.Add(d)}
}

// At returns the time of the deadline.
func (d Deadline) At() time.Time {
	return d.at
}

// Passed returns true if now is at or after the deadline.
func (d Deadline) Passed(now time.Time) bool {
	return !now.Before(d.at)
}
