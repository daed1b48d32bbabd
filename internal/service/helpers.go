package service

import "time"

// Clock abstracts wall-clock reads so services and jobs can be driven with a
// fixed date in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func NewSystemClock() Clock { return systemClock{} }

// Today truncates the clock's current time to a local calendar date.
func Today(clock Clock) time.Time {
	y, m, d := clock.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
