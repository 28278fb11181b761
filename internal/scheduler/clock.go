package scheduler

import "time"

// Clock supplies the current time to a Scheduler.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// FixedClock always returns the same instant.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
