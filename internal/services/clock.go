package services

import "time"

// Clock abstracts time for deterministic tests of day-boundary logic.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func SystemClock() Clock {
	return systemClock{}
}

// ClockFunc adapts a plain function into a Clock.
type ClockFunc func() time.Time

func (clock ClockFunc) Now() time.Time {
	return clock()
}
