package doorlock

import "time"

// Clock abstracts time so the auto-lock timer can be driven manually in
// tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a scheduled callback that can be stopped.
type Timer interface {
	// Stop cancels the timer. It reports whether the call prevented the
	// callback from running; stopping an already-fired timer is a no-op.
	Stop() bool
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}
