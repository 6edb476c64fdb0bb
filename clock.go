package custodykit

import "time"

// Clock supplies the current time, in unix seconds, for grant timestamps and
// expiry comparisons. The service never reads the wall clock for these
// decisions itself: the clock is injected so that expiry evaluation stays
// deterministic and testable.
type Clock interface {
	Now() int64
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() int64

// Now implements Clock.
func (f ClockFunc) Now() int64 {
	return f()
}

// SystemClock is the default Clock backed by time.Now.
var SystemClock Clock = ClockFunc(func() int64 {
	return time.Now().Unix()
})

// FixedClock returns a Clock pinned to a single instant. Useful in tests.
func FixedClock(now int64) Clock {
	return ClockFunc(func() int64 { return now })
}
