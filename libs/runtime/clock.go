package runtime

import "time"

// Clock returns the current instant. Handlers take one instead of calling time.Now so
// date-relative rules can be tested against a fixed day.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now() }

// FixedClock always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
