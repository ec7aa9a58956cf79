//go:build windows
// +build windows

package hrtime

import "time"

var (
	MonotonicClock Clock = &goMonotonicClock{}
	appStartTime         = time.Now()
)

// goMonotonicClock relies on the monotonic reading carried by time.Time.
type goMonotonicClock struct{}

func (c *goMonotonicClock) Now() Timestamp {
	return FromNanos(time.Since(appStartTime).Nanoseconds())
}
