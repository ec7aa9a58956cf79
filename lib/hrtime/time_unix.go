//go:build !windows
// +build !windows

package hrtime

import (
	"github.com/samber/lo"
	"golang.org/x/sys/unix"
)

var MonotonicClock Clock = &unixMonotonicClock{}

func init() {
	// Fails only if CLOCK_MONOTONIC is unsupported, nothing can be measured then.
	ts := unix.Timespec{}
	lo.Must0(unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts))
}

type unixMonotonicClock struct{}

func (c *unixMonotonicClock) Now() Timestamp {
	ts := unix.Timespec{}
	_ = unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts)
	return Timestamp{
		Sec:  int64(ts.Sec),
		Nsec: int64(ts.Nsec),
	}
}
