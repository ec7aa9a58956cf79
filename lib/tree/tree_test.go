package tree

import (
	"github.com/benz9527/idxbench/lib/hrtime"
)

// stepClock advances one nanosecond on every reading, so each timed
// phase of a deletion measures exactly 1ns.
type stepClock struct {
	nanos int64
}

func (c *stepClock) Now() hrtime.Timestamp {
	c.nanos++
	return hrtime.FromNanos(c.nanos)
}
