package hrtime

import "time"

const nanosPerSecond = int64(time.Second)

// DiffNanos returns end - start in signed nanoseconds.
// The nanosecond part may borrow from the second part, i.e. end.Nsec < start.Nsec
// is a valid input.
func DiffNanos(start, end Timestamp) int64 {
	return (end.Sec-start.Sec)*nanosPerSecond + (end.Nsec - start.Nsec)
}

// Since reads the clock and returns the elapsed nanoseconds from start.
func Since(clock Clock, start Timestamp) int64 {
	return DiffNanos(start, clock.Now())
}

// FromNanos builds a Timestamp from an absolute nanosecond count.
func FromNanos(nanos int64) Timestamp {
	return Timestamp{
		Sec:  nanos / nanosPerSecond,
		Nsec: nanos % nanosPerSecond,
	}
}

func (ts Timestamp) Nanos() int64 {
	return ts.Sec*nanosPerSecond + ts.Nsec
}

// Now reads the process default monotonic clock.
func Now() Timestamp {
	return MonotonicClock.Now()
}
