package hrtime

// Timestamp is a monotonic clock reading split the same way as the
// kernel timespec. Only differences between two readings are meaningful.
type Timestamp struct {
	Sec  int64
	Nsec int64
}

// Clock is the monotonic time source consumed by the timed index
// operations. Tests inject a deterministic implementation.
type Clock interface {
	Now() Timestamp
}

// ClockFunc adapts an ordinary function to Clock.
type ClockFunc func() Timestamp

func (fn ClockFunc) Now() Timestamp {
	return fn()
}
