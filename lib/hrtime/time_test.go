package hrtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffNanos(t *testing.T) {
	testcases := []struct {
		name       string
		start, end Timestamp
		want       int64
	}{
		{
			name:  "same second",
			start: Timestamp{Sec: 10, Nsec: 100},
			end:   Timestamp{Sec: 10, Nsec: 350},
			want:  250,
		},
		{
			name:  "nanosecond borrow",
			start: Timestamp{Sec: 10, Nsec: 999_999_900},
			end:   Timestamp{Sec: 11, Nsec: 50},
			want:  150,
		},
		{
			name:  "multiple seconds",
			start: Timestamp{Sec: 1, Nsec: 500_000_000},
			end:   Timestamp{Sec: 4, Nsec: 0},
			want:  2_500_000_000,
		},
		{
			name:  "negative",
			start: Timestamp{Sec: 5, Nsec: 0},
			end:   Timestamp{Sec: 4, Nsec: 999_999_999},
			want:  -1,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			assert.Equal(tt, tc.want, DiffNanos(tc.start, tc.end))
		})
	}
}

func TestFromNanos(t *testing.T) {
	ts := FromNanos(3_000_000_042)
	assert.Equal(t, Timestamp{Sec: 3, Nsec: 42}, ts)
	assert.Equal(t, int64(3_000_000_042), ts.Nanos())
}

func TestMonotonicClock(t *testing.T) {
	start := Now()
	time.Sleep(20 * time.Millisecond)
	elapsed := Since(MonotonicClock, start)
	require.GreaterOrEqual(t, elapsed, int64(20*time.Millisecond))
	t.Logf("elapsed ns: %d", elapsed)
}

func TestClockFunc(t *testing.T) {
	tick := int64(0)
	clock := ClockFunc(func() Timestamp {
		tick += 7
		return FromNanos(tick)
	})
	start := clock.Now()
	assert.Equal(t, int64(7), Since(clock, start))
}
