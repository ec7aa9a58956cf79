package index

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimingAdd(t *testing.T) {
	sum := Timing{}
	sum.Add(Timing{SearchRemovalNanos: 10, RebalanceNanos: 3})
	sum.Add(Timing{SearchRemovalNanos: 5})
	require.Equal(t, Timing{SearchRemovalNanos: 15, RebalanceNanos: 3}, sum)
	require.Equal(t, int64(18), sum.Total())
}
