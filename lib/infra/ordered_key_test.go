package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	assert.Equal(t, int64(0), Compare(3, 3))
	assert.Equal(t, int64(-1), Compare(1, 3))
	assert.Equal(t, int64(1), Compare(5, 3))
	assert.Equal(t, int64(-1), Compare("a", "b"))
	assert.Equal(t, int64(1), Compare(uint8(2), uint8(1)))

	var cmp OrderedKeyComparator[int64] = Compare[int64]
	assert.Equal(t, int64(1), cmp(-1, -2))
}
