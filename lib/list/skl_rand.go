package list

import (
	randv2 "math/rand/v2"
)

// randomLevel flips coins with probability P until a tail, capped at maxLevel.
// The generator is injected so a whole run is reproducible from its seed.
func randomLevel(rng *randv2.Rand, maxLevel int32) int32 {
	level := int32(1)
	for level < maxLevel && rng.Float64() < sklProbability {
		level++
	}
	return level
}
