package percolation

import (
	"math/rand/v2"
	"time"
)

// ResolveSeed maps the caller-facing seed convention to a concrete RNG
// seed: zero means "pick one from the clock", anything else is used as-is.
// Callers resolve once and echo the result so a random run can be replayed.
func ResolveSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	s := uint64(time.Now().UnixNano())
	if s == 0 {
		s = 1
	}
	return s
}

// GenerateThresholds draws one activation threshold in [0, 1) per node from
// a PCG stream keyed by seed. The same seed always yields the same
// configuration.
func GenerateThresholds(n int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed))
	thresholds := make([]float64, n)
	for i := range thresholds {
		thresholds[i] = rng.Float64()
	}
	return thresholds
}
