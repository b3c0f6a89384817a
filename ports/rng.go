package ports

import (
	"math/rand"
)

// RNG provides seeded random number generation for deterministic operations.
// Both the synthetic data generator and the Monte Carlo propagator consume
// *rand.Rand streams obtained here, never the global source, so repeated runs
// with the same base seed reproduce bit-identical samples.
type RNG interface {
	// Stream creates a deterministic random number generator for a named
	// operation. Streams with distinct names are statistically independent
	// even when derived from the same base seed.
	Stream(name string) *rand.Rand

	// BaseSeed returns the seed all streams are derived from
	BaseSeed() int64
}
