// Package rngutil implements the ports.RNG seeded-stream contract on top of
// math/rand. Stream names are folded into the base seed with FNV-1a so that
// each named operation gets an independent, reproducible generator.
package rngutil

import (
	"hash/fnv"
	"math/rand"
)

// Source derives named deterministic rand streams from a single base seed
type Source struct {
	baseSeed int64
}

// NewSource creates a stream source with the given base seed
func NewSource(baseSeed int64) *Source {
	return &Source{baseSeed: baseSeed}
}

// Stream creates a deterministic random number generator for a named operation
func (s *Source) Stream(name string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(name))
	seed := s.baseSeed ^ int64(h.Sum64())
	return rand.New(rand.NewSource(seed))
}

// BaseSeed returns the seed all streams are derived from
func (s *Source) BaseSeed() int64 {
	return s.baseSeed
}
