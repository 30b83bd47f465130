// Package randsrc hands out deterministic, independent random streams keyed by name.
package randsrc

import (
	"hash/fnv"
	"math/rand/v2"
)

// Factory derives one PCG stream per key from a base seed, so a system's
// draws do not depend on which other systems ran before it.
type Factory struct {
	seed uint64
}

// NewFactory returns a factory for seed.
func NewFactory(seed uint64) *Factory {
	return &Factory{seed: seed}
}

// Seed returns the base seed.
func (f *Factory) Seed() uint64 {
	return f.seed
}

// For returns a fresh stream for key.
func (f *Factory) For(key string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(key))
	return rand.New(rand.NewPCG(f.seed, h.Sum64()))
}
