package hclust

import "math/rand"

// defaultSeed is used when the caller leaves the seed at zero, so that an
// unconfigured run is still reproducible.
const defaultSeed int64 = 1

// rngFromSeed returns a deterministic generator. A *rand.Rand is not safe
// for concurrent use; each run owns its own.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}
	return rand.New(rand.NewSource(seed))
}

// insertionOrder returns a seeded permutation of 0..n-1.
func insertionOrder(n int, seed int64) []int {
	return rngFromSeed(seed).Perm(n)
}
