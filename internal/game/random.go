package game

import (
	"hash/fnv"
	"math/rand"
)

// deterministicSeedValue folds the session seed and a subsystem label into a
// stable rand source seed.
func deterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

func newDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(deterministicSeedValue(rootSeed, label)))
}
