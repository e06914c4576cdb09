package shuffle

import (
	"math/rand/v2"

	"github.com/matzehuels/blockshuffle/pkg/blocks"
)

// NewRand returns a PCG-backed generator for seed. A zero seed draws a
// random one.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Scramble returns a derived table where slot i keeps its placement and shows
// the content of slot π(i), π drawn uniformly from all permutations.
func Scramble[P comparable](t *blocks.Table[P], rng *rand.Rand) *blocks.Table[P] {
	perm := rng.Perm(t.Size)
	derived := t.Clone()
	for i, j := range perm {
		derived.Slots[i].Pixels = t.Slots[j].Pixels
	}
	return derived
}
