package shuffle

import "github.com/matzehuels/blockshuffle/pkg/blocks"

// Cycles decomposes the content permutation of derived.
//
// The permutation maps slot i to the home slot of the content slot i
// currently shows. Each cycle starts at its smallest slot and follows that
// mapping. Fixed points are omitted, so a resolved table has no cycles;
// a slot that holds its own content at a foreign placement is a fixed point
// as well.
func Cycles[P comparable](canonical, derived *blocks.Table[P]) [][]int {
	check(canonical, derived)
	ix := canonical.Index()
	seen := make([]bool, derived.Size)
	var cycles [][]int
	for start := range derived.Slots {
		if seen[start] {
			continue
		}
		var cycle []int
		for i := start; !seen[i]; i = home(ix, derived.Slots[i].Pixels) {
			seen[i] = true
			cycle = append(cycle, i)
		}
		if len(cycle) > 1 {
			cycles = append(cycles, cycle)
		}
	}
	return cycles
}
