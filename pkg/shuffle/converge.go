package shuffle

import (
	"iter"
	"math/rand/v2"

	"github.com/matzehuels/blockshuffle/pkg/blocks"
	"github.com/matzehuels/blockshuffle/pkg/errors"
)

// Unscramble resolves derived in one pass.
//
// Slots are visited in index order. At the first mismatched slot of a cycle,
// the slot receives the canonical block recorded for its placement, and the
// content it held is carried to its home slot, whose content is carried on
// in turn until the cycle closes.
func Unscramble[P comparable](canonical, derived *blocks.Table[P]) (bool, *blocks.Table[P]) {
	check(canonical, derived)
	next := derived.Clone()
	if resolved(next) {
		return true, next
	}
	for i := range next.Slots {
		resolveAt(next, i)
	}
	return false, next
}

// GenUnscramble returns the steps of [Unscramble] as a lazy sequence.
//
// It yields once per slot, after that slot's cycle has been resolved, with
// an independent snapshot of the table. The flag is true only for the step
// at index checkpoint; pass a negative checkpoint to disable it. The
// sequence can be ranged over once; later ranges yield nothing.
func GenUnscramble[P comparable](canonical, derived *blocks.Table[P], checkpoint int) iter.Seq2[bool, *blocks.Table[P]] {
	check(canonical, derived)
	consumed := false
	return func(yield func(bool, *blocks.Table[P]) bool) {
		if consumed {
			return
		}
		consumed = true

		t := derived.Clone()
		for i := range t.Slots {
			resolveAt(t, i)
			if !yield(i == checkpoint, t.Clone()) {
				return
			}
		}
	}
}

// UnscrambleRandom reassigns content among the mismatched slots of derived
// with a random permutation. Slots that come out right stay right on later
// calls; the rest are reshuffled again.
func UnscrambleRandom[P comparable](canonical, derived *blocks.Table[P], rng *rand.Rand) (bool, *blocks.Table[P]) {
	wrong := Mismatches(canonical, derived)
	next := derived.Clone()
	if len(wrong) == 0 {
		return true, next
	}

	ix := canonical.Index()
	perm := rng.Perm(len(wrong))
	for k, q := range wrong {
		b := ix.Block(q)
		b.Pixels = ix.Block(wrong[perm[k]]).Pixels
		next.Slots[q] = b
	}
	return false, next
}

// ScrambleOne swaps the content of one random mismatched slot with the slot
// currently holding that slot's canonical content. Only the first slot is
// drawn at random; its partner is determined by the table. The chosen slot
// always ends up resolved, so at most len(Mismatches)-1 calls reach done.
func ScrambleOne[P comparable](canonical, derived *blocks.Table[P], rng *rand.Rand) (bool, *blocks.Table[P]) {
	wrong := Mismatches(canonical, derived)
	next := derived.Clone()
	if len(wrong) == 0 {
		return true, next
	}

	ix := canonical.Index()
	i := wrong[rng.IntN(len(wrong))]
	want := ix.Block(i)
	s := holder(next, want.Pixels)
	next.Slots[s].Pixels = next.Slots[i].Pixels
	next.Slots[i] = want
	return false, next
}

// PerturbOne swaps the content of two random slots that are still resolved.
// It reports done once fewer than two resolved slots remain.
func PerturbOne[P comparable](canonical, derived *blocks.Table[P], rng *rand.Rand) (bool, *blocks.Table[P]) {
	check(canonical, derived)
	next := derived.Clone()

	ix := canonical.Index()
	var right []int
	for i, b := range derived.Slots {
		if b == ix.Block(i) {
			right = append(right, i)
		}
	}
	if len(right) < 2 {
		return true, next
	}

	a := rng.IntN(len(right))
	b := rng.IntN(len(right) - 1)
	if b >= a {
		b++
	}
	i, j := right[a], right[b]
	next.Slots[i].Pixels, next.Slots[j].Pixels = next.Slots[j].Pixels, next.Slots[i].Pixels
	return false, next
}

// Mismatches returns the slots of derived that differ from canonical, in
// index order.
func Mismatches[P comparable](canonical, derived *blocks.Table[P]) []int {
	check(canonical, derived)
	ix := canonical.Index()
	var wrong []int
	for i, b := range derived.Slots {
		if b != ix.Block(i) {
			wrong = append(wrong, i)
		}
	}
	return wrong
}

// Resolved reports whether derived equals canonical in every slot.
func Resolved[P comparable](canonical, derived *blocks.Table[P]) bool {
	check(canonical, derived)
	return resolved(derived)
}

func resolved[P comparable](t *blocks.Table[P]) bool {
	ix := t.Index()
	for i, b := range t.Slots {
		if b != ix.Block(i) {
			return false
		}
	}
	return true
}

// resolveAt resolves the cycle through slot i in place.
func resolveAt[P comparable](t *blocks.Table[P], i int) {
	ix := t.Index()
	want := ix.Block(i)
	if t.Slots[i] == want {
		return
	}

	pixels, ok := ix.Lookup(want.Left, want.Top)
	if !ok {
		errors.Invariant("no canonical block at (%d,%d)", want.Left, want.Top)
	}
	carried := t.Slots[i].Pixels
	t.Slots[i] = blocks.Block[P]{Pixels: pixels, Left: want.Left, Top: want.Top}

	for range t.Size {
		j := home(ix, carried)
		if j == i {
			return
		}
		carried, t.Slots[j] = t.Slots[j].Pixels, ix.Block(j)
	}
	errors.Invariant("cycle through slot %d does not close", i)
}

func home[P comparable](ix *blocks.Index[P], p P) int {
	j, ok := ix.Home(p)
	if !ok {
		errors.Invariant("pixel buffer has no canonical home")
	}
	return j
}

func holder[P comparable](t *blocks.Table[P], p P) int {
	for i, b := range t.Slots {
		if b.Pixels == p {
			return i
		}
	}
	errors.Invariant("pixel buffer is missing from the derived table")
	return -1
}

// check panics unless canonical is the canonical table and derived was
// derived from it. Every canonical buffer must appear in derived exactly once.
func check[P comparable](canonical, derived *blocks.Table[P]) {
	if !derived.DerivedFrom(canonical) {
		errors.Invariant("table of size %d is not derived from the canonical table of size %d", derived.Size, canonical.Size)
	}
	ix := canonical.Index()
	for i, b := range canonical.Slots {
		if b != ix.Block(i) {
			errors.Invariant("slot %d of the canonical table has been modified", i)
		}
	}
	seen := make([]bool, derived.Size)
	for i, b := range derived.Slots {
		j := home(ix, b.Pixels)
		if seen[j] {
			errors.Invariant("slot %d repeats the buffer of canonical slot %d", i, j)
		}
		seen[j] = true
	}
}
