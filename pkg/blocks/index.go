package blocks

import (
	"image"

	"github.com/matzehuels/blockshuffle/pkg/errors"
)

// Index is the immutable reverse lookup of a canonical table.
//
// It answers two questions during convergence: which buffer belongs at a
// canonical placement, and which slot a buffer calls home. It is populated
// once by the builder and exposes no mutating methods.
type Index[P comparable] struct {
	blocks []Block[P]
	byPos  map[image.Point]int
	home   map[P]int
}

func newIndex[P comparable](slots []Block[P]) *Index[P] {
	ix := &Index[P]{
		blocks: make([]Block[P], len(slots)),
		byPos:  make(map[image.Point]int, len(slots)),
		home:   make(map[P]int, len(slots)),
	}
	copy(ix.blocks, slots)
	for i, b := range slots {
		if _, dup := ix.home[b.Pixels]; dup {
			errors.Invariant("pixel buffer of slot %d is already used by slot %d", i, ix.home[b.Pixels])
		}
		ix.byPos[b.Pos()] = i
		ix.home[b.Pixels] = i
	}
	return ix
}

// Len returns the number of indexed blocks.
func (ix *Index[P]) Len() int { return len(ix.blocks) }

// Block returns the canonical block of slot i.
func (ix *Index[P]) Block(i int) Block[P] { return ix.blocks[i] }

// Lookup returns the buffer whose canonical placement is (left, top).
func (ix *Index[P]) Lookup(left, top int) (P, bool) {
	i, ok := ix.byPos[image.Pt(left, top)]
	if !ok {
		var zero P
		return zero, false
	}
	return ix.blocks[i].Pixels, true
}

// Home returns the canonical slot of a pixel buffer.
func (ix *Index[P]) Home(p P) (int, bool) {
	i, ok := ix.home[p]
	return i, ok
}
