package blocks

import (
	"image"
	"slices"
)

// Block is a pixel buffer together with its placement on the canvas.
// Pixels is a shared handle; tables never copy the buffer itself.
type Block[P comparable] struct {
	Pixels P
	Left   int
	Top    int
}

// Pos returns the placement as a point.
func (b Block[P]) Pos() image.Point { return image.Pt(b.Left, b.Top) }

// Table maps each grid slot to a block.
type Table[P comparable] struct {
	Size   int    // number of slots, Cols*Rows
	Cols   int    // blocks per row
	Rows   int    // blocks per column
	BlockW int    // block width in pixels
	BlockH int    // block height in pixels
	Width  int    // source image width
	Height int    // source image height
	Mode   string // pixel format of the decoded source
	Mosaic image.Point
	Slots  []Block[P]

	index *Index[P]
}

// Index returns the position index of the canonical table this table was
// derived from.
func (t *Table[P]) Index() *Index[P] { return t.index }

// Clone returns a copy of t with its own slot slice. Pixel buffers and the
// position index are shared.
func (t *Table[P]) Clone() *Table[P] {
	c := *t
	c.Slots = slices.Clone(t.Slots)
	return &c
}

// DerivedFrom reports whether t shares canonical's position index and size.
func (t *Table[P]) DerivedFrom(canonical *Table[P]) bool {
	return t.index != nil && t.index == canonical.index && t.Size == canonical.Size && len(t.Slots) == len(canonical.Slots)
}

// Equal reports whether a and b hold the same block in every slot.
func Equal[P comparable](a, b *Table[P]) bool {
	return slices.Equal(a.Slots, b.Slots)
}

// GridPos returns the column and row of slot i.
func (t *Table[P]) GridPos(i int) (col, row int) {
	return i % t.Cols, i / t.Cols
}
