package blocks

import (
	"image"

	"github.com/matzehuels/blockshuffle/pkg/errors"
)

// Mosaic returns a copy of t whose slots are laid out row-major with dx
// pixels between columns and dy pixels between rows, starting at (0, 0).
// Current placements are ignored and slot contents are left as they are.
func Mosaic[P comparable](t *Table[P], dx, dy int) (*Table[P], error) {
	if err := errors.ValidateSpacing(dx, dy); err != nil {
		return nil, err
	}
	m := t.Clone()
	m.Mosaic = image.Pt(dx, dy)
	for i := range m.Slots {
		col, row := m.GridPos(i)
		m.Slots[i].Left = col * (t.BlockW + dx)
		m.Slots[i].Top = row * (t.BlockH + dy)
	}
	return m, nil
}

// MosaicSize returns the canvas needed to hold t with its recorded mosaic
// spacing. For an untouched table this is the area covered by the grid.
// Remainder pixels dropped by [Build] are not part of the canvas, so for a
// non-divisible image the size is smaller than Width+(Cols-1)*dx.
func MosaicSize[P comparable](t *Table[P]) image.Point {
	return image.Pt(
		t.Cols*t.BlockW+(t.Cols-1)*t.Mosaic.X,
		t.Rows*t.BlockH+(t.Rows-1)*t.Mosaic.Y,
	)
}
