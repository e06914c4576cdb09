package blocks

// Converter maps tables of one pixel representation to another, keeping
// placements, slot order and grid metadata.
//
// Each distinct buffer is converted once, so equal inputs map to the same
// output and slot comparison stays meaningful. Canonical indexes are
// converted once per source index: a canonical table and the tables derived
// from it still share one index after conversion.
type Converter[P, Q comparable] struct {
	fn      func(P) (Q, error)
	memo    map[P]Q
	indexes map[*Index[P]]*Index[Q]
}

// NewConverter returns a Converter applying fn to pixel buffers.
func NewConverter[P, Q comparable](fn func(P) (Q, error)) *Converter[P, Q] {
	return &Converter[P, Q]{
		fn:      fn,
		memo:    make(map[P]Q),
		indexes: make(map[*Index[P]]*Index[Q]),
	}
}

// Convert is a shorthand for converting a single table.
func Convert[P, Q comparable](t *Table[P], fn func(P) (Q, error)) (*Table[Q], error) {
	return NewConverter(fn).Table(t)
}

// Table converts t.
func (c *Converter[P, Q]) Table(t *Table[P]) (*Table[Q], error) {
	index, err := c.index(t.index)
	if err != nil {
		return nil, err
	}

	slots := make([]Block[Q], len(t.Slots))
	for i, b := range t.Slots {
		if slots[i], err = c.block(b); err != nil {
			return nil, err
		}
	}

	return &Table[Q]{
		Size:   t.Size,
		Cols:   t.Cols,
		Rows:   t.Rows,
		BlockW: t.BlockW,
		BlockH: t.BlockH,
		Width:  t.Width,
		Height: t.Height,
		Mode:   t.Mode,
		Mosaic: t.Mosaic,
		Slots:  slots,
		index:  index,
	}, nil
}

func (c *Converter[P, Q]) index(ix *Index[P]) (*Index[Q], error) {
	if conv, ok := c.indexes[ix]; ok {
		return conv, nil
	}
	canonical := make([]Block[Q], ix.Len())
	for i := range canonical {
		b, err := c.block(ix.Block(i))
		if err != nil {
			return nil, err
		}
		canonical[i] = b
	}
	conv := newIndex(canonical)
	c.indexes[ix] = conv
	return conv, nil
}

func (c *Converter[P, Q]) block(b Block[P]) (Block[Q], error) {
	q, ok := c.memo[b.Pixels]
	if !ok {
		var err error
		if q, err = c.fn(b.Pixels); err != nil {
			return Block[Q]{}, err
		}
		c.memo[b.Pixels] = q
	}
	return Block[Q]{Pixels: q, Left: b.Left, Top: b.Top}, nil
}
