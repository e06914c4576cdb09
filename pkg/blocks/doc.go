// Package blocks slices raster images into a grid of rectangular blocks.
//
// # Overview
//
// A [Table] records, for every slot of a cols×rows grid, which pixel buffer
// occupies the slot and where it is placed on the canvas. Slots are numbered
// row-major: left to right, then top to bottom.
//
// The table produced by [Build] or [Open] is the canonical table. It is never
// modified. Every other table is derived from it by a permutation (see the
// shuffle package), a layout change ([Mosaic]) or a representation change
// ([Convert]), and always holds the same N pixel buffers in its N slots.
//
// # Position Index
//
// Each canonical table owns an [Index]: a reverse lookup from a canonical
// (left, top) placement to the pixel buffer that belongs there, and from a
// pixel buffer to its home slot. The index is built once by the builder and
// shared, read-only, by every derived table. It can not be rebuilt from a
// derived table.
//
// # Building a Table
//
//	canonical, err := blocks.Open("yb.jpg", 8, 8)
//	if err != nil {
//	    return err
//	}
//	img := blocks.Reconstruct(canonical)
//	err = blocks.Save(img, "re_yb.jpg")
//
// # Remainder Pixels
//
// Block size is the integer quotient of the image size by the grid size.
// When the image is not an exact multiple, the table is truncated to exactly
// cols×rows blocks and the remainder strip on the right and bottom edge is
// dropped. [Reconstruct] still produces a canvas of the full source size; the
// dropped strip stays transparent.
//
// # Mosaic
//
// [Mosaic] re-lays slots on a grid with uniform spacing between blocks,
// ignoring current placements. [MosaicSize] returns the expanded canvas.
package blocks
