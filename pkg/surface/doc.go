// Package surface converts block tables into display-ready tiles for a
// terminal surface.
//
// A [Tile] is built from a block's raw bytes, dimensions and pixel mode.
// [Convert] maps a whole table to tiles while keeping slot order and
// placements, so the shuffle strategies run on display tables unchanged.
// A [Frame] composes tiles at their placements and renders the result as
// rows of half-block glyphs, two pixels per terminal cell.
package surface
