// Package pkg provides the core libraries for blockshuffle.
//
// # Overview
//
// Blockshuffle slices an image into a grid of blocks and keeps the grid in a
// table that maps every slot to a block's pixels and canonical placement.
// The libraries shuffle that table and converge it back, step by step or at
// once, before the result is painted again.
//
//  1. [blocks] - Block tables: slicing, the position index, reconstruction,
//     mosaic layout and conversion between pixel types
//  2. [shuffle] - Permutation and convergence engines, cycle diagrams
//  3. [surface] - Display tiles and the terminal frame compositor
//  4. [errors] - Coded errors and input validation
//  5. [observability] - Hooks for logging convergence and image I/O
//  6. [cache] - Storage for rendered cycle diagrams
//  7. [buildinfo] - Version information set at link time
//
// # Architecture
//
//	image file
//	     ↓
//	[blocks] Open / Build (canonical table + index)
//	     ↓
//	[shuffle] Scramble → Unscramble / UnscrambleRandom / ScrambleOne / GenUnscramble
//	     ↓
//	[blocks] Reconstruct / MosaicSave   or   [surface] Convert → Frame
//
// Every operation returns a new table; the canonical table and its index
// are never modified and are shared by all tables derived from it.
//
// # Quick Start
//
//	t, err := blocks.Open("photo.jpg", 8, 8)
//	if err != nil {
//	    return err
//	}
//	scrambled := shuffle.Scramble(t, shuffle.NewRand(42))
//	_, resolved := shuffle.Unscramble(t, scrambled)
//	return blocks.Save(blocks.Reconstruct(resolved), "out.png")
package pkg
