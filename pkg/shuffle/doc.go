// Package shuffle permutes block tables and converges them back.
//
// # Representation
//
// A derived table produced by [Scramble] keeps the canonical placement of
// every slot and receives foreign pixel content: slot i is drawn where the
// canonical slot i is drawn, showing the block of slot π(i). Convergence moves
// content between slots until every slot holds its own canonical block.
//
// # Strategies
//
// All strategies take the canonical table and a table derived from it, never
// modify either, and return (done, next). done reports that the derived table
// was already resolved; next is always a fresh table.
//
//   - [Unscramble]: resolves every permutation cycle in a single pass over
//     the slots, in index order.
//   - [UnscrambleRandom]: reshuffles content among the mismatched slots only.
//     Progress is probabilistic; correct slots are never disturbed.
//   - [ScrambleOne]: swaps one mismatched slot with the slot holding its
//     content. Every call fixes at least one slot.
//   - [PerturbOne]: the reverse direction, swapping two correct slots.
//   - [GenUnscramble]: [Unscramble] as a lazy sequence, one step per slot.
//
// Passing a table that does not derive from the given canonical table is a
// programming error and panics with an INVARIANT_VIOLATION error.
//
// # Cycles
//
// [Cycles] decomposes the content permutation of a derived table, and
// [ToDOT] / [RenderSVG] draw it with Graphviz.
package shuffle
