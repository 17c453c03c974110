// Package layout turns trees into draw command sequences.
//
// # Algorithms
//
// The set of algorithms is closed and selected by name:
//
//   - sunburst: radial partition into nested ring slices
//   - pythagoras: generalized Pythagoras tree of squares on semicircle chords
//   - treemap: slice-and-dice rectangles, orientation alternating per depth
//   - demo: one shape per node on a grid, cycling every shape family
//
// Every algorithm is a pure function of (tree, settings, palette): identical
// inputs produce an identical sequence, with exactly one command per node, in
// pre-order. Algorithms never return errors. Settings outside the declared
// ranges are rejected earlier by [Schema.Validate]; missing settings fall back
// to the schema defaults.
//
// # Children weighting
//
// Every algorithm divides a parent's extent among its children in proportion
// to child.SubTreeSize / (parent.SubTreeSize - 1), after reserving a
// per-mille slice margin between consecutive children.
//
// # Selection
//
// A node is drawn with the palette's selected variant if it or any ancestor
// is selected.
package layout
