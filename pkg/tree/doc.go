// Package tree provides the read-only tree model consumed by layout algorithms.
//
// # Overview
//
// A [Tree] wraps a rooted hierarchy of [Node] values, such as a phylogenetic
// tree. Parsing tree text is left to callers; this package only establishes the
// derived fields every layout relies on:
//
//   - SubTreeSize: 1 + the sum of the children's subtree sizes
//   - Depth: distance from the root (root = 0)
//   - MaxDepth: deepest depth found in the node's own subtree
//
// Call [Finalize] once after building or decoding a hierarchy. Afterwards the
// tree is treated as an immutable snapshot: layouts read it, they never write.
//
// # Identifiers
//
// Every node carries an ID that is stable across redraws of the same tree.
// Nodes decoded without an ID receive a name-based UUID derived from their
// child-index path, so re-loading the same document yields the same IDs.
//
// # JSON
//
// [ReadJSON] and [ImportJSON] decode the nested format:
//
//	{"id": "root", "children": [{"id": "a"}, {"id": "b", "children": [{"id": "c"}]}]}
package tree
