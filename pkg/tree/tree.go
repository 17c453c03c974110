package tree

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Metadata stores arbitrary key-value pairs attached to a node, typically
// fields carried over from the source document (branch length, taxon rank).
type Metadata map[string]any

// Node is a vertex of the tree. The derived fields (SubTreeSize, Depth,
// MaxDepth) are only meaningful after [Finalize].
type Node struct {
	ID       string   // Stable identifier, used to correlate shapes back to nodes
	Label    string   // Display label (defaults to ID)
	Children []*Node  // Ordered children
	Selected bool     // Selection flag; inherited downward by layouts
	Meta     Metadata // Optional metadata

	SubTreeSize int // 1 + Σ child.SubTreeSize
	Depth       int // Distance from the root
	MaxDepth    int // Deepest depth within this node's subtree
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Tree is a finalized snapshot of a rooted hierarchy.
// Tree is not safe for concurrent mutation; concurrent reads are fine.
type Tree struct {
	Root  *Node
	nodes map[string]*Node
	order []*Node
}

// Finalize computes the derived fields of every node below root, assigns
// missing identifiers and returns the resulting [Tree].
//
// A nil root yields an empty tree. Duplicate identifiers are tolerated; the
// index keeps the first node in pre-order.
func Finalize(root *Node) *Tree {
	t := &Tree{Root: root, nodes: make(map[string]*Node)}
	if root == nil {
		return t
	}
	t.finalize(root, 0, nil)
	return t
}

func (t *Tree) finalize(n *Node, depth int, path []int) {
	if n.ID == "" {
		n.ID = pathID(path)
	}
	if _, dup := t.nodes[n.ID]; !dup {
		t.nodes[n.ID] = n
	}
	t.order = append(t.order, n)

	n.Depth = depth
	n.SubTreeSize = 1
	n.MaxDepth = depth
	for i, c := range n.Children {
		t.finalize(c, depth+1, append(path, i))
		n.SubTreeSize += c.SubTreeSize
		n.MaxDepth = max(n.MaxDepth, c.MaxDepth)
	}
}

// pathID derives a name-based UUID from a child-index path so that the same
// document always produces the same identifiers.
func pathID(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("/"+strings.Join(parts, "/"))).String()
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.order) }

// MaxDepth returns the deepest depth in the tree, or 0 for an empty tree.
func (t *Tree) MaxDepth() int {
	if t.Root == nil {
		return 0
	}
	return t.Root.MaxDepth
}

// Node looks up a node by identifier.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Nodes returns every node in pre-order. The slice must not be modified.
func (t *Tree) Nodes() []*Node { return t.order }

// Walk visits every node in pre-order. Returning false from fn skips the
// node's subtree.
func (t *Tree) Walk(fn func(n *Node) bool) {
	if t.Root == nil {
		return
	}
	var walk func(n *Node)
	walk = func(n *Node) {
		if !fn(n) {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.Root)
}

// Select marks the given nodes as selected and clears every other selection.
// Unknown identifiers are returned so callers can report them.
func (t *Tree) Select(ids ...string) (unknown []string) {
	for _, n := range t.order {
		n.Selected = false
	}
	for _, id := range ids {
		n, ok := t.nodes[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		n.Selected = true
	}
	return unknown
}
