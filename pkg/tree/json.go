package tree

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/treeviz/pkg/errors"
)

type node struct {
	ID       string   `json:"id,omitempty"`
	Label    string   `json:"label,omitempty"`
	Selected bool     `json:"selected,omitempty"`
	Meta     Metadata `json:"meta,omitempty"`
	Children []node   `json:"children,omitempty"`
}

// ReadJSON decodes a nested JSON tree from r and finalizes it.
//
// The input is a single object describing the root:
//
//	{"id": "root", "children": [{"id": "a"}, {"label": "b"}]}
//
// Every field is optional. Nodes without an "id" receive a stable
// path-derived identifier. Explicit identifiers are validated with
// [errors.ValidateNodeID] and must be unique.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Tree, error) {
	var data node
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode tree")
	}

	seen := make(map[string]bool)
	root, err := fromJSON(data, seen)
	if err != nil {
		return nil, err
	}
	return Finalize(root), nil
}

func fromJSON(d node, seen map[string]bool) (*Node, error) {
	if d.ID != "" {
		if err := errors.ValidateNodeID(d.ID); err != nil {
			return nil, err
		}
		if seen[d.ID] {
			return nil, errors.New(errors.ErrCodeInvalidTree, "duplicate node id %q", d.ID)
		}
		seen[d.ID] = true
	}

	n := &Node{ID: d.ID, Label: d.Label, Selected: d.Selected, Meta: d.Meta}
	if len(d.Children) > 0 {
		n.Children = make([]*Node, len(d.Children))
	}
	for i, c := range d.Children {
		child, err := fromJSON(c, seen)
		if err != nil {
			return nil, fmt.Errorf("child %d of %s: %w", i, n.displayRef(), err)
		}
		n.Children[i] = child
	}
	return n, nil
}

func (n *Node) displayRef() string {
	if n.ID != "" {
		return n.ID
	}
	if n.Label != "" {
		return n.Label
	}
	return "<unnamed>"
}

// ImportJSON reads a JSON tree from the file at path.
func ImportJSON(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "tree file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes t as nested JSON, including assigned identifiers.
// The output can be re-imported with [ReadJSON].
func WriteJSON(t *Tree, w io.Writer) error {
	var out node
	if t.Root != nil {
		out = toJSON(t.Root)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func toJSON(n *Node) node {
	d := node{ID: n.ID, Label: n.Label, Selected: n.Selected, Meta: n.Meta}
	if len(n.Children) > 0 {
		d.Children = make([]node, len(n.Children))
		for i, c := range n.Children {
			d.Children[i] = toJSON(c)
		}
	}
	return d
}

// ExportJSON writes t to a JSON file at path.
func ExportJSON(t *Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(t, f)
}
