package pipeline

import (
	"bytes"

	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/tree"
)

// Parse reads the tree named by opts and applies the requested selection.
// Raw tree content takes precedence over a file path.
func Parse(opts Options) (*tree.Tree, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}

	var t *tree.Tree
	var err error
	if len(opts.Tree) > 0 {
		t, err = tree.ReadJSON(bytes.NewReader(opts.Tree))
	} else {
		t, err = tree.ImportJSON(opts.Input)
	}
	if err != nil {
		return nil, err
	}

	if len(opts.Select) > 0 {
		if unknown := t.Select(opts.Select...); len(unknown) > 0 {
			return nil, errors.New(errors.ErrCodeNotFound, "unknown node ids: %v", unknown)
		}
	}
	return t, nil
}
