package pipeline

import (
	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/layout"
	"github.com/matzehuels/treeviz/pkg/palette"
	"github.com/matzehuels/treeviz/pkg/tree"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ResolveSettings validates opts.Settings against the layout schema and
// merges them over its defaults.
func ResolveSettings(opts Options) (layout.Layout, layout.Settings, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, nil, err
	}
	l, err := layout.Get(opts.Layout)
	if err != nil {
		return nil, nil, err
	}
	resolved, err := l.Schema().Resolve(opts.Settings)
	if err != nil {
		return nil, nil, err
	}
	return l, resolved, nil
}

// GenerateLayout runs the layout named by opts over t. The palette is built
// for the tree's max depth.
func GenerateLayout(t *tree.Tree, opts Options) ([]draw.Command, layout.Settings, error) {
	l, resolved, err := ResolveSettings(opts)
	if err != nil {
		return nil, nil, err
	}
	p, err := palette.Build(t.MaxDepth(), opts.Palette)
	if err != nil {
		return nil, nil, err
	}
	return l.Draw(t, resolved, p), resolved, nil
}
