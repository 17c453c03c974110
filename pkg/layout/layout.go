package layout

import (
	"math"
	"strings"

	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/palette"
	"github.com/matzehuels/treeviz/pkg/tree"
)

// Layout is the capability shared by every algorithm.
type Layout interface {
	// Name is the registry key ("sunburst").
	Name() string
	// DisplayName is the human-readable name ("Sunburst").
	DisplayName() string
	// Thumbnail is an optional preview image reference.
	Thumbnail() string
	// Schema describes the recognized settings.
	Schema() Schema
	// RequiredShaders lists the shape families the output may contain, so a
	// GPU session can compile only those programs.
	RequiredShaders() []draw.Shape
	// Draw produces one command per node, in pre-order.
	Draw(t *tree.Tree, s Settings, p *palette.Palette) []draw.Command
}

var registry = []Layout{
	Sunburst{},
	Pythagoras{},
	Treemap{},
	Demo{},
}

// All returns every layout in registry order.
func All() []Layout {
	return append([]Layout(nil), registry...)
}

// Names returns the registry keys in registry order.
func Names() []string {
	out := make([]string, len(registry))
	for i, l := range registry {
		out[i] = l.Name()
	}
	return out
}

// Get returns the layout registered under name.
func Get(name string) (Layout, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if err := errors.ValidateName(n); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "layout name")
	}
	for _, l := range registry {
		if l.Name() == n {
			return l, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q (available: %s)", name, strings.Join(Names(), ", "))
}

// weight returns the share of the parent's extent owned by child.
func weight(parent, child *tree.Node) float64 {
	if parent.SubTreeSize <= 1 {
		return 0
	}
	return float64(child.SubTreeSize) / float64(parent.SubTreeSize-1)
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
