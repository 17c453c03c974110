package layout

import (
	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/palette"
	"github.com/matzehuels/treeviz/pkg/tree"
)

var treemapSchema = Schema{
	number("padding", "Padding", 6, 0, 20, 1),
	number("sliceMargin", "Slice margin (‰)", 4, 0, 20, 1),
	boolean("horizontalFirst", "Split horizontally first", true),
}

// Treemap is a slice-and-dice tree map. Each node is a rectangle; its
// children split the padded interior along one axis, alternating per depth.
type Treemap struct{}

func (Treemap) Name() string                  { return "treemap" }
func (Treemap) DisplayName() string           { return "Simple Tree Map" }
func (Treemap) Thumbnail() string             { return "/assets/images/visualization-treemap.png" }
func (Treemap) Schema() Schema                { return treemapSchema }
func (Treemap) RequiredShaders() []draw.Shape { return []draw.Shape{draw.ShapeQuad} }

func (Treemap) Draw(t *tree.Tree, s Settings, p *palette.Palette) []draw.Command {
	if t == nil || t.Root == nil {
		return nil
	}
	s = treemapSchema.Merge(s)
	g := treemap{
		pal:             p,
		padding:         s.Float("padding", 6),
		sliceMargin:     s.Float("sliceMargin", 4),
		horizontalFirst: s.Bool("horizontalFirst", true),
		out:             make([]draw.Command, 0, t.Len()),
	}
	g.generate(t.Root, -draw.HalfWidth, -draw.HalfHeight, draw.LogicalWidth, draw.LogicalHeight, false)
	return g.out
}

type treemap struct {
	pal             *palette.Palette
	padding         float64
	sliceMargin     float64
	horizontalFirst bool
	out             []draw.Command
}

func (g *treemap) generate(n *tree.Node, x, y, w, h float64, selected bool) {
	selected = selected || n.Selected
	g.out = append(g.out, draw.Command{
		NodeID:   n.ID,
		Color:    g.pal.Color(n, selected),
		Geometry: draw.Quad{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)},
	})
	if len(n.Children) == 0 || n.SubTreeSize <= 1 {
		return
	}

	pad := min(g.padding, w/2, h/2)
	x, y = x+pad, y+pad
	w, h = w-2*pad, h-2*pad

	horizontal := (n.Depth%2 == 0) == g.horizontalFirst
	extent := h
	if horizontal {
		extent = w
	}
	margin := extent * g.sliceMargin / 1000
	avail := extent - float64(len(n.Children)-1)*margin
	pos := 0.0
	for _, c := range n.Children {
		size := avail * weight(n, c)
		if horizontal {
			g.generate(c, x+pos, y, size, h, selected)
		} else {
			// Top to bottom, since y points up.
			g.generate(c, x, y+h-pos-size, w, size, selected)
		}
		pos += size + margin
	}
}
