package layout

import (
	"math"

	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/palette"
	"github.com/matzehuels/treeviz/pkg/tree"
)

var sunburstSchema = Schema{
	number("baseRadius", "Base radius", 60, 30, 100, 1),
	number("scaleRadius", "Radius scale", 0.9, 0.1, 1, 0.1),
	number("radiusMargin", "Radius margin", 4, 0, 8, 1),
	number("sliceMargin", "Slice margin (‰)", 5, 0, 20, 1),
	number("maxDegrees", "Max degrees", 360, 0, 360, 1),
	number("rotationOffset", "Rotation offset", 0, 0, 360, 1),
}

// Sunburst is the radial partition layout. Each node is a ring slice; its
// children split the node's angular span in the next ring outwards.
type Sunburst struct{}

func (Sunburst) Name() string                  { return "sunburst" }
func (Sunburst) DisplayName() string           { return "Sunburst" }
func (Sunburst) Thumbnail() string             { return "/assets/images/visualization-sunburst.png" }
func (Sunburst) Schema() Schema                { return sunburstSchema }
func (Sunburst) RequiredShaders() []draw.Shape { return []draw.Shape{draw.ShapeRingSlice} }

func (Sunburst) Draw(t *tree.Tree, s Settings, p *palette.Palette) []draw.Command {
	if t == nil || t.Root == nil {
		return nil
	}
	s = sunburstSchema.Merge(s)
	g := sunburst{
		pal:          p,
		scaleRadius:  s.Float("scaleRadius", 0.9),
		radiusMargin: s.Float("radiusMargin", 4),
		sliceMargin:  s.Float("sliceMargin", 5),
		out:          make([]draw.Command, 0, t.Len()),
	}
	rot := s.Float("rotationOffset", 0)
	maxDeg := s.Float("maxDegrees", 360)

	// Only the root span is wrapped. Child spans are never re-wrapped.
	g.generate(t.Root, math.Mod(rot, 361), math.Mod(maxDeg+rot, 361), 0, s.Float("baseRadius", 60), false)
	return g.out
}

type sunburst struct {
	pal          *palette.Palette
	scaleRadius  float64
	radiusMargin float64
	sliceMargin  float64
	out          []draw.Command
}

// generate emits n as the slice [start, end] x [near+radiusMargin, near+width]
// and recurses with the child band starting at the outer radius and a width
// scaled by scaleRadius.
func (g *sunburst) generate(n *tree.Node, start, end, near, width float64, selected bool) {
	selected = selected || n.Selected
	far := near + width
	g.out = append(g.out, draw.Command{
		NodeID: n.ID,
		Color:  g.pal.Color(n, selected),
		Geometry: draw.RingSlice{
			Near:  float32(near + g.radiusMargin),
			Far:   float32(far),
			Start: float32(start),
			End:   float32(end),
		},
	})
	if len(n.Children) == 0 || n.SubTreeSize <= 1 {
		return
	}

	size := end - start
	margin := size * g.sliceMargin / 1000
	avail := size - float64(len(n.Children)-1)*margin
	next := start
	for _, c := range n.Children {
		angle := avail*weight(n, c) + next
		g.generate(c, next, angle, far, width*g.scaleRadius, selected)
		next = angle + margin
	}
}
