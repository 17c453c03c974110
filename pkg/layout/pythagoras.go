package layout

import (
	"math"

	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/palette"
	"github.com/matzehuels/treeviz/pkg/tree"
)

var pythagorasSchema = Schema{
	number("baseSize", "Base size", 120, 40, 250, 1),
	number("sliceMargin", "Slice margin (‰)", 0, 0, 20, 1),
	number("originY", "Origin Y", -400, -450, 0, 1),
}

// Pythagoras is the generalized Pythagoras tree: every node is a square whose
// base is a chord of its parent's top semicircle. Children share the half
// turn of that semicircle in proportion to their subtree sizes.
type Pythagoras struct{}

func (Pythagoras) Name() string                  { return "pythagoras" }
func (Pythagoras) DisplayName() string           { return "Generalized Pythagoras Tree" }
func (Pythagoras) Thumbnail() string             { return "/assets/images/visualization-pythagoras.png" }
func (Pythagoras) Schema() Schema                { return pythagorasSchema }
func (Pythagoras) RequiredShaders() []draw.Shape { return []draw.Shape{draw.ShapePolygon} }

func (Pythagoras) Draw(t *tree.Tree, s Settings, p *palette.Palette) []draw.Command {
	if t == nil || t.Root == nil {
		return nil
	}
	s = pythagorasSchema.Merge(s)
	g := pythagoras{
		pal:         p,
		sliceMargin: s.Float("sliceMargin", 0),
		out:         make([]draw.Command, 0, t.Len()),
	}
	g.generate(t.Root, vec{0, s.Float("originY", -400)}, vec{1, 0}, s.Float("baseSize", 120), false)
	return g.out
}

type vec struct{ x, y float64 }

func (a vec) add(b vec) vec       { return vec{a.x + b.x, a.y + b.y} }
func (a vec) sub(b vec) vec       { return vec{a.x - b.x, a.y - b.y} }
func (a vec) scale(k float64) vec { return vec{a.x * k, a.y * k} }
func (a vec) perp() vec           { return vec{-a.y, a.x} }
func (a vec) len() float64        { return math.Hypot(a.x, a.y) }
func (a vec) f32() [2]float32     { return [2]float32{float32(a.x), float32(a.y)} }

type pythagoras struct {
	pal         *palette.Palette
	sliceMargin float64
	out         []draw.Command
}

// generate emits the square standing on base center p with unit direction u
// and side length side.
func (g *pythagoras) generate(n *tree.Node, p, u vec, side float64, selected bool) {
	selected = selected || n.Selected
	nrm := u.perp()
	half := u.scale(side / 2)
	bl, br := p.sub(half), p.add(half)
	up := nrm.scale(side)
	tr, tl := br.add(up), bl.add(up)

	g.out = append(g.out, draw.Command{
		NodeID:   n.ID,
		Color:    g.pal.Color(n, selected),
		Geometry: draw.Polygon{Points: [][2]float32{bl.f32(), br.f32(), tr.f32(), tl.f32()}},
	})
	if len(n.Children) == 0 || n.SubTreeSize <= 1 {
		return
	}

	center := p.add(up)
	r := side / 2
	onArc := func(phi float64) vec {
		return center.add(u.scale(-r * math.Cos(phi))).add(nrm.scale(r * math.Sin(phi)))
	}

	margin := math.Pi * g.sliceMargin / 1000
	avail := math.Pi - float64(len(n.Children)-1)*margin
	phi := 0.0
	for _, c := range n.Children {
		next := phi + avail*weight(n, c)
		a, b := onArc(phi), onArc(next)
		chord := b.sub(a)
		l := chord.len()
		cu := u
		if l > 0 {
			cu = chord.scale(1 / l)
		}
		g.generate(c, a.add(chord.scale(0.5)), cu, l, selected)
		phi = next + margin
	}
}
