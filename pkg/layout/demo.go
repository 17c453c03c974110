package layout

import (
	"math"

	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/palette"
	"github.com/matzehuels/treeviz/pkg/tree"
)

var demoSchema = Schema{
	number("cellSize", "Cell size", 80, 20, 200, 1),
}

// Demo places one shape per node on a grid, cycling through every shape
// family. It exercises every shader program.
type Demo struct{}

func (Demo) Name() string                  { return "demo" }
func (Demo) DisplayName() string           { return "OpenGL Demo" }
func (Demo) Thumbnail() string             { return "" }
func (Demo) Schema() Schema                { return demoSchema }
func (Demo) RequiredShaders() []draw.Shape { return draw.Shapes() }

func (Demo) Draw(t *tree.Tree, s Settings, p *palette.Palette) []draw.Command {
	if t == nil || t.Root == nil {
		return nil
	}
	cell := demoSchema.Merge(s).Float("cellSize", 80)
	cols := max(1, int(draw.LogicalWidth/cell))
	shapes := draw.Shapes()

	out := make([]draw.Command, 0, t.Len())
	i := 0
	var walk func(n *tree.Node, selected bool)
	walk = func(n *tree.Node, selected bool) {
		selected = selected || n.Selected
		cx := -draw.HalfWidth + (float64(i%cols)+0.5)*cell
		cy := draw.HalfHeight - (float64(i/cols)+0.5)*cell
		out = append(out, draw.Command{
			NodeID:   n.ID,
			Color:    p.Color(n, selected),
			Geometry: demoShape(shapes[i%len(shapes)], cx, cy, cell),
		})
		i++
		for _, c := range n.Children {
			walk(c, selected)
		}
	}
	walk(t.Root, false)
	return out
}

func demoShape(s draw.Shape, cx, cy, cell float64) draw.Geometry {
	x, y := float32(cx), float32(cy)
	switch s {
	case draw.ShapeCircle:
		return draw.Circle{X: x, Y: y, Radius: float32(cell * 0.4)}
	case draw.ShapeRingSlice:
		return draw.RingSlice{X: x, Y: y, Near: float32(cell * 0.2), Far: float32(cell * 0.45), Start: 0, End: 270}
	case draw.ShapePolygon:
		pts := make([][2]float32, 6)
		for k := range pts {
			a := deg2rad(float64(60*k + 30))
			pts[k] = [2]float32{x + float32(cell*0.4*math.Cos(a)), y + float32(cell*0.4*math.Sin(a))}
		}
		return draw.Polygon{Points: pts}
	default:
		side := float32(cell * 0.8)
		return draw.Quad{X: x - side/2, Y: y - side/2, Width: side, Height: side}
	}
}
