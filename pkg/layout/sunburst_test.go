package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/tree"
)

const eps = 1e-3

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func slices(cmds []draw.Command) map[string]draw.RingSlice {
	out := make(map[string]draw.RingSlice, len(cmds))
	for _, c := range cmds {
		out[c.NodeID] = c.Geometry.(draw.RingSlice)
	}
	return out
}

func TestSunburstExample(t *testing.T) {
	tr := exampleTree()
	s := Settings{
		"maxDegrees": 360, "rotationOffset": 0, "sliceMargin": 0,
		"baseRadius": 60, "scaleRadius": 0.9, "radiusMargin": 4,
	}
	got := slices(Sunburst{}.Draw(tr, s, mustPalette(t, tr)))

	tests := []struct {
		id          string
		start, end  float64
		nearR, farR float64
	}{
		{"root", 0, 360, 4, 60},
		{"A", 0, 120, 64, 114},
		{"B", 120, 360, 64, 114},
		{"C", 120, 360, 118, 162.6},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			r := got[tt.id]
			if !near(float64(r.Start), tt.start) || !near(float64(r.End), tt.end) {
				t.Errorf("span = [%v, %v], want [%v, %v]", r.Start, r.End, tt.start, tt.end)
			}
			if !near(float64(r.Near), tt.nearR) || !near(float64(r.Far), tt.farR) {
				t.Errorf("radii = [%v, %v], want [%v, %v]", r.Near, r.Far, tt.nearR, tt.farR)
			}
		})
	}
}

func TestSunburstSpanConservation(t *testing.T) {
	tr := wideTree()
	const marginPermille = 12
	s := Settings{"sliceMargin": marginPermille, "maxDegrees": 300, "rotationOffset": 30}
	got := slices(Sunburst{}.Draw(tr, s, mustPalette(t, tr)))

	tr.Walk(func(n *tree.Node) bool {
		if len(n.Children) == 0 {
			return true
		}
		parent := got[n.ID]
		span := float64(parent.Span())
		margin := span * marginPermille / 1000

		sum := 0.0
		for _, c := range n.Children {
			cs := got[c.ID]
			sum += float64(cs.Span())
			want := (span - float64(len(n.Children)-1)*margin) * float64(c.SubTreeSize) / float64(n.SubTreeSize-1)
			if !near(float64(cs.Span()), want) {
				t.Errorf("%s: span %v, want %v", c.ID, cs.Span(), want)
			}
		}
		if total := sum + float64(len(n.Children)-1)*margin; !near(total, span) {
			t.Errorf("%s: children+margins = %v, want %v", n.ID, total, span)
		}
		return true
	})
}

func TestSunburstRootWrap(t *testing.T) {
	tests := []struct {
		name       string
		rot, max   float64
		start, end float64
	}{
		{"NoOffset", 0, 360, 0, 360},
		{"PartialTurn", 90, 180, 90, 270},
		{"WrapsEndOnly", 10, 360, 10, 9},
		{"FullOffset", 360, 360, 360, 359},
	}
	tr := tree.Finalize(&tree.Node{ID: "r"})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := Sunburst{}.Draw(tr, Settings{"rotationOffset": tt.rot, "maxDegrees": tt.max}, mustPalette(t, tr))
			r := cmds[0].Geometry.(draw.RingSlice)
			if !near(float64(r.Start), tt.start) || !near(float64(r.End), tt.end) {
				t.Errorf("root = [%v, %v], want [%v, %v]", r.Start, r.End, tt.start, tt.end)
			}
		})
	}
}

func TestSunburstRadialBands(t *testing.T) {
	tr := wideTree()
	s := Settings{"baseRadius": 50, "scaleRadius": 0.5, "radiusMargin": 2}
	cmds := Sunburst{}.Draw(tr, s, mustPalette(t, tr))
	got := slices(cmds)

	var check func(n *tree.Node, nearR, width float64)
	check = func(n *tree.Node, nearR, width float64) {
		r := got[n.ID]
		if !near(float64(r.Near), nearR+2) || !near(float64(r.Far), nearR+width) {
			t.Errorf("%s: radii [%v, %v], want [%v, %v]", n.ID, r.Near, r.Far, nearR+2, nearR+width)
		}
		for _, c := range n.Children {
			check(c, nearR+width, width*0.5)
		}
	}
	check(tr.Root, 0, 50)
}
