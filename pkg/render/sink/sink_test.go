package sink

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/palette"
	"github.com/matzehuels/treeviz/pkg/tree"
)

func sampleCommands() []draw.Command {
	red := draw.Opaque(1, 0, 0)
	return []draw.Command{
		{NodeID: "root", Color: red, Geometry: draw.RingSlice{Near: 4, Far: 60, Start: 0, End: 360}},
		{NodeID: "a", Color: draw.Color{R: 0, G: 1, B: 0, A: 0.5}, Geometry: draw.Quad{X: -10, Y: -10, Width: 20, Height: 20}},
		{NodeID: "b", Color: red, Geometry: draw.Circle{X: 100, Y: 50, Radius: 30}},
		{NodeID: "c", Color: red, Geometry: draw.Polygon{Points: [][2]float32{{0, 0}, {10, 0}, {0, 10}}}},
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(sampleCommands(), WithJSONLayout("sunburst"), WithJSONSettings(map[string]any{"baseRadius": 60}))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	doc, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if doc.Width != draw.LogicalWidth || doc.Height != draw.LogicalHeight {
		t.Errorf("frame = %vx%v, want %dx%d", doc.Width, doc.Height, draw.LogicalWidth, draw.LogicalHeight)
	}
	if doc.Layout != "sunburst" {
		t.Errorf("Layout = %q, want sunburst", doc.Layout)
	}
	if len(doc.Commands) != 4 {
		t.Fatalf("Commands count = %d, want 4", len(doc.Commands))
	}
	for i, c := range sampleCommands() {
		if doc.Commands[i].NodeID != c.NodeID || doc.Commands[i].Shape() != c.Shape() {
			t.Errorf("command %d = %s/%s, want %s/%s", i, doc.Commands[i].NodeID, doc.Commands[i].Shape(), c.NodeID, c.Shape())
		}
	}
	if len(doc.Shapes) != 4 || doc.Shapes[0] != draw.ShapeRingSlice {
		t.Errorf("Shapes = %v, want ring-slice first of 4", doc.Shapes)
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	data, err := RenderJSON(nil)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if cmds, ok := raw["commands"].([]any); !ok || len(cmds) != 0 {
		t.Errorf("commands = %v, want empty array", raw["commands"])
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(sampleCommands(), WithSize(800, 450), WithBackground("white"), WithStroke("black")))

	for _, want := range []string{
		`viewBox="-800 -450 1600 900"`,
		`width="800" height="450"`,
		`transform="scale(1,-1)"`,
		`<path d="M`,
		`<rect x="-10" y="-10" width="20" height="20" data-node="a"`,
		`fill-opacity="0.502"`,
		`<circle cx="100" cy="50" r="30" data-node="b"`,
		`<polygon points="0,0 10,0 0,10" data-node="c"`,
		`stroke="black"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}

	// Paint order follows command order.
	if strings.Index(svg, `data-node="root"`) > strings.Index(svg, `data-node="c"`) {
		t.Error("commands reordered")
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float32
		want string
	}{
		{0, "0"},
		{1.5, "1.5"},
		{-0.001, "0"},
		{100, "100"},
		{2.126, "2.13"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(sampleCommands(), WithPNGSize(160, 90), WithScale(1), WithPNGBackground(draw.Opaque(1, 1, 1)))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 90 {
		t.Errorf("size = %dx%d, want 160x90", b.Dx(), b.Dy())
	}

	// The centre of the frame is covered by the quad drawn over the ring.
	r, g, b, _ := img.At(80, 45).RGBA()
	if g>>8 < 64 {
		t.Errorf("centre pixel = (%d,%d,%d), want quad painted over ring", r>>8, g>>8, b>>8)
	}
}

func TestRenderPNGInvalidSize(t *testing.T) {
	if _, err := RenderPNG(nil, WithScale(0)); err == nil {
		t.Error("expected error for zero scale")
	}
}

func TestToDOT(t *testing.T) {
	tr := tree.Finalize(&tree.Node{ID: "root", Label: "Root", Children: []*tree.Node{
		{ID: "a", Meta: tree.Metadata{"kind": "leaf"}},
		{ID: "b", Selected: true, Children: []*tree.Node{{ID: "c"}}},
	}})
	p, err := palette.Build(tr.MaxDepth(), palette.DefaultOptions())
	if err != nil {
		t.Fatalf("palette.Build: %v", err)
	}

	dot := ToDOT(tr, NodelinkOptions{Detailed: true, Palette: p})

	for _, want := range []string{
		"digraph G {",
		`"root" -> "a";`,
		`"b" -> "c";`,
		`label="Root\ndepth: 0\nsize: 4"`,
		"kind: leaf",
		"fillcolor=",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	// Selection is inherited by c.
	for _, line := range strings.Split(dot, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), `"c" [`) && !strings.Contains(line, "penwidth=3") {
			t.Errorf("descendant of selected node not highlighted: %s", line)
		}
		if strings.HasPrefix(strings.TrimSpace(line), `"a" [`) && strings.Contains(line, "penwidth=3") {
			t.Errorf("unselected node highlighted: %s", line)
		}
	}
}

func TestToDOTNilTree(t *testing.T) {
	if dot := ToDOT(nil, NodelinkOptions{}); !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT(nil) = %q", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg></svg>")); string(got) != "<svg></svg>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
