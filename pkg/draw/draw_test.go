package draw

import (
	"encoding/json"
	"math"
	"testing"
)

func TestShapeString(t *testing.T) {
	tests := []struct {
		shape Shape
		want  string
	}{
		{ShapeQuad, "quad"},
		{ShapeCircle, "circle"},
		{ShapeRingSlice, "ring-slice"},
		{ShapePolygon, "polygon"},
		{Shape(42), "shape(42)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.shape.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := ParseShape("hexagon"); err == nil {
		t.Error("ParseShape(hexagon) should fail")
	}
	if s, err := ParseShape(" Ring-Slice "); err != nil || s != ShapeRingSlice {
		t.Errorf("ParseShape = %v, %v", s, err)
	}
}

func TestCommandJSON(t *testing.T) {
	cmds := []Command{
		{NodeID: "q", Color: Opaque(1, 0, 0), Geometry: Quad{X: -10, Y: -5, Width: 20, Height: 10}},
		{NodeID: "c", Color: Opaque(0, 1, 0), Geometry: Circle{X: 1, Y: 2, Radius: 3}},
		{NodeID: "r", Color: Opaque(0, 0, 1), Geometry: RingSlice{Near: 4, Far: 60, Start: 0, End: 120}},
		{NodeID: "p", Color: Color{R: 1, G: 1, B: 1, A: 0.4}, Geometry: Polygon{Points: [][2]float32{{0, 0}, {1, 0}, {0, 1}}}},
	}

	b, err := json.Marshal(cmds)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got []Command
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got) != len(cmds) {
		t.Fatalf("len = %d, want %d", len(got), len(cmds))
	}
	for i := range cmds {
		if got[i].Shape() != cmds[i].Shape() {
			t.Errorf("[%d] shape = %v, want %v", i, got[i].Shape(), cmds[i].Shape())
		}
		if got[i].NodeID != cmds[i].NodeID {
			t.Errorf("[%d] node = %s, want %s", i, got[i].NodeID, cmds[i].NodeID)
		}
	}
	if rs := got[2].Geometry.(RingSlice); rs.End != 120 || rs.Far != 60 {
		t.Errorf("ring slice = %+v", rs)
	}
	if c := got[3].Color.NRGBA(); c.A != 102 {
		t.Errorf("alpha = %d, want 102", c.A)
	}
}

func TestCommandJSONUnknownShape(t *testing.T) {
	var c Command
	if err := json.Unmarshal([]byte(`{"node":"x","shape":"star","color":"#fff","geometry":{}}`), &c); err == nil {
		t.Error("expected error for unknown shape")
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#ff0000", "#ff0000", false},
		{"#f00", "#ff0000", false},
		{"#00ff0080", "#00ff0080", false},
		{"ff", "", true},
		{"#gg0000", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseHex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && c.Hex() != tt.want {
				t.Errorf("Hex() = %s, want %s", c.Hex(), tt.want)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := []Command{
		{NodeID: "a", Geometry: Quad{Width: 1, Height: 1}},
		{NodeID: "b", Geometry: Circle{Radius: 2}},
	}
	b := []Command{a[1], a[0]}

	if Fingerprint(a) != Fingerprint(append([]Command(nil), a...)) {
		t.Error("identical sequences should share a fingerprint")
	}
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("reordered sequence should change the fingerprint")
	}

	// A JSON round trip keeps the fingerprint.
	c := []Command{{NodeID: "c", Color: Color{R: 0.3, G: 0.6, B: 0.9, A: 1}, Geometry: RingSlice{Near: 4.5, Far: 60, End: 123.456}}}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	var back []Command
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if Fingerprint(c) != Fingerprint(back) {
		t.Error("JSON round trip changed the fingerprint")
	}
}

func TestShapesOf(t *testing.T) {
	cmds := []Command{
		{Geometry: RingSlice{}},
		{Geometry: Quad{}},
		{Geometry: RingSlice{}},
	}
	got := ShapesOf(cmds)
	if len(got) != 2 || got[0] != ShapeRingSlice || got[1] != ShapeQuad {
		t.Errorf("ShapesOf = %v", got)
	}
}

func TestCommandWithoutGeometry(t *testing.T) {
	empty := Command{NodeID: "x"}
	if got := empty.Shape(); got != ShapeNone {
		t.Errorf("Shape() = %v, want ShapeNone", got)
	}

	cmds := []Command{empty, {NodeID: "a", Geometry: Quad{Width: 1, Height: 1}}}
	if got := ShapesOf(cmds); len(got) != 1 || got[0] != ShapeQuad {
		t.Errorf("ShapesOf = %v, want [quad]", got)
	}
	if Fingerprint(cmds) == Fingerprint(cmds[1:]) {
		t.Error("empty command should still change the fingerprint")
	}
	if _, err := json.Marshal(empty); err == nil {
		t.Error("marshalling a command without geometry should fail")
	}
}

func TestRingSliceOutline(t *testing.T) {
	r := RingSlice{Near: 10, Far: 20, Start: 0, End: 90}
	pts := r.Outline(10)
	if len(pts) < 4 {
		t.Fatalf("outline has %d points", len(pts))
	}
	first, last := pts[0], pts[len(pts)-1]
	if math.Abs(float64(first[0]-20)) > 1e-4 || math.Abs(float64(first[1])) > 1e-4 {
		t.Errorf("first point = %v, want (20,0)", first)
	}
	if math.Abs(float64(last[0]-10)) > 1e-4 || math.Abs(float64(last[1])) > 1e-4 {
		t.Errorf("last point = %v, want (10,0)", last)
	}
	for _, p := range pts {
		d := math.Hypot(float64(p[0]), float64(p[1]))
		if d < 10-1e-3 || d > 20+1e-3 {
			t.Errorf("point %v outside the ring", p)
		}
	}
}
