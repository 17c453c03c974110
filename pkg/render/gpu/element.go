package gpu

import "github.com/matzehuels/treeviz/pkg/draw"

// Element is the GPU-side form of one draw command: vertex data scaled into
// [-1, 1], its uploaded buffers and the primitive used to draw it.
type Element struct {
	Command draw.Command
	Shape   draw.Shape

	// X and Y are the element's base position in logical units.
	X, Y float32
	// Center is set for shapes with a distinct center (circle, ring slice).
	Center *[2]float32

	Positions []float32 // 2 floats per vertex
	Colors    []float32 // 4 floats per vertex

	PositionBuffer uint32
	ColorBuffer    uint32
	Primitive      Primitive
	VertexCount    int32
}

// CenterPoint returns Center, falling back to the base position.
func (e *Element) CenterPoint() (float32, float32) {
	if e.Center != nil {
		return e.Center[0], e.Center[1]
	}
	return e.X, e.Y
}

// RingSlice returns the element's ring-slice geometry, if it has one.
func (e *Element) RingSlice() (draw.RingSlice, bool) {
	r, ok := e.Command.Geometry.(draw.RingSlice)
	return r, ok
}

// Radius returns the outer radius for circles and ring slices, 0 otherwise.
func (e *Element) Radius() float32 {
	switch g := e.Command.Geometry.(type) {
	case draw.Circle:
		return g.Radius
	case draw.RingSlice:
		return g.Far
	}
	return 0
}

// newElement computes the vertex data for cmd. No GPU calls are made.
func newElement(cmd draw.Command) *Element {
	e := &Element{Command: cmd, Shape: cmd.Shape()}
	var pts [][2]float32

	switch g := cmd.Geometry.(type) {
	case draw.Quad:
		e.X, e.Y = g.X, g.Y
		c := g.Corners()
		pts = [][2]float32{c[0], c[1], c[3], c[2]}
		e.Primitive = TriangleStrip
	case draw.Circle:
		e.X, e.Y = g.X, g.Y
		e.Center = &[2]float32{g.X, g.Y}
		pts = boundingQuad(g.X, g.Y, g.Radius)
		e.Primitive = TriangleStrip
	case draw.RingSlice:
		e.X, e.Y = g.X, g.Y
		e.Center = &[2]float32{g.X, g.Y}
		pts = boundingQuad(g.X, g.Y, g.Far)
		e.Primitive = TriangleStrip
	case draw.Polygon:
		if len(g.Points) > 0 {
			e.X, e.Y = g.Points[0][0], g.Points[0][1]
		}
		pts = g.Points
		e.Primitive = TriangleFan
	}

	e.VertexCount = int32(len(pts))
	e.Positions = make([]float32, 0, 2*len(pts))
	e.Colors = make([]float32, 0, 4*len(pts))
	for _, p := range pts {
		e.Positions = append(e.Positions, p[0]/draw.HalfWidth, p[1]/draw.HalfHeight)
		e.Colors = append(e.Colors, cmd.Color.R, cmd.Color.G, cmd.Color.B, cmd.Color.A)
	}
	return e
}

// boundingQuad returns the triangle-strip square enclosing a disc.
func boundingQuad(x, y, r float32) [][2]float32 {
	return [][2]float32{{x - r, y - r}, {x + r, y - r}, {x - r, y + r}, {x + r, y + r}}
}

// Scene is the set of elements built for one command sequence. Its buffers
// are owned as a unit and released together.
type Scene struct {
	Fingerprint string
	Elements    []*Element
}

// newScene builds elements for cmds and uploads their buffers.
func newScene(gl Context, cmds []draw.Command) *Scene {
	sc := &Scene{Fingerprint: draw.Fingerprint(cmds), Elements: make([]*Element, 0, len(cmds))}
	for _, c := range cmds {
		if c.Geometry == nil {
			continue
		}
		e := newElement(c)
		e.PositionBuffer = gl.CreateBuffer()
		gl.BufferData(e.PositionBuffer, e.Positions)
		e.ColorBuffer = gl.CreateBuffer()
		gl.BufferData(e.ColorBuffer, e.Colors)
		sc.Elements = append(sc.Elements, e)
	}
	return sc
}

// Release deletes every buffer owned by the scene.
func (sc *Scene) Release(gl Context) {
	for _, e := range sc.Elements {
		if e.PositionBuffer != 0 {
			gl.DeleteBuffer(e.PositionBuffer)
			e.PositionBuffer = 0
		}
		if e.ColorBuffer != 0 {
			gl.DeleteBuffer(e.ColorBuffer)
			e.ColorBuffer = 0
		}
	}
	sc.Elements = nil
}
