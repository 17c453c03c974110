package gpu

import (
	"strings"

	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/errors"
)

// Program is a linked shader program plus the locations shared by every
// shape family.
type Program struct {
	Shape  draw.Shape
	Handle uint32

	ModelView      int32
	Projection     int32
	PositionAttrib int32
	ColorAttrib    int32
}

// Shader binds one shape family to its program.
//
// Init resolves and caches the family's uniform locations. It is called once
// per program; repeated calls are no-ops. PreProcess runs once per element
// right before its draw call and may only write the uniforms its family owns.
type Shader interface {
	Shape() draw.Shape
	Sources() (vertex, fragment string)
	Init(p *Program, gl Context)
	PreProcess(e *Element, gl Context, s *Session)
}

// NewShader returns a fresh, uninitialized shader for shape.
func NewShader(shape draw.Shape) (Shader, error) {
	switch shape {
	case draw.ShapeQuad, draw.ShapePolygon:
		return &flatShader{shape: shape}, nil
	case draw.ShapeCircle:
		return &circleShader{}, nil
	case draw.ShapeRingSlice:
		return &ringSliceShader{}, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "no shader for %s", shape)
}

// compileProgram compiles and links the shader's sources. Failures are not
// retried; intermediate objects are deleted before returning.
func compileProgram(gl Context, sh Shader) (*Program, error) {
	vsrc, fsrc := sh.Sources()

	vs, err := compileStage(gl, VertexShader, vsrc)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileStage(gl, FragmentShader, fsrc)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fs)

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vs)
	gl.AttachShader(handle, fs)
	gl.LinkProgram(handle)
	if ok, info := gl.ProgramLinked(handle); !ok {
		gl.DeleteProgram(handle)
		return nil, errors.New(errors.ErrCodeShaderLink, "Shader link status wrong (%s): %s", sh.Shape(), strings.TrimSpace(info))
	}

	p := &Program{
		Shape:          sh.Shape(),
		Handle:         handle,
		ModelView:      gl.GetUniformLocation(handle, "uModelView"),
		Projection:     gl.GetUniformLocation(handle, "uProjection"),
		PositionAttrib: gl.GetAttribLocation(handle, "aPosition"),
		ColorAttrib:    gl.GetAttribLocation(handle, "aColor"),
	}
	sh.Init(p, gl)
	return p, nil
}

func compileStage(gl Context, typ ShaderType, src string) (uint32, error) {
	h := gl.CreateShader(typ)
	gl.ShaderSource(h, src)
	gl.CompileShader(h)
	if ok, info := gl.ShaderCompiled(h); !ok {
		gl.DeleteShader(h)
		stage := "Vertex"
		if typ == FragmentShader {
			stage = "Fragment"
		}
		return 0, errors.New(errors.ErrCodeShaderCompile, "%s shader compilation failed: %s", stage, strings.TrimSpace(info))
	}
	return h, nil
}

// =============================================================================
// Shader families
// =============================================================================

// flatShader draws quads and polygons with their per-vertex color.
type flatShader struct {
	shape draw.Shape
}

func (f *flatShader) Shape() draw.Shape { return f.shape }

func (f *flatShader) Sources() (string, string) { return vertexSource, flatFragmentSource }

func (f *flatShader) Init(*Program, Context) {}

func (f *flatShader) PreProcess(*Element, Context, *Session) {}

// circleShader discards fragments outside the element's disc.
type circleShader struct {
	initialized bool
	center      int32
	radius      int32
}

func (c *circleShader) Shape() draw.Shape { return draw.ShapeCircle }

func (c *circleShader) Sources() (string, string) { return vertexSource, circleFragmentSource }

func (c *circleShader) Init(p *Program, gl Context) {
	if c.initialized {
		return
	}
	c.center = gl.GetUniformLocation(p.Handle, "uCenter")
	c.radius = gl.GetUniformLocation(p.Handle, "uRadius")
	c.initialized = true
}

func (c *circleShader) PreProcess(e *Element, gl Context, _ *Session) {
	x, y := e.CenterPoint()
	gl.Uniform2f(c.center, x, y)
	gl.Uniform1f(c.radius, e.Radius())
}

// ringSliceShader extends the circle shader with an inner radius, an angular
// range and the session's view rotation.
type ringSliceShader struct {
	circleShader
	initialized bool
	near        int32
	start       int32
	end         int32
	rotation    int32
}

func (r *ringSliceShader) Shape() draw.Shape { return draw.ShapeRingSlice }

func (r *ringSliceShader) Sources() (string, string) { return vertexSource, ringSliceFragmentSource }

func (r *ringSliceShader) Init(p *Program, gl Context) {
	if r.initialized {
		return
	}
	r.circleShader.Init(p, gl)
	r.near = gl.GetUniformLocation(p.Handle, "uNear")
	r.start = gl.GetUniformLocation(p.Handle, "uStart")
	r.end = gl.GetUniformLocation(p.Handle, "uEnd")
	r.rotation = gl.GetUniformLocation(p.Handle, "uRotation")
	r.initialized = true
}

func (r *ringSliceShader) PreProcess(e *Element, gl Context, s *Session) {
	r.circleShader.PreProcess(e, gl, s)
	rs, _ := e.RingSlice()
	gl.Uniform1f(r.near, rs.Near)
	gl.Uniform1f(r.start, Radians(rs.Start))
	gl.Uniform1f(r.end, Radians(rs.End))
	var rot float32
	if s != nil {
		rot = s.RotationRadians()
	}
	gl.Uniform1f(r.rotation, rot)
}
