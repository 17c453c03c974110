package gpu

import "github.com/matzehuels/treeviz/pkg/draw"

// ShaderType distinguishes shader stages.
type ShaderType int

const (
	VertexShader ShaderType = iota
	FragmentShader
)

func (t ShaderType) String() string {
	if t == VertexShader {
		return "vertex"
	}
	return "fragment"
}

// Primitive is the topology passed to DrawArrays.
type Primitive int

const (
	TriangleStrip Primitive = iota
	TriangleFan
	Triangles
)

// Context is the subset of a WebGL/OpenGL context the session needs. Handles
// are opaque non-zero identifiers. Implementations may assume single-threaded
// use and in-order completion of calls.
type Context interface {
	CreateShader(typ ShaderType) uint32
	ShaderSource(shader uint32, src string)
	CompileShader(shader uint32)
	// ShaderCompiled reports the compile status and, on failure, the info log.
	ShaderCompiled(shader uint32) (bool, string)
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	// ProgramLinked reports the link status and, on failure, the info log.
	ProgramLinked(program uint32) (bool, string)
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	// GetUniformLocation returns -1 for unknown or optimized-out uniforms.
	GetUniformLocation(program uint32, name string) int32
	// GetAttribLocation returns -1 for unknown attributes.
	GetAttribLocation(program uint32, name string) int32
	Uniform1f(loc int32, v float32)
	Uniform2f(loc int32, x, y float32)
	UniformMatrix4fv(loc int32, m Mat4)

	CreateBuffer() uint32
	BufferData(buffer uint32, data []float32)
	DeleteBuffer(buffer uint32)
	// VertexAttribPointer binds buffer to attrib with size float components
	// per vertex and enables the attribute.
	VertexAttribPointer(buffer uint32, attrib int32, size int32)
	DrawArrays(mode Primitive, first, count int32)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear()
}

// Surface is a host drawing area. It provides the GPU context and a 2D
// fallback canvas used to display unrecoverable errors.
type Surface interface {
	// Context returns the rendering context, or an error if none can be
	// obtained.
	Context() (Context, error)
	// Size returns the current drawable size in pixels.
	Size() (width, height int)
	// Fallback returns the 2D canvas for error output. May return nil.
	Fallback() Canvas
}

// Resizer is implemented by surfaces whose size is set by the host rather
// than by a windowing system.
type Resizer interface {
	SetSize(width, height int)
}

// Canvas is a minimal 2D drawing surface.
type Canvas interface {
	Size() (width, height int)
	Clear()
	FillText(text string, x, y float64, c draw.Color)
}
