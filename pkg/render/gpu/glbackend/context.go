// Package glbackend implements the gpu package's Context on OpenGL 4.1 core
// (go-gl) and its Surface on a GLFW window.
//
// Every function here must be called from the thread that owns the GL
// context, which for GLFW is the main thread.
package glbackend

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/render/gpu"
)

// Context is a [gpu.Context] backed by the current OpenGL context.
type Context struct {
	vao uint32
}

// NewContext loads the GL function pointers for the current context and
// binds the vertex array object required by core profiles.
func NewContext() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSurfaceUnavailable, err, "load OpenGL")
	}
	c := &Context{}
	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return c, nil
}

// Version returns the driver's GL version string.
func (c *Context) Version() string { return gl.GoStr(gl.GetString(gl.VERSION)) }

// Release deletes the vertex array object.
func (c *Context) Release() {
	if c.vao != 0 {
		gl.DeleteVertexArrays(1, &c.vao)
		c.vao = 0
	}
}

func cstr(s string) *uint8 { return gl.Str(s + "\x00") }

var shaderTypes = map[gpu.ShaderType]uint32{
	gpu.VertexShader:   gl.VERTEX_SHADER,
	gpu.FragmentShader: gl.FRAGMENT_SHADER,
}

func (c *Context) CreateShader(typ gpu.ShaderType) uint32 { return gl.CreateShader(shaderTypes[typ]) }

func (c *Context) ShaderSource(sh uint32, src string) {
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(sh, 1, csources, nil)
	free()
}

func (c *Context) CompileShader(sh uint32) { gl.CompileShader(sh) }

func (c *Context) ShaderCompiled(sh uint32) (bool, string) {
	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status != gl.FALSE {
		return true, ""
	}
	var n int32
	gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &n)
	info := strings.Repeat("\x00", int(n+1))
	gl.GetShaderInfoLog(sh, n, nil, gl.Str(info))
	return false, strings.TrimRight(info, "\x00")
}

func (c *Context) DeleteShader(sh uint32) { gl.DeleteShader(sh) }

func (c *Context) CreateProgram() uint32     { return gl.CreateProgram() }
func (c *Context) AttachShader(p, sh uint32) { gl.AttachShader(p, sh) }
func (c *Context) LinkProgram(p uint32)      { gl.LinkProgram(p) }
func (c *Context) DeleteProgram(p uint32)    { gl.DeleteProgram(p) }
func (c *Context) UseProgram(p uint32)       { gl.UseProgram(p) }

func (c *Context) ProgramLinked(p uint32) (bool, string) {
	var status int32
	gl.GetProgramiv(p, gl.LINK_STATUS, &status)
	if status != gl.FALSE {
		return true, ""
	}
	var n int32
	gl.GetProgramiv(p, gl.INFO_LOG_LENGTH, &n)
	info := strings.Repeat("\x00", int(n+1))
	gl.GetProgramInfoLog(p, n, nil, gl.Str(info))
	return false, strings.TrimRight(info, "\x00")
}

func (c *Context) GetUniformLocation(p uint32, name string) int32 {
	return gl.GetUniformLocation(p, cstr(name))
}

func (c *Context) GetAttribLocation(p uint32, name string) int32 {
	return gl.GetAttribLocation(p, cstr(name))
}

func (c *Context) Uniform1f(loc int32, v float32)    { gl.Uniform1f(loc, v) }
func (c *Context) Uniform2f(loc int32, x, y float32) { gl.Uniform2f(loc, x, y) }

func (c *Context) UniformMatrix4fv(loc int32, m gpu.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (c *Context) CreateBuffer() uint32 {
	var b uint32
	gl.GenBuffers(1, &b)
	return b
}

func (c *Context) BufferData(b uint32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, b)
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (c *Context) DeleteBuffer(b uint32) { gl.DeleteBuffers(1, &b) }

func (c *Context) VertexAttribPointer(b uint32, attrib, size int32) {
	if attrib < 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b)
	gl.EnableVertexAttribArray(uint32(attrib))
	gl.VertexAttribPointerWithOffset(uint32(attrib), size, gl.FLOAT, false, 0, 0)
}

var primitives = map[gpu.Primitive]uint32{
	gpu.TriangleStrip: gl.TRIANGLE_STRIP,
	gpu.TriangleFan:   gl.TRIANGLE_FAN,
	gpu.Triangles:     gl.TRIANGLES,
}

func (c *Context) DrawArrays(mode gpu.Primitive, first, count int32) {
	gl.DrawArrays(primitives[mode], first, count)
}

func (c *Context) Viewport(x, y, w, h int32)     { gl.Viewport(x, y, w, h) }
func (c *Context) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (c *Context) Clear()                        { gl.Clear(gl.COLOR_BUFFER_BIT) }

var _ gpu.Context = (*Context)(nil)
