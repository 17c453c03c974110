// Package gputest provides in-memory implementations of the gpu package's
// Context, Surface and Canvas for tests.
//
// A [Recorder] records every call in order, tracks live shaders, programs and
// buffers, and can be told to fail shader compilation or program linking. A
// [Surface] hands out a Recorder (or an injected error) and records fallback
// text on a [Canvas].
package gputest

import (
	"fmt"

	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/render/gpu"
)

// Call is one recorded Context method invocation.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string { return fmt.Sprintf("%s%v", c.Name, c.Args) }

// Recorder is a fake [gpu.Context].
type Recorder struct {
	Calls []Call

	failCompile map[gpu.ShaderType]string
	failLink    string

	next     uint32
	shaders  map[uint32]gpu.ShaderType
	programs map[uint32]bool
	buffers  map[uint32][]float32
	current  uint32

	uniformNames map[int32]string
	nextLoc      int32
	floats       map[string][]float32
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		failCompile:  make(map[gpu.ShaderType]string),
		shaders:      make(map[uint32]gpu.ShaderType),
		programs:     make(map[uint32]bool),
		buffers:      make(map[uint32][]float32),
		uniformNames: make(map[int32]string),
		floats:       make(map[string][]float32),
	}
}

// FailCompile makes every shader of typ fail to compile with info as log.
func (r *Recorder) FailCompile(typ gpu.ShaderType, info string) { r.failCompile[typ] = info }

// FailLink makes every program fail to link with info as log.
func (r *Recorder) FailLink(info string) { r.failLink = info }

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) handle() uint32 {
	r.next++
	return r.next
}

// Count returns how many times the named method was called.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Filter returns the calls to the named method, in order.
func (r *Recorder) Filter(name string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls clears the call log but keeps resource state.
func (r *Recorder) ResetCalls() { r.Calls = nil }

// LiveBuffers returns the number of buffers not yet deleted.
func (r *Recorder) LiveBuffers() int { return len(r.buffers) }

// LivePrograms returns the number of programs not yet deleted.
func (r *Recorder) LivePrograms() int { return len(r.programs) }

// LiveShaders returns the number of shader objects not yet deleted.
func (r *Recorder) LiveShaders() int { return len(r.shaders) }

// Buffer returns the data last uploaded to buffer.
func (r *Recorder) Buffer(buffer uint32) ([]float32, bool) {
	d, ok := r.buffers[buffer]
	return d, ok
}

// Uniform returns the values last written to the named uniform, across all
// programs.
func (r *Recorder) Uniform(name string) []float32 { return r.floats[name] }

// UniformHistory returns every value written to the named scalar uniform,
// in order.
func (r *Recorder) UniformHistory(name string) []float32 {
	var out []float32
	for _, c := range r.Calls {
		if c.Name == "Uniform1f" && c.Args[0] == name {
			out = append(out, c.Args[1].(float32))
		}
	}
	return out
}

func (r *Recorder) CreateShader(typ gpu.ShaderType) uint32 {
	h := r.handle()
	r.shaders[h] = typ
	r.record("CreateShader", typ, h)
	return h
}

func (r *Recorder) ShaderSource(sh uint32, src string) { r.record("ShaderSource", sh, len(src)) }
func (r *Recorder) CompileShader(sh uint32)            { r.record("CompileShader", sh) }

func (r *Recorder) ShaderCompiled(sh uint32) (bool, string) {
	r.record("ShaderCompiled", sh)
	if info, ok := r.failCompile[r.shaders[sh]]; ok {
		return false, info
	}
	return true, ""
}

func (r *Recorder) DeleteShader(sh uint32) {
	r.record("DeleteShader", sh)
	delete(r.shaders, sh)
}

func (r *Recorder) CreateProgram() uint32 {
	h := r.handle()
	r.programs[h] = true
	r.record("CreateProgram", h)
	return h
}

func (r *Recorder) AttachShader(p, sh uint32) { r.record("AttachShader", p, sh) }
func (r *Recorder) LinkProgram(p uint32)      { r.record("LinkProgram", p) }

func (r *Recorder) ProgramLinked(p uint32) (bool, string) {
	r.record("ProgramLinked", p)
	if r.failLink != "" {
		return false, r.failLink
	}
	return true, ""
}

func (r *Recorder) DeleteProgram(p uint32) {
	r.record("DeleteProgram", p)
	delete(r.programs, p)
}

func (r *Recorder) UseProgram(p uint32) {
	r.current = p
	r.record("UseProgram", p)
}

// GetUniformLocation hands out a distinct location per call; the name is
// remembered so later writes can be looked up by name.
func (r *Recorder) GetUniformLocation(p uint32, name string) int32 {
	loc := r.nextLoc
	r.nextLoc++
	r.uniformNames[loc] = name
	r.record("GetUniformLocation", p, name)
	return loc
}

func (r *Recorder) GetAttribLocation(p uint32, name string) int32 {
	r.record("GetAttribLocation", p, name)
	switch name {
	case "aPosition":
		return 0
	case "aColor":
		return 1
	}
	return -1
}

func (r *Recorder) Uniform1f(loc int32, v float32) {
	name := r.uniformNames[loc]
	r.floats[name] = []float32{v}
	r.record("Uniform1f", name, v)
}

func (r *Recorder) Uniform2f(loc int32, x, y float32) {
	name := r.uniformNames[loc]
	r.floats[name] = []float32{x, y}
	r.record("Uniform2f", name, x, y)
}

func (r *Recorder) UniformMatrix4fv(loc int32, m gpu.Mat4) {
	name := r.uniformNames[loc]
	r.floats[name] = m[:]
	r.record("UniformMatrix4fv", name)
}

func (r *Recorder) CreateBuffer() uint32 {
	h := r.handle()
	r.buffers[h] = nil
	r.record("CreateBuffer", h)
	return h
}

func (r *Recorder) BufferData(buffer uint32, data []float32) {
	r.buffers[buffer] = append([]float32(nil), data...)
	r.record("BufferData", buffer, len(data))
}

func (r *Recorder) DeleteBuffer(buffer uint32) {
	delete(r.buffers, buffer)
	r.record("DeleteBuffer", buffer)
}

func (r *Recorder) VertexAttribPointer(buffer uint32, attrib, size int32) {
	r.record("VertexAttribPointer", buffer, attrib, size)
}

func (r *Recorder) DrawArrays(mode gpu.Primitive, first, count int32) {
	r.record("DrawArrays", r.current, mode, first, count)
}

func (r *Recorder) Viewport(x, y, w, h int32)          { r.record("Viewport", x, y, w, h) }
func (r *Recorder) ClearColor(cr, cg, cb, ca float32) { r.record("ClearColor", cr, cg, cb, ca) }
func (r *Recorder) Clear()                            { r.record("Clear") }

var _ gpu.Context = (*Recorder)(nil)

// =============================================================================
// Surface and Canvas
// =============================================================================

// Surface is a fake [gpu.Surface] of a fixed, settable size.
type Surface struct {
	Width, Height int
	Recorder      *Recorder
	Canvas        *Canvas
	// Err, if set, is returned by Context instead of the recorder.
	Err error
}

// NewSurface returns a surface backed by a fresh Recorder and Canvas.
func NewSurface(width, height int) *Surface {
	return &Surface{Width: width, Height: height, Recorder: NewRecorder(), Canvas: &Canvas{W: width, H: height}}
}

func (s *Surface) Context() (gpu.Context, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Recorder == nil {
		return nil, nil
	}
	return s.Recorder, nil
}

func (s *Surface) Size() (int, int) { return s.Width, s.Height }

func (s *Surface) SetSize(w, h int) {
	s.Width, s.Height = w, h
	if s.Canvas != nil {
		s.Canvas.W, s.Canvas.H = w, h
	}
}

func (s *Surface) Fallback() gpu.Canvas {
	if s.Canvas == nil {
		return nil
	}
	return s.Canvas
}

// Text is one FillText call.
type Text struct {
	Text  string
	X, Y  float64
	Color draw.Color
}

// Canvas records fallback drawing.
type Canvas struct {
	W, H   int
	Clears int
	Texts  []Text
}

func (c *Canvas) Size() (int, int) { return c.W, c.H }

func (c *Canvas) Clear() {
	c.Clears++
	c.Texts = nil
}

func (c *Canvas) FillText(text string, x, y float64, col draw.Color) {
	c.Texts = append(c.Texts, Text{Text: text, X: x, Y: y, Color: col})
}

var (
	_ gpu.Surface = (*Surface)(nil)
	_ gpu.Resizer = (*Surface)(nil)
	_ gpu.Canvas  = (*Canvas)(nil)
)
