package gpu

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/observability"
)

// State is the session lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateRendering
	StateErrored
)

var stateNames = [...]string{"uninitialized", "initializing", "ready", "rendering", "errored"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Projection parameters.
const (
	FieldOfView = 45 // degrees, vertical
	NearPlane   = 1
	FarPlane    = -1
)

// Session owns a surface, its context and every program and buffer created
// against it. A Session is not safe for concurrent use.
type Session struct {
	logger   *log.Logger
	baseline []draw.Shape

	surface Surface
	gl      Context
	state   State
	err     error

	shaders  map[draw.Shape]Shader
	programs map[draw.Shape]*Program

	projection Mat4
	modelView  Mat4
	viewport   Viewport

	rotation float32 // degrees
	zoom     float32
	panX     float32 // logical units
	panY     float32

	scene    *Scene
	deferred Deferred
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithShaders sets the shader families compiled by Initialize. The default
// is the flat quad family; other families are compiled on demand.
func WithShaders(shapes ...draw.Shape) Option {
	return func(s *Session) { s.baseline = append([]draw.Shape(nil), shapes...) }
}

// NewSession creates an uninitialized session.
func NewSession(opts ...Option) *Session {
	s := &Session{
		logger:    log.New(io.Discard),
		baseline:  []draw.Shape{draw.ShapeQuad},
		shaders:   make(map[draw.Shape]Shader),
		programs:  make(map[draw.Shape]*Program),
		modelView: Identity(),
		zoom:      1,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Err returns the error that moved the session to StateErrored, if any.
func (s *Session) Err() error { return s.err }

// Viewport returns the last viewport applied.
func (s *Session) Viewport() Viewport { return s.viewport }

// Projection returns the projection matrix built by Initialize.
func (s *Session) Projection() Mat4 { return s.projection }

// ModelView returns the current model-view matrix.
func (s *Session) ModelView() Mat4 { return s.modelView }

// Scene returns the scene currently held by the session, or nil.
func (s *Session) Scene() *Scene { return s.scene }

func (s *Session) setState(to State) {
	if s.state == to {
		return
	}
	from := s.state
	s.state = to
	s.logger.Debug("session state", "from", from, "to", to)
	observability.Session().OnStateChange(from.String(), to.String())
}

// fail moves the session to StateErrored and shows the fallback. Only the
// first error is kept and logged.
func (s *Session) fail(err error) {
	if s.state == StateErrored {
		return
	}
	s.err = err
	s.deferred.Cancel()
	s.setState(StateErrored)
	s.logger.Error("gpu session failed", "err", err)
	observability.Session().OnError(err)
	s.onError()
}

// onError clears the fallback canvas and writes the error message on it. No
// GPU calls are made.
func (s *Session) onError() {
	if s.surface == nil || s.err == nil {
		return
	}
	c := s.surface.Fallback()
	if c == nil {
		return
	}
	c.Clear()
	_, h := c.Size()
	c.FillText(FallbackPrefix+errors.UserMessage(s.err), 10, float64(h)/2, ErrorColor)
}

// Initialize acquires the surface's context, compiles the baseline shader
// families, clears to transparent, builds the projection and applies the
// viewport. Any failure moves the session to StateErrored and is returned.
func (s *Session) Initialize(surface Surface) error {
	if s.state != StateUninitialized {
		return errors.New(errors.ErrCodeInternal, "session already %s", s.state)
	}
	s.surface = surface
	s.setState(StateInitializing)

	gl, err := surface.Context()
	if err == nil && gl == nil {
		err = errors.New(errors.ErrCodeSurfaceUnavailable, "no rendering context")
	}
	if err != nil {
		if !errors.Is(err, errors.ErrCodeSurfaceUnavailable) {
			err = errors.Wrap(errors.ErrCodeSurfaceUnavailable, err, "acquire rendering context")
		}
		s.fail(err)
		return err
	}
	s.gl = gl

	if err := s.EnableShaders(s.baseline...); err != nil {
		return err
	}

	gl.ClearColor(0, 0, 0, 0)
	w, h := surface.Size()
	aspect := float32(1)
	if w > 0 && h > 0 {
		aspect = float32(w) / float32(h)
	}
	s.projection = Perspective(Radians(FieldOfView), aspect, NearPlane, FarPlane)
	s.updateModelView()
	s.setState(StateReady)
	s.SetViewport(w, h)
	return nil
}

// EnableShaders compiles every listed family that is not compiled yet. The
// first failure moves the session to StateErrored; nothing is retried.
func (s *Session) EnableShaders(shapes ...draw.Shape) error {
	if s.state == StateErrored {
		return s.err
	}
	if s.gl == nil {
		return errors.New(errors.ErrCodeInternal, "session not initialized")
	}
	for _, shape := range shapes {
		if _, ok := s.programs[shape]; ok {
			continue
		}
		sh, err := NewShader(shape)
		if err != nil {
			return err
		}
		p, err := compileProgram(s.gl, sh)
		if err != nil {
			s.fail(err)
			return err
		}
		s.shaders[shape] = sh
		s.programs[shape] = p
		s.logger.Debug("compiled shader program", "shape", shape, "program", p.Handle)
	}
	return nil
}

// HasProgram reports whether the family's program is compiled.
func (s *Session) HasProgram(shape draw.Shape) bool {
	_, ok := s.programs[shape]
	return ok
}

// SetViewport applies the 16:9 viewport for a surface of the given size.
func (s *Session) SetViewport(width, height int) {
	if s.state == StateErrored || s.gl == nil {
		return
	}
	s.viewport = Letterbox(width, height)
	s.gl.Viewport(s.viewport.Rect())
}

// Resize records a new surface size and defers the viewport update and
// redraw until the host settles, see [Session.Settle]. A later Resize
// replaces a pending one.
func (s *Session) Resize(width, height int) {
	if s.state == StateErrored {
		s.onError()
		return
	}
	if s.surface == nil {
		return
	}
	if r, ok := s.surface.(Resizer); ok {
		r.SetSize(width, height)
	}
	s.deferred.Schedule(func() {
		w, h := s.surface.Size()
		s.SetViewport(w, h)
		s.Redraw()
	})
}

// Settle runs the pending deferred task and reports whether there was one.
func (s *Session) Settle() bool { return s.deferred.Flush() }

// Render draws cmds in order as one frame. Buffers are reused when cmds
// match the current scene; otherwise the old scene is released and a new
// one built. Families missing a program are compiled first.
//
// In StateErrored, Render repeats the fallback output and returns nil.
func (s *Session) Render(cmds []draw.Command) error {
	switch s.state {
	case StateErrored:
		s.onError()
		return nil
	case StateReady:
	default:
		return errors.New(errors.ErrCodeInternal, "render in state %s", s.state)
	}

	if err := s.EnableShaders(draw.ShapesOf(cmds)...); err != nil {
		return err
	}

	reused := s.scene != nil && s.scene.Fingerprint == draw.Fingerprint(cmds)
	if !reused {
		s.releaseScene()
		s.scene = newScene(s.gl, cmds)
		s.logger.Debug("built scene", "elements", len(s.scene.Elements))
	}
	s.drawScene(reused)
	return nil
}

// Redraw re-issues the current scene without rebuilding it.
func (s *Session) Redraw() {
	switch s.state {
	case StateErrored:
		s.onError()
	case StateReady:
		s.drawScene(true)
	}
}

func (s *Session) drawScene(reused bool) {
	start := time.Now()
	s.setState(StateRendering)
	gl := s.gl
	gl.Clear()

	var count int
	var current *Program
	if s.scene != nil {
		for _, e := range s.scene.Elements {
			p := s.programs[e.Shape]
			if p == nil {
				continue
			}
			if p != current {
				gl.UseProgram(p.Handle)
				gl.UniformMatrix4fv(p.ModelView, s.modelView)
				gl.UniformMatrix4fv(p.Projection, s.projection)
				current = p
			}
			gl.VertexAttribPointer(e.PositionBuffer, p.PositionAttrib, 2)
			gl.VertexAttribPointer(e.ColorBuffer, p.ColorAttrib, 4)
			s.shaders[e.Shape].PreProcess(e, gl, s)
			gl.DrawArrays(e.Primitive, 0, e.VertexCount)
			count++
		}
	}

	s.setState(StateReady)
	observability.Session().OnFrame(count, reused, time.Since(start))
}

func (s *Session) releaseScene() {
	if s.scene == nil {
		return
	}
	s.scene.Release(s.gl)
	s.scene = nil
}

// Destroy releases the scene's buffers and every program. A destroyed
// session returns to StateUninitialized unless it had failed, in which case
// it stays in StateErrored without issuing GPU calls.
func (s *Session) Destroy() {
	s.deferred.Cancel()
	if s.gl != nil && s.state != StateErrored {
		s.releaseScene()
		for shape, p := range s.programs {
			s.gl.DeleteProgram(p.Handle)
			delete(s.programs, shape)
		}
	}
	s.scene = nil
	clear(s.programs)
	clear(s.shaders)
	s.gl = nil
	if s.state != StateErrored {
		s.setState(StateUninitialized)
		s.surface = nil
	}
}

// =============================================================================
// View transform
// =============================================================================

// SetRotation sets the view rotation in degrees. Ring slices consume it
// through their rotation uniform. Call Redraw to apply.
func (s *Session) SetRotation(deg float32) { s.rotation = deg }

// Rotation returns the view rotation in degrees.
func (s *Session) Rotation() float32 { return s.rotation }

// RotationRadians returns the view rotation in radians, folded into [0, 2π).
func (s *Session) RotationRadians() float32 { return WrapAngle(Radians(s.rotation)) }

// SetZoom sets the view scale. Values ≤ 0 are ignored.
func (s *Session) SetZoom(z float32) {
	if z <= 0 {
		return
	}
	s.zoom = z
	s.updateModelView()
}

// Zoom returns the view scale.
func (s *Session) Zoom() float32 { return s.zoom }

// Pan moves the view by (dx, dy) logical units.
func (s *Session) Pan(dx, dy float32) {
	s.panX += dx
	s.panY += dy
	s.updateModelView()
}

func (s *Session) updateModelView() {
	s.modelView = Scale(s.zoom, s.zoom, 1).Mul(Translate(s.panX/draw.HalfWidth, s.panY/draw.HalfHeight, 0))
}
