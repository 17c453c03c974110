package glbackend

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/render/gpu"
)

func init() {
	// GLFW event handling and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

// Key is a view-control key reported by [Window.OnKey].
type Key int

const (
	KeyOther Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyZoomIn
	KeyZoomOut
	KeyReset
	KeyQuit
)

var keyMap = map[glfw.Key]Key{
	glfw.KeyLeft:       KeyLeft,
	glfw.KeyRight:      KeyRight,
	glfw.KeyUp:         KeyUp,
	glfw.KeyDown:       KeyDown,
	glfw.KeyEqual:      KeyZoomIn,
	glfw.KeyKPAdd:      KeyZoomIn,
	glfw.KeyMinus:      KeyZoomOut,
	glfw.KeyKPSubtract: KeyZoomOut,
	glfw.Key0:          KeyReset,
	glfw.KeyEscape:     KeyQuit,
	glfw.KeyQ:          KeyQuit,
}

// Window is a [gpu.Surface] backed by a resizable GLFW window with an
// OpenGL 4.1 core context.
type Window struct {
	win      *glfw.Window
	ctx      *Context
	ctxErr   error
	fallback *gpu.ImageCanvas

	onResize func(width, height int)
	onKey    func(Key)
}

// NewWindow initializes GLFW and opens a window. Failure to obtain a context
// is not returned here; it surfaces through [Window.Context] so the session
// can show it.
func NewWindow(width, height int, title string) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSurfaceUnavailable, err, "init glfw")
	}
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(errors.ErrCodeSurfaceUnavailable, err, "create window")
	}
	win.MakeContextCurrent()

	w := &Window{win: win}
	w.ctx, w.ctxErr = NewContext()
	fw, fh := win.GetFramebufferSize()
	w.fallback = gpu.NewImageCanvas(fw, fh)

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		k, ok := keyMap[key]
		if !ok {
			k = KeyOther
		}
		if k == KeyQuit {
			win.SetShouldClose(true)
		}
		if w.onKey != nil {
			w.onKey(k)
		}
	})
	return w, nil
}

// Context returns the GL context, or the error met while loading it.
func (w *Window) Context() (gpu.Context, error) {
	if w.ctxErr != nil {
		return nil, w.ctxErr
	}
	return w.ctx, nil
}

// Size returns the framebuffer size in pixels.
func (w *Window) Size() (int, int) { return w.win.GetFramebufferSize() }

// Fallback returns the 2D error canvas, sized to the framebuffer at creation.
func (w *Window) Fallback() gpu.Canvas { return w.fallback }

// FallbackImage returns the concrete fallback canvas, e.g. to save it.
func (w *Window) FallbackImage() *gpu.ImageCanvas { return w.fallback }

// OnResize registers the framebuffer resize handler.
func (w *Window) OnResize(fn func(width, height int)) { w.onResize = fn }

// OnKey registers the key handler.
func (w *Window) OnKey(fn func(Key)) { w.onKey = fn }

// Run processes events until the window is closed. It blocks in
// glfw.WaitEvents between events; frame runs after every batch of events and
// its output is presented. There is no continuous redraw.
func (w *Window) Run(frame func()) {
	frame()
	w.win.SwapBuffers()
	for !w.win.ShouldClose() {
		glfw.WaitEvents()
		frame()
		w.win.SwapBuffers()
	}
}

// GLVersion returns the GL version string, or "" without a context.
func (w *Window) GLVersion() string {
	if w.ctxErr != nil {
		return ""
	}
	return w.ctx.Version()
}

// RequestClose makes [Window.Run] return after the current event batch. It
// may be called from any goroutine.
func (w *Window) RequestClose() {
	w.win.SetShouldClose(true)
	glfw.PostEmptyEvent()
}

// Close releases the context and the window and terminates GLFW.
func (w *Window) Close() {
	if w.ctx != nil {
		w.ctx.Release()
	}
	w.win.Destroy()
	glfw.Terminate()
}

var _ gpu.Surface = (*Window)(nil)
