package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	treeerrors "github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/layout"
	"github.com/matzehuels/treeviz/pkg/pipeline"
	"github.com/matzehuels/treeviz/pkg/render/gpu"
	"github.com/matzehuels/treeviz/pkg/render/gpu/glbackend"
)

// View control steps.
const (
	rotateStep = 5    // degrees per key press
	zoomStep   = 1.1  // factor per key press
	panStep    = 25.0 // logical units per key press
)

// viewOpts holds the command-line flags for the view command.
type viewOpts struct {
	layout      string
	sets        []string
	selected    []string
	width       int
	height      int
	fallbackOut string
}

// viewCommand opens an OpenGL window showing a tree with one layout. The
// frame is redrawn only when the window is resized or a key is pressed.
func (c *CLI) viewCommand() *cobra.Command {
	opts := viewOpts{width: 1280, height: 720}

	cmd := &cobra.Command{
		Use:   "view [tree.json]",
		Short: "Show a tree in an OpenGL window",
		Long: `Show a tree in an OpenGL window.

Keys: ←/→ rotate, ↑/↓ pan, +/- zoom, 0 reset, q or Esc quit.

If the GPU session fails (no OpenGL 4.1 context, shader errors) the error is
drawn on the fallback canvas; --fallback-out saves that canvas as PNG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.layout, "layout", "l", pipeline.DefaultLayout, "layout to draw")
	f.StringArrayVar(&opts.sets, "set", nil, "layout setting as name=value (repeatable)")
	f.StringSliceVar(&opts.selected, "select", nil, "node ids to highlight (comma-separated)")
	f.IntVar(&opts.width, "width", opts.width, "window width")
	f.IntVar(&opts.height, "height", opts.height, "window height")
	f.StringVar(&opts.fallbackOut, "fallback-out", "", "save the error canvas to this PNG on failure")
	registerLayoutCompletions(cmd)

	return cmd
}

func (c *CLI) runView(cmd *cobra.Command, input string, o viewOpts) error {
	ctx := cmd.Context()
	l, err := layout.Get(o.layout)
	if err != nil {
		return err
	}
	overrides, err := l.Schema().ParseAssignments(o.sets)
	if err != nil {
		return err
	}
	opts := c.pipelineOptions(l.Name(), overrides)
	opts.Input = input
	opts.Select = o.selected
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, os.Stderr, stageParse)
	detach := spin.attach()
	spin.Start()
	defer spin.Stop()

	t, err := pipeline.Parse(opts)
	if err != nil {
		detach()
		spin.StopWithError("View failed")
		return err
	}
	prog.mark("parse")
	cmds, hit, err := runner.ComputeLayoutWithCacheInfo(ctx, t, opts)
	detach()
	if err != nil {
		spin.StopWithError("View failed")
		return err
	}
	prog.mark("layout")

	spin.SetStage(stageWindow)
	win, err := glbackend.NewWindow(o.width, o.height, fmt.Sprintf("%s - %s", appName, l.DisplayName()))
	if err != nil {
		spin.StopWithError("View failed")
		return err
	}
	defer win.Close()
	spin.Stop()
	prog.mark("window")
	prog.done(fmt.Sprintf("Opened %s view of %d commands", l.Name(), len(cmds)))
	printStats(pipeline.Stats{NodeCount: t.Len(), CommandCount: len(cmds)}, stageCache{"layout", hit})

	sess := gpu.NewSession(gpu.WithLogger(c.Logger), gpu.WithShaders(l.RequiredShaders()...))
	defer sess.Destroy()

	if err := sess.Initialize(win); err != nil {
		return c.viewFailed(win, o.fallbackOut, err)
	}
	c.Logger.Debug("opened gl context", "version", win.GLVersion())

	stop := context.AfterFunc(ctx, win.RequestClose)
	defer stop()

	v := &viewer{session: sess}
	var renderErr error
	win.OnResize(sess.Resize)
	win.OnKey(func(k glbackend.Key) { v.apply(k) })
	win.Run(func() {
		if sess.Settle() {
			return
		}
		if err := sess.Render(cmds); err != nil {
			renderErr = err
			win.RequestClose()
		}
	})

	if renderErr != nil {
		return c.viewFailed(win, o.fallbackOut, renderErr)
	}
	return nil
}

// viewFailed saves the fallback canvas, which the failed session has
// already drawn the error on, and returns err.
func (c *CLI) viewFailed(win *glbackend.Window, path string, err error) error {
	if treeerrors.IsGPU(err) {
		printDetail("The view command needs an OpenGL 4.1 core context")
	}
	if path == "" {
		return err
	}
	if serr := win.FallbackImage().SavePNG(path); serr != nil {
		c.Logger.Warn("could not save fallback canvas", "path", path, "err", serr)
		return err
	}
	printArtifact(path, "png", 0)
	return err
}

// viewer applies key presses to a session's view transform. The window
// renders a frame after every event batch, so no explicit redraw is needed.
type viewer struct {
	session *gpu.Session

	panX, panY float32
}

// apply updates the view transform for k and reports whether it changed.
func (v *viewer) apply(k glbackend.Key) bool {
	s := v.session
	switch k {
	case glbackend.KeyLeft:
		s.SetRotation(s.Rotation() - rotateStep)
	case glbackend.KeyRight:
		s.SetRotation(s.Rotation() + rotateStep)
	case glbackend.KeyUp:
		v.pan(0, panStep)
	case glbackend.KeyDown:
		v.pan(0, -panStep)
	case glbackend.KeyZoomIn:
		s.SetZoom(s.Zoom() * zoomStep)
	case glbackend.KeyZoomOut:
		s.SetZoom(s.Zoom() / zoomStep)
	case glbackend.KeyReset:
		s.SetRotation(0)
		s.SetZoom(1)
		v.pan(-v.panX, -v.panY)
	default:
		return false
	}
	return true
}

func (v *viewer) pan(dx, dy float32) {
	v.panX += dx
	v.panY += dy
	v.session.Pan(dx, dy)
}
