// Package render groups the backends that turn draw commands into output.
//
// # Overview
//
// Layouts emit a flat []draw.Command in a fixed 1600×900 logical space. Two
// backends consume it:
//
//   - GPU rendering (in [gpu]): a Session compiles one shader program per
//     shape family, uploads vertex buffers once per scene and issues one
//     draw call per command, letterboxed to 16:9 on any surface.
//   - Headless sinks (in [sink]): JSON for caching and transport, SVG and
//     PNG for files, and a DOT/nodelink view of the tree itself.
//
// The [gpu/glbackend] subpackage binds the session to a real OpenGL 4.1
// context in a GLFW window; [gpu/gputest] records calls for tests.
//
//	s := gpu.NewSession(gpu.WithShaders(l.RequiredShaders()...))
//	if err := s.Initialize(win); err != nil {
//	    return err // the error is already drawn on the fallback canvas
//	}
//	err := s.Render(cmds)
//
//	svg := sink.RenderSVG(cmds, sink.WithBackground("#101018"))
//	png, err := sink.RenderPNG(cmds, sink.WithScale(2))
//
// [gpu]: github.com/matzehuels/treeviz/pkg/render/gpu
// [gpu/glbackend]: github.com/matzehuels/treeviz/pkg/render/gpu/glbackend
// [gpu/gputest]: github.com/matzehuels/treeviz/pkg/render/gpu/gputest
// [sink]: github.com/matzehuels/treeviz/pkg/render/sink
package render
