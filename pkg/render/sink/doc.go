// Package sink writes a draw command sequence to headless output formats.
//
// # Overview
//
// The GPU session in [gpu] is the interactive renderer. Sinks produce files
// from the same command sequences without a rendering context, so the CLI
// and the HTTP server can emit artifacts on machines with no display:
//
//   - [RenderJSON]: the command sequence with its logical frame
//   - [RenderSVG]: vector output, one element per command
//   - [RenderPNG]: raster output via fogleman/gg
//
// Every sink preserves command order: later commands paint over earlier ones,
// exactly as the GPU session submits them.
//
// # Coordinates
//
// Commands live in the logical 16:9 space (x ∈ [-800, 800], y ∈ [-450, 450],
// y up). Sinks flip y so that output matches what the GPU session shows.
//
// # Node-link diagrams
//
// [ToDOT] converts the tree itself (not a command sequence) to Graphviz DOT,
// and [RenderNodelinkSVG] renders that DOT in-process:
//
//	dot := sink.ToDOT(t, sink.NodelinkOptions{Detailed: true})
//	svg, err := sink.RenderNodelinkSVG(ctx, dot)
//
// [gpu]: github.com/matzehuels/treeviz/pkg/render/gpu
package sink
