// Package pkg provides the core libraries for treeviz tree visualization.
//
// # Overview
//
// Treeviz turns a tree (a phylogeny, a file system, an org chart) into a
// space-filling diagram. A layout converts the tree into a flat list of
// draw commands; renderers turn that list into pixels. The pkg directory
// is organized into these areas:
//
//  1. [tree], [palette] - The input model and its depth-indexed colors
//  2. [layout], [draw] - Layout algorithms and the draw commands they emit
//  3. [render/gpu] - OpenGL session, shader programs and letterboxing
//  4. [render/sink] - Headless output (JSON, SVG, PNG, DOT)
//  5. [pipeline] - Orchestration (parse → layout → render) with caching
//  6. [cache], [config], [errors], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow through treeviz:
//
//	tree.json
//	    ↓
//	[tree] package (parse, finalize sizes and depths, select)
//	    ↓
//	[layout] package (sunburst, pythagoras, treemap, demo)
//	    ↓
//	[]draw.Command
//	    ↓
//	[render/gpu] Session  or  [render/sink] JSON/SVG/PNG
//
// # Quick Start
//
// Lay out a tree and write an SVG:
//
//	t, _ := tree.ImportJSON("tree.json")
//	l, _ := layout.Get("sunburst")
//	settings, _ := l.Schema().Resolve(nil)
//	p, _ := palette.Build(t.MaxDepth(), palette.DefaultOptions())
//	svg := sink.RenderSVG(l.Draw(t, settings, p))
//
// Or use the pipeline, which adds validation and caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "tree.json",
//	    Layout:  "treemap",
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//
// [tree]: github.com/matzehuels/treeviz/pkg/tree
// [palette]: github.com/matzehuels/treeviz/pkg/palette
// [layout]: github.com/matzehuels/treeviz/pkg/layout
// [draw]: github.com/matzehuels/treeviz/pkg/draw
// [render/gpu]: github.com/matzehuels/treeviz/pkg/render/gpu
// [render/sink]: github.com/matzehuels/treeviz/pkg/render/sink
// [pipeline]: github.com/matzehuels/treeviz/pkg/pipeline
// [cache]: github.com/matzehuels/treeviz/pkg/cache
// [config]: github.com/matzehuels/treeviz/pkg/config
// [errors]: github.com/matzehuels/treeviz/pkg/errors
// [observability]: github.com/matzehuels/treeviz/pkg/observability
package pkg
