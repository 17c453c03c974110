package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/layout"
	"github.com/matzehuels/treeviz/pkg/palette"
	"github.com/matzehuels/treeviz/pkg/render/sink"
	"github.com/matzehuels/treeviz/pkg/tree"
)

// Render generates output artifacts in the requested formats. Draw list
// formats use cmds; dot and nodelink use t.
func Render(ctx context.Context, cmds []draw.Command, t *tree.Tree, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, format, cmds, t, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// outlineColor separates neighbouring shapes in detailed SVG output.
const outlineColor = "white"

func renderFormat(ctx context.Context, format string, cmds []draw.Command, t *tree.Tree, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return sink.RenderJSON(cmds, sink.WithJSONLayout(opts.Layout), sink.WithJSONSettings(opts.Settings))
	case FormatSVG:
		svgOpts := []sink.SVGOption{sink.WithSize(opts.Width, opts.Height)}
		if opts.Background != "" {
			svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
		}
		if opts.Detailed {
			svgOpts = append(svgOpts, sink.WithStroke(outlineColor))
		}
		return sink.RenderSVG(cmds, svgOpts...), nil
	case FormatPNG:
		pngOpts := []sink.PNGOption{sink.WithPNGSize(opts.Width, opts.Height), sink.WithScale(opts.Scale)}
		if opts.Background != "" {
			bg, err := draw.ParseHex(opts.Background)
			if err != nil {
				return nil, fmt.Errorf("png background must be a hex color: %w", err)
			}
			pngOpts = append(pngOpts, sink.WithPNGBackground(bg))
		}
		return sink.RenderPNG(cmds, pngOpts...)
	case FormatDOT, FormatNodelink:
		if t == nil {
			return nil, fmt.Errorf("%s output needs the tree", format)
		}
		p, err := palette.Build(t.MaxDepth(), opts.Palette)
		if err != nil {
			return nil, err
		}
		dot := sink.ToDOT(t, sink.NodelinkOptions{Detailed: opts.Detailed, Palette: p})
		if format == FormatDOT {
			return []byte(dot), nil
		}
		return sink.RenderNodelinkSVG(ctx, dot)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// RenderFromDrawData renders output from serialized draw list data, as
// written by the json format or stored in the cache.
func RenderFromDrawData(ctx context.Context, data []byte, t *tree.Tree, opts Options) (map[string][]byte, error) {
	doc, err := decodeDrawList(data)
	if err != nil {
		return nil, err
	}
	if opts.Layout == "" {
		opts.Layout = doc.Layout
	}
	if opts.Settings == nil {
		opts.Settings = layout.Settings(doc.Settings)
	}
	return Render(ctx, doc.Commands, t, opts)
}
