package sink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treeviz/pkg/palette"
	"github.com/matzehuels/treeviz/pkg/tree"
)

// NodelinkOptions configures node-link diagram rendering.
type NodelinkOptions struct {
	// Detailed includes depth, subtree size and metadata in node labels.
	// When false, only the display label is shown.
	Detailed bool
	// Palette, when set, fills each node with its layout color.
	Palette *palette.Palette
}

// ToDOT converts a tree to Graphviz DOT format for node-link visualization.
// Selected nodes and their descendants are drawn with a bold outline, the
// same inheritance rule the layouts apply to colors.
func ToDOT(t *tree.Tree, opts NodelinkOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if t == nil || t.Root == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	var edges bytes.Buffer
	var visit func(n *tree.Node, selected bool)
	visit = func(n *tree.Node, selected bool) {
		selected = selected || n.Selected
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed), selected, opts.Palette)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
		for _, c := range n.Children {
			fmt.Fprintf(&edges, "  %q -> %q;\n", n.ID, c.ID)
			visit(c, selected)
		}
	}
	visit(t.Root, false)

	buf.WriteString("\n")
	buf.Write(edges.Bytes())
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *tree.Node, detailed bool) string {
	if !detailed {
		return n.DisplayLabel()
	}

	parts := []string{
		fmt.Sprintf("depth: %d", n.Depth),
		fmt.Sprintf("size: %d", n.SubTreeSize),
	}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}

	return n.DisplayLabel() + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *tree.Node, label string, selected bool, p *palette.Palette) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if p != nil {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", p.Color(n, selected).Hex()))
	}
	if selected {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// RenderNodelinkSVG renders a DOT graph to SVG using Graphviz.
func RenderNodelinkSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg header with a plain
// pixel-sized one anchored at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
