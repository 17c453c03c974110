package sink

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/treeviz/pkg/draw"
)

// ringSliceStep is the angular resolution, in degrees, of tessellated ring
// slice outlines.
const ringSliceStep = 2

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height int
	background    string
	stroke        string
}

// WithSize sets the output width and height attributes. The viewBox always
// spans the logical frame.
func WithSize(w, h int) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = w, h }
}

// WithBackground fills the frame with a CSS color before drawing.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithStroke outlines every shape with a CSS color.
func WithStroke(color string) SVGOption { return func(r *svgRenderer) { r.stroke = color } }

// RenderSVG renders cmds as an SVG document. Each shape carries its node id
// as data-node so that hosts can map shapes back to tree nodes.
func RenderSVG(cmds []draw.Command, opts ...SVGOption) []byte {
	r := svgRenderer{width: draw.LogicalWidth, height: draw.LogicalHeight}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%d %d %d %d" width="%d" height="%d">`+"\n",
		-draw.HalfWidth, -draw.HalfHeight, draw.LogicalWidth, draw.LogicalHeight, r.width, r.height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
			-draw.HalfWidth, -draw.HalfHeight, draw.LogicalWidth, draw.LogicalHeight, html.EscapeString(r.background))
	}
	buf.WriteString(`  <g transform="scale(1,-1)">` + "\n")
	for _, c := range cmds {
		r.renderCommand(&buf, c)
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderCommand(buf *bytes.Buffer, c draw.Command) {
	attrs := r.paint(c)
	switch g := c.Geometry.(type) {
	case draw.Quad:
		fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s"%s/>`+"\n",
			num(g.X), num(g.Y), num(g.Width), num(g.Height), attrs)
	case draw.Circle:
		fmt.Fprintf(buf, `    <circle cx="%s" cy="%s" r="%s"%s/>`+"\n", num(g.X), num(g.Y), num(g.Radius), attrs)
	case draw.RingSlice:
		fmt.Fprintf(buf, `    <path d="%s"%s/>`+"\n", pathData(g.Outline(ringSliceStep)), attrs)
	case draw.Polygon:
		fmt.Fprintf(buf, `    <polygon points="%s"%s/>`+"\n", points(g.Points), attrs)
	}
}

func (r *svgRenderer) paint(c draw.Command) string {
	n := c.Color.NRGBA()
	var b strings.Builder
	fmt.Fprintf(&b, ` data-node="%s" fill="#%02x%02x%02x"`, html.EscapeString(c.NodeID), n.R, n.G, n.B)
	if n.A != 255 {
		fmt.Fprintf(&b, ` fill-opacity="%.3f"`, float64(n.A)/255)
	}
	if r.stroke != "" {
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="1"`, html.EscapeString(r.stroke))
	}
	return b.String()
}

func num(v float32) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

func points(pts [][2]float32) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = num(p[0]) + "," + num(p[1])
	}
	return strings.Join(parts, " ")
}

func pathData(pts [][2]float32) string {
	if len(pts) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(num(p[0]) + "," + num(p[1]))
	}
	b.WriteString(" Z")
	return b.String()
}
