package sink

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/matzehuels/treeviz/pkg/draw"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	width, height int
	scale         float64
	background    *draw.Color
}

// WithPNGSize sets the base image size in pixels before scaling.
func WithPNGSize(w, h int) PNGOption {
	return func(r *pngRenderer) { r.width, r.height = w, h }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGBackground fills the image before drawing. The default is transparent.
func WithPNGBackground(c draw.Color) PNGOption {
	return func(r *pngRenderer) { r.background = &c }
}

// RenderPNG rasterizes cmds. The logical frame is fitted into the image
// preserving its 16:9 aspect, centered.
func RenderPNG(cmds []draw.Command, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{width: draw.LogicalWidth / 2, height: draw.LogicalHeight / 2, scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.width <= 0 || r.height <= 0 || r.scale <= 0 {
		return nil, fmt.Errorf("invalid png size %dx%d at scale %v", r.width, r.height, r.scale)
	}

	w := int(float64(r.width) * r.scale)
	h := int(float64(r.height) * r.scale)
	dc := gg.NewContext(max(1, w), max(1, h))
	if r.background != nil {
		dc.SetColor(r.background.NRGBA())
		dc.Clear()
	}

	k := min(float64(w)/draw.LogicalWidth, float64(h)/draw.LogicalHeight)
	dc.Translate(float64(w)/2, float64(h)/2)
	dc.Scale(k, -k)

	for _, c := range cmds {
		fillCommand(dc, c)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func fillCommand(dc *gg.Context, c draw.Command) {
	dc.SetColor(c.Color.NRGBA())
	switch g := c.Geometry.(type) {
	case draw.Quad:
		dc.DrawRectangle(float64(g.X), float64(g.Y), float64(g.Width), float64(g.Height))
	case draw.Circle:
		dc.DrawCircle(float64(g.X), float64(g.Y), float64(g.Radius))
	case draw.RingSlice:
		polygon(dc, g.Outline(ringSliceStep))
	case draw.Polygon:
		polygon(dc, g.Points)
	default:
		return
	}
	dc.Fill()
}

func polygon(dc *gg.Context, pts [][2]float32) {
	dc.NewSubPath()
	for _, p := range pts {
		dc.LineTo(float64(p[0]), float64(p[1]))
	}
	dc.ClosePath()
}
