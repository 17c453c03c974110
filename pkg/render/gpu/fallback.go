package gpu

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/treeviz/pkg/draw"
)

// FallbackPrefix starts every error message written to the fallback canvas.
const FallbackPrefix = "An internal OpenGL error occurred: "

// fallbackTextHeight is the on-screen height of fallback text in pixels.
const fallbackTextHeight = 30

// ErrorColor is the fallback text color.
var ErrorColor = draw.Opaque(1, 0, 0)

// ImageCanvas is a raster [Canvas] backed by fogleman/gg. Windowed surfaces
// use it as their fallback and save it to disk when a session fails.
type ImageCanvas struct {
	dc    *gg.Context
	texts []string
}

// NewImageCanvas creates a transparent canvas of the given size.
func NewImageCanvas(width, height int) *ImageCanvas {
	return &ImageCanvas{dc: gg.NewContext(max(1, width), max(1, height))}
}

func (c *ImageCanvas) Size() (int, int) { return c.dc.Width(), c.dc.Height() }

// Clear resets every pixel to transparent and forgets drawn text.
func (c *ImageCanvas) Clear() {
	c.dc.SetColor(color.Transparent)
	c.dc.Clear()
	c.texts = nil
}

// FillText draws text with its baseline starting at (x, y), scaled from the
// built-in 7x13 face to the fallback text height.
func (c *ImageCanvas) FillText(text string, x, y float64, col draw.Color) {
	face := basicfont.Face7x13
	k := float64(fallbackTextHeight) / float64(face.Height)
	c.dc.Push()
	c.dc.ScaleAbout(k, k, x, y)
	c.dc.SetFontFace(face)
	c.dc.SetColor(col.NRGBA())
	c.dc.DrawString(text, x, y)
	c.dc.Pop()
	c.texts = append(c.texts, text)
}

// Texts returns the strings drawn since the last Clear.
func (c *ImageCanvas) Texts() []string { return c.texts }

// Image returns the canvas contents.
func (c *ImageCanvas) Image() image.Image { return c.dc.Image() }

// SavePNG writes the canvas to path.
func (c *ImageCanvas) SavePNG(path string) error { return c.dc.SavePNG(path) }

var _ Canvas = (*ImageCanvas)(nil)
