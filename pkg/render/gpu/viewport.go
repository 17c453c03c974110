package gpu

import "math"

// AspectWidth and AspectHeight fix the rendered aspect ratio.
const (
	AspectWidth  = 16
	AspectHeight = 9
)

// Viewport is a rectangle in surface pixels. It may extend past the surface
// edges on one axis.
type Viewport struct {
	X, Y, Width, Height float64
}

// Letterbox returns the 16:9 viewport for a surface of the given size. The
// viewport spans the full extent of the surface's dominant axis and is
// centered on the other, so it covers the surface and overflows it equally on
// both sides. Sizes below one pixel are treated as one pixel.
func Letterbox(width, height int) Viewport {
	w := math.Max(1, float64(width))
	h := math.Max(1, float64(height))
	if w/AspectWidth*AspectHeight > h {
		vh := w / AspectWidth * AspectHeight
		return Viewport{X: 0, Y: (h - vh) / 2, Width: w, Height: vh}
	}
	vw := h / AspectHeight * AspectWidth
	return Viewport{X: (w - vw) / 2, Y: 0, Width: vw, Height: h}
}

// Rect rounds the viewport to integer pixels for the GL viewport call. The
// axis spanning the surface is exact; the other is rounded, so the result
// is 16:9 only to within one pixel (Letterbox(1, 1) rounds to 2x1).
func (v Viewport) Rect() (x, y, w, h int32) {
	return int32(math.Round(v.X)), int32(math.Round(v.Y)), int32(math.Round(v.Width)), int32(math.Round(v.Height))
}

// Aspect returns Width / Height.
func (v Viewport) Aspect() float64 { return v.Width / v.Height }
