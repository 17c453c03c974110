package draw

import (
	"fmt"
	"image/color"
	"strings"
)

// Color is a straight-alpha RGBA color with channels in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Opaque builds a fully opaque color.
func Opaque(r, g, b float32) Color { return Color{R: r, G: g, B: b, A: 1} }

// Transparent is the session's clear color.
var Transparent = Color{}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// NRGBA converts to an 8-bit non-premultiplied color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

// Hex formats the color as #rrggbb, or #rrggbbaa when not fully opaque.
func (c Color) Hex() string {
	n := c.NRGBA()
	if n.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

// ParseHex parses #rgb, #rrggbb or #rrggbbaa.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	var r, g, b, a uint8 = 0, 0, 0, 255
	var err error
	switch len(h) {
	case 3:
		_, err = fmt.Sscanf(h, "%1x%1x%1x", &r, &g, &b)
		r, g, b = r*17, g*17, b*17
	case 6:
		_, err = fmt.Sscanf(h, "%02x%02x%02x", &r, &g, &b)
	case 8:
		_, err = fmt.Sscanf(h, "%02x%02x%02x%02x", &r, &g, &b, &a)
	default:
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: float32(a) / 255}, nil
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
