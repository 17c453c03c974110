// Package palette builds the depth-indexed color tables used by layouts.
//
// A [Palette] holds two tables indexed by [maxDepth][depth]: the regular
// gradient and a parallel "selected" variant. Row m covers depths 0..m, so a
// subtree whose deepest node sits at depth m is shaded across the whole
// gradient. Palettes are built once per tree and option set and are immutable
// afterwards, so they may be shared across redraws.
package palette

import (
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/tree"
)

// Gradient selects the interpolation space between scheme endpoints.
type Gradient string

const (
	GradientHSV Gradient = "hsv"
	GradientRGB Gradient = "rgb"
)

// Options configures palette construction.
type Options struct {
	Name       string   `json:"name" toml:"name"`               // Scheme name: default, alt, greyScale
	Gradient   Gradient `json:"gradient" toml:"gradient"`       // Interpolation space
	InvertHSV  bool     `json:"invert_hsv" toml:"invert_hsv"`   // Take the long way around the hue wheel
	PerSubtree bool     `json:"per_subtree" toml:"per_subtree"` // Stretch each row over its own max depth
	ColorMode  bool     `json:"color_mode" toml:"color_mode"`   // false renders greyscale
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{Name: "default", Gradient: GradientHSV, PerSubtree: true, ColorMode: true}
}

type scheme struct {
	from, to, highlight string
}

var schemes = map[string]scheme{
	"default":   {from: "#3b4cc0", to: "#b40426", highlight: "#ffd92f"},
	"alt":       {from: "#1b9e77", to: "#f0e442", highlight: "#e7298a"},
	"greyScale": {from: "#2b2b2b", to: "#d9d9d9", highlight: "#ff5a36"},
}

// Names returns the available scheme names, sorted.
func Names() []string {
	out := make([]string, 0, len(schemes))
	for n := range schemes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Palette is an immutable color lookup indexed by [maxDepth][depth].
type Palette struct {
	gradient [][]draw.Color
	selected [][]draw.Color
}

// Build creates the tables for rows 0..maxDepth.
func Build(maxDepth int, opts Options) (*Palette, error) {
	if opts.Name == "" {
		opts.Name = "default"
	}
	sc, ok := lookupScheme(opts.Name)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidSettings, "unknown palette %q (available: %s)", opts.Name, strings.Join(Names(), ", "))
	}
	switch opts.Gradient {
	case "":
		opts.Gradient = GradientHSV
	case GradientHSV, GradientRGB:
	default:
		return nil, errors.New(errors.ErrCodeInvalidSettings, "unknown gradient %q", opts.Gradient)
	}
	if maxDepth < 0 {
		maxDepth = 0
	}

	from, to, hl := mustHex(sc.from), mustHex(sc.to), mustHex(sc.highlight)
	p := &Palette{
		gradient: make([][]draw.Color, maxDepth+1),
		selected: make([][]draw.Color, maxDepth+1),
	}
	for m := 0; m <= maxDepth; m++ {
		p.gradient[m] = make([]draw.Color, m+1)
		p.selected[m] = make([]draw.Color, m+1)
		span := m
		if !opts.PerSubtree {
			span = maxDepth
		}
		for d := 0; d <= m; d++ {
			t := 0.0
			if span > 0 {
				t = float64(d) / float64(span)
			}
			base := blend(from, to, t, opts.Gradient, opts.InvertHSV)
			sel := base.BlendRgb(hl, 0.6)
			if !opts.ColorMode {
				base = grey(base)
				sel = greySelected(base)
			}
			p.gradient[m][d] = toColor(base)
			p.selected[m][d] = toColor(sel)
		}
	}
	return p, nil
}

func lookupScheme(name string) (scheme, bool) {
	if sc, ok := schemes[name]; ok {
		return sc, true
	}
	for k, sc := range schemes {
		if strings.EqualFold(k, name) {
			return sc, true
		}
	}
	return scheme{}, false
}

// MaxDepth returns the deepest row index.
func (p *Palette) MaxDepth() int { return len(p.gradient) - 1 }

// Row returns the regular colors of row m. The slice must not be modified.
func (p *Palette) Row(m int) []draw.Color { return p.gradient[clamp(m, 0, len(p.gradient)-1)] }

// Lookup returns the color at [maxDepth][depth]. Out-of-range indices are
// clamped so that layouts never fail on a palette built for a smaller tree.
func (p *Palette) Lookup(maxDepth, depth int, selected bool) draw.Color {
	tbl := p.gradient
	if selected {
		tbl = p.selected
	}
	if len(tbl) == 0 {
		return draw.Opaque(1, 1, 1)
	}
	row := tbl[clamp(maxDepth, 0, len(tbl)-1)]
	return row[clamp(depth, 0, len(row)-1)]
}

// Color returns the color of n, using the selected table if selected is set.
func (p *Palette) Color(n *tree.Node, selected bool) draw.Color {
	return p.Lookup(n.MaxDepth, n.Depth, selected)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func blend(a, b colorful.Color, t float64, g Gradient, invert bool) colorful.Color {
	if g == GradientRGB {
		return a.BlendRgb(b, t).Clamped()
	}
	h1, s1, v1 := a.Hsv()
	h2, s2, v2 := b.Hsv()
	d := h2 - h1
	switch {
	case d > 180:
		d -= 360
	case d < -180:
		d += 360
	}
	if invert {
		if d >= 0 {
			d -= 360
		} else {
			d += 360
		}
	}
	h := math.Mod(h1+t*d+360, 360)
	return colorful.Hsv(h, s1+t*(s2-s1), v1+t*(v2-v1)).Clamped()
}

func grey(c colorful.Color) colorful.Color {
	l := 0.299*c.R + 0.587*c.G + 0.114*c.B
	return colorful.Color{R: l, G: l, B: l}
}

func greySelected(base colorful.Color) colorful.Color {
	if base.R < 0.5 {
		return base.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, 0.6)
	}
	return base.BlendRgb(colorful.Color{}, 0.6)
}

// toColor quantizes to 8 bits per channel so colors survive hex round trips.
func toColor(c colorful.Color) draw.Color {
	r, g, b := c.Clamped().RGB255()
	return draw.Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: 1}
}
