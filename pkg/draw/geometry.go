package draw

import "math"

// Logical coordinate space shared by every layout and backend.
const (
	LogicalWidth  = 1600
	LogicalHeight = 900
	HalfWidth     = LogicalWidth / 2
	HalfHeight    = LogicalHeight / 2
)

// Geometry is the shape-specific payload of a [Command]. The set of variants
// is closed: [Quad], [Circle], [RingSlice] and [Polygon].
type Geometry interface {
	Shape() Shape
	isGeometry()
}

// Quad is an axis-aligned rectangle anchored at its lower-left corner.
type Quad struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// Circle is a filled disc.
type Circle struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Radius float32 `json:"radius"`
}

// RingSlice is an annular sector between Near and Far radius, swept
// counterclockwise from Start to End degrees. End may exceed Start by more
// than a full turn; backends draw what they are given.
type RingSlice struct {
	X     float32 `json:"x"`
	Y     float32 `json:"y"`
	Near  float32 `json:"innerRadius"`
	Far   float32 `json:"outerRadius"`
	Start float32 `json:"startAngle"`
	End   float32 `json:"endAngle"`
}

// Polygon is a closed convex polygon given in counterclockwise order.
type Polygon struct {
	Points [][2]float32 `json:"points"`
}

func (Quad) Shape() Shape      { return ShapeQuad }
func (Circle) Shape() Shape    { return ShapeCircle }
func (RingSlice) Shape() Shape { return ShapeRingSlice }
func (Polygon) Shape() Shape   { return ShapePolygon }

func (Quad) isGeometry()      {}
func (Circle) isGeometry()    {}
func (RingSlice) isGeometry() {}
func (Polygon) isGeometry()   {}

// Corners returns the quad's corners counterclockwise from the lower left.
func (q Quad) Corners() [4][2]float32 {
	return [4][2]float32{
		{q.X, q.Y},
		{q.X + q.Width, q.Y},
		{q.X + q.Width, q.Y + q.Height},
		{q.X, q.Y + q.Height},
	}
}

// Span returns End - Start in degrees.
func (r RingSlice) Span() float32 { return r.End - r.Start }

// Outline approximates the slice as a closed polygon: the outer arc from
// Start to End followed by the inner arc back. step is the maximum angular
// distance between vertices in degrees.
func (r RingSlice) Outline(step float32) [][2]float32 {
	if step <= 0 {
		step = 2
	}
	span := float64(r.End - r.Start)
	n := int(math.Ceil(math.Abs(span)/float64(step))) + 1
	if n < 2 {
		n = 2
	}
	pts := make([][2]float32, 0, 2*n)
	arc := func(radius float32, reverse bool) {
		for i := 0; i < n; i++ {
			k := i
			if reverse {
				k = n - 1 - i
			}
			a := (float64(r.Start) + span*float64(k)/float64(n-1)) * math.Pi / 180
			pts = append(pts, [2]float32{
				r.X + radius*float32(math.Cos(a)),
				r.Y + radius*float32(math.Sin(a)),
			})
		}
	}
	arc(r.Far, false)
	if r.Near > 0 {
		arc(r.Near, true)
	} else {
		pts = append(pts, [2]float32{r.X, r.Y})
	}
	return pts
}

// Outline approximates the circle with a polygon of n vertices.
func (c Circle) Outline(n int) [][2]float32 {
	if n < 3 {
		n = 3
	}
	pts := make([][2]float32, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = [2]float32{
			c.X + c.Radius*float32(math.Cos(a)),
			c.Y + c.Radius*float32(math.Sin(a)),
		}
	}
	return pts
}
