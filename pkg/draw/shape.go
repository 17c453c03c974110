package draw

import (
	"fmt"
	"strings"
)

// Shape tags a shape family. Each family maps to one shader program.
type Shape int

const (
	ShapeQuad Shape = iota
	ShapeCircle
	ShapeRingSlice
	ShapePolygon
)

// ShapeNone is the tag of a command without geometry. It has no shader
// family and is never drawn.
const ShapeNone Shape = -1

var shapeNames = [...]string{
	ShapeQuad:      "quad",
	ShapeCircle:    "circle",
	ShapeRingSlice: "ring-slice",
	ShapePolygon:   "polygon",
}

// Shapes returns every shape family in tag order.
func Shapes() []Shape {
	return []Shape{ShapeQuad, ShapeCircle, ShapeRingSlice, ShapePolygon}
}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ParseShape converts a shape name ("ring-slice", "quad", ...) to its tag.
func ParseShape(name string) (Shape, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range shapeNames {
		if s == n {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Shape) UnmarshalText(b []byte) error {
	v, err := ParseShape(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
