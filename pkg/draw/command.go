package draw

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
)

// Command describes one shape to render.
//
// NodeID is stable across redraws of the same tree and lets hosts map a
// rendered shape back to its tree node.
type Command struct {
	NodeID   string
	Color    Color
	Geometry Geometry
}

// Shape returns the shape family of the command's geometry, or ShapeNone
// if the geometry is unset.
func (c Command) Shape() Shape {
	if c.Geometry == nil {
		return ShapeNone
	}
	return c.Geometry.Shape()
}

type envelope struct {
	Node     string          `json:"node"`
	Shape    Shape           `json:"shape"`
	Color    Color           `json:"color"`
	Geometry json.RawMessage `json:"geometry"`
}

// MarshalJSON encodes the command with an explicit "shape" tag.
func (c Command) MarshalJSON() ([]byte, error) {
	if c.Geometry == nil {
		return nil, fmt.Errorf("command %s: nil geometry", c.NodeID)
	}
	g, err := json.Marshal(c.Geometry)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Node: c.NodeID, Shape: c.Shape(), Color: c.Color, Geometry: g})
}

// UnmarshalJSON decodes a command, selecting the geometry variant by tag.
func (c *Command) UnmarshalJSON(b []byte) error {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	var g Geometry
	switch env.Shape {
	case ShapeQuad:
		var v Quad
		if err := json.Unmarshal(env.Geometry, &v); err != nil {
			return err
		}
		g = v
	case ShapeCircle:
		var v Circle
		if err := json.Unmarshal(env.Geometry, &v); err != nil {
			return err
		}
		g = v
	case ShapeRingSlice:
		var v RingSlice
		if err := json.Unmarshal(env.Geometry, &v); err != nil {
			return err
		}
		g = v
	case ShapePolygon:
		var v Polygon
		if err := json.Unmarshal(env.Geometry, &v); err != nil {
			return err
		}
		g = v
	default:
		return fmt.Errorf("unsupported shape %s", env.Shape)
	}
	*c = Command{NodeID: env.Node, Color: env.Color, Geometry: g}
	return nil
}

// ShapesOf returns the distinct shape families used by cmds, in first-use
// order. Commands without geometry are skipped.
func ShapesOf(cmds []Command) []Shape {
	var seen [len(shapeNames)]bool
	var out []Shape
	for _, c := range cmds {
		s := c.Shape()
		if s >= 0 && int(s) < len(seen) && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Fingerprint returns a content hash of the sequence. Two sequences with the
// same commands in the same order share a fingerprint. Colors are compared
// at 8-bit precision, the precision of the JSON codec.
func Fingerprint(cmds []Command) string {
	h := sha256.New()
	var buf [4]byte
	f := func(v float32) {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		h.Write(buf[:])
	}
	for _, c := range cmds {
		h.Write([]byte(c.NodeID))
		h.Write([]byte{0, byte(c.Shape())})
		n := c.Color.NRGBA()
		h.Write([]byte{n.R, n.G, n.B, n.A})
		switch g := c.Geometry.(type) {
		case Quad:
			f(g.X)
			f(g.Y)
			f(g.Width)
			f(g.Height)
		case Circle:
			f(g.X)
			f(g.Y)
			f(g.Radius)
		case RingSlice:
			f(g.X)
			f(g.Y)
			f(g.Near)
			f(g.Far)
			f(g.Start)
			f(g.End)
		case Polygon:
			for _, p := range g.Points {
				f(p[0])
				f(p[1])
			}
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
