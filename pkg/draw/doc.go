// Package draw defines the backend-agnostic draw command model.
//
// A layout algorithm turns a tree into an ordered []Command. The order is the
// submission order and therefore the paint order: later commands may occlude
// earlier ones. Commands never reference GPU resources; the same sequence can
// be handed to the GPU session, serialized to JSON or rasterized by a sink.
//
// # Shapes
//
// Each command carries exactly one [Geometry] variant:
//
//   - [Quad]: axis-aligned rectangle (lower-left corner, width, height)
//   - [Circle]: center and radius
//   - [RingSlice]: annular sector (center, near/far radius, start/end degrees)
//   - [Polygon]: closed convex polygon
//
// All coordinates live in the logical 16:9 space x ∈ [-800, 800],
// y ∈ [-450, 450] with y pointing up. Angles are in degrees, counterclockwise
// from the positive x axis.
package draw
