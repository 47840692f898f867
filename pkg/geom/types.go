package geom

import (
	"fmt"
	"math"
)

// Point is a pair of pixel coordinates in document space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Midpoint returns the point halfway between p and q.
func (p Point) Midpoint(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Polar returns p moved by distance r along the direction of angle theta
// (radians, screen convention: positive angles turn clockwise).
func (p Point) Polar(r, theta float64) Point {
	return Point{X: p.X + r*math.Cos(theta), Y: p.Y + r*math.Sin(theta)}
}

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// ControlTriple holds the three control points of an arrow's quadratic
// Bézier. It is a value type: every method returns a new triple.
type ControlTriple struct {
	Start   Point `json:"start"`
	Control Point `json:"control"`
	End     Point `json:"end"`
}

// NewControlTriple derives the control point as the midpoint of start and end
// moved by displacement.
func NewControlTriple(start, end, displacement Point) ControlTriple {
	return ControlTriple{
		Start:   start,
		Control: start.Midpoint(end).Add(displacement),
		End:     end,
	}
}

// Eval returns the curve point at parameter t.
func (c ControlTriple) Eval(t float64) Point {
	return Point{
		X: Evaluate(c.Start.X, c.Control.X, c.End.X, t),
		Y: Evaluate(c.Start.Y, c.Control.Y, c.End.Y, t),
	}
}

// Translate returns the triple moved by (dx, dy).
func (c ControlTriple) Translate(dx, dy float64) ControlTriple {
	d := Point{X: dx, Y: dy}
	return ControlTriple{Start: c.Start.Add(d), Control: c.Control.Add(d), End: c.End.Add(d)}
}

// Bounds returns the tight, pixel-snapped bounding box of the curve for
// t in [0, 1].
func (c ControlTriple) Bounds() BoundingBox {
	xMin, xMax := Extent(c.Start.X, c.Control.X, c.End.X)
	yMin, yMax := Extent(c.Start.Y, c.Control.Y, c.End.Y)
	return BoundingBox{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax}
}

// Heading returns the angle of the direction from the control point to the
// end point. This is the tangent direction of the curve at t = 1.
func (c ControlTriple) Heading() float64 {
	return math.Atan2(c.End.Y-c.Control.Y, c.End.X-c.Control.X)
}

// Points returns start, control and end in that order.
func (c ControlTriple) Points() [3]Point {
	return [3]Point{c.Start, c.Control, c.End}
}

// BoundingBox is an axis-aligned rectangle in the same space as the points
// it encloses.
type BoundingBox struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
}

// Pad returns b grown by p on every side.
func (b BoundingBox) Pad(p float64) BoundingBox {
	return BoundingBox{XMin: b.XMin - p, XMax: b.XMax + p, YMin: b.YMin - p, YMax: b.YMax + p}
}

// Width returns the horizontal size of the box.
func (b BoundingBox) Width() float64 { return b.XMax - b.XMin }

// Height returns the vertical size of the box.
func (b BoundingBox) Height() float64 { return b.YMax - b.YMin }

// Origin returns the top-left corner.
func (b BoundingBox) Origin() Point { return Point{X: b.XMin, Y: b.YMin} }

// Contains reports whether p lies inside b, edges included.
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.XMin && p.X <= b.XMax && p.Y >= b.YMin && p.Y <= b.YMax
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("x:[%g,%g] y:[%g,%g]", b.XMin, b.XMax, b.YMin, b.YMax)
}
