// Package geom provides the quadratic Bézier geometry behind curved arrows.
//
// # Overview
//
// An arrow is a single quadratic Bézier described by a [ControlTriple]: two
// anchors and one control point derived from their midpoint. The package
// evaluates the curve on one axis at a time and computes the tight extent the
// curve reaches on that axis, which is what sizes the drawing surface.
//
// # Curve Sampler
//
// [Evaluate] uses the reparameterized form
//
//	p1 + (1-t)²(p0-p1) + t²(p2-p1)
//
// and [Extent] bounds the curve by its endpoints plus the single interior
// critical point a quadratic can have per axis. The critical parameter is the
// root of the derivative:
//
//	t* = (p0 - p1) / (p0 - 2·p1 + p2)
//
// A zero denominator means the curve is linear on that axis and has no
// interior extremum. Bounds are snapped to the pixel grid.
//
// # Bounding Boxes
//
// [ControlTriple.Bounds] applies [Extent] to both axes:
//
//	tri := geom.NewControlTriple(geom.Point{X: 100, Y: 100}, geom.Point{X: 300, Y: 100}, geom.Point{Y: -80})
//	box := tri.Bounds().Pad(22)
package geom
