package geom

import "math"

// Evaluate returns the value of the quadratic Bézier with control values
// p0, p1, p2 at parameter t on a single axis.
//
// The parameter is not clamped: callers restrict t to [0, 1] when sampling
// curve points, but [Extent] evaluates analytically derived parameters and
// discards the ones that fall outside (0, 1) itself.
func Evaluate(p0, p1, p2, t float64) float64 {
	u := 1 - t
	return p1 + u*u*(p0-p1) + t*t*(p2-p1)
}

// CriticalT returns the parameter at which the derivative of the quadratic
// Bézier vanishes. ok is false when the curve is linear on this axis
// (p0 - 2·p1 + p2 == 0) and therefore has no critical point.
func CriticalT(p0, p1, p2 float64) (t float64, ok bool) {
	denom := p0 - 2*p1 + p2
	if denom == 0 {
		return 0, false
	}
	return (p0 - p1) / denom, true
}

// Extent returns the minimum and maximum value the curve attains on one axis
// for t in [0, 1], snapped to the pixel grid.
//
// The endpoints bound the curve first; a quadratic has at most one interior
// extremum per axis, so widening by the critical point when it lies strictly
// inside (0, 1) is exact.
func Extent(p0, p1, p2 float64) (lo, hi float64) {
	lo = math.Min(p0, p2)
	hi = math.Max(p0, p2)

	if t, ok := CriticalT(p0, p1, p2); ok && t > 0 && t < 1 {
		v := Evaluate(p0, p1, p2, t)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	return roundPixel(lo), roundPixel(hi)
}

// roundPixel rounds half-way values toward positive infinity, the same
// convention the browser uses when snapping canvas offsets.
func roundPixel(v float64) float64 {
	return math.Floor(v + 0.5)
}
