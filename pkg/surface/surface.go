package surface

import (
	"image/color"
	"math"
)

// Surface is an absolutely positioned, non-interactive drawing surface with a
// 2D path API.
//
// Coordinates passed to path commands are local to the surface: (0, 0) is
// the top-left corner given to [Surface.Place]. Path commands issued before
// the first Place, or after Hide, are ignored.
type Surface interface {
	// Place sizes and positions the surface and makes it visible. Any
	// previous drawing is discarded.
	Place(p Placement)
	// Hide removes the surface from view.
	Hide()
	// Visible reports whether the surface is currently shown.
	Visible() bool

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticTo(cx, cy, x, y float64)
	// Arc adds a circular arc centered at (x, y) from angle a0 to a1
	// (radians, clockwise on screen). Like a canvas arc, it is connected to
	// the current point by a straight line if one exists.
	Arc(x, y, r, a0, a1 float64)

	SetStroke(s StrokeStyle)
	Stroke()
}

// Placement positions a surface in document coordinates.
type Placement struct {
	Left   float64           `json:"left"`
	Top    float64           `json:"top"`
	Width  float64           `json:"width"`
	Height float64           `json:"height"`
	ZIndex int               `json:"z_index,omitempty"`
	Style  map[string]string `json:"style,omitempty"`
}

// PixelSize returns the placement size rounded up to whole pixels, never
// smaller than 1x1.
func (p Placement) PixelSize() (w, h int) {
	w, h = int(math.Ceil(p.Width)), int(math.Ceil(p.Height))
	return max(w, 1), max(h, 1)
}

// LineJoin is the shape used where two path segments meet.
type LineJoin int

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

func (j LineJoin) String() string {
	switch j {
	case JoinRound:
		return "round"
	case JoinBevel:
		return "bevel"
	default:
		return "miter"
	}
}

// LineCap is the shape used at open path ends.
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

func (c LineCap) String() string {
	switch c {
	case CapRound:
		return "round"
	case CapSquare:
		return "square"
	default:
		return "butt"
	}
}

// StrokeStyle configures subsequent [Surface.Stroke] calls.
type StrokeStyle struct {
	Color color.Color
	Width float64
	Join  LineJoin
	Cap   LineCap
}
