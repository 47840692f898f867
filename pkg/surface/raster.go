package surface

import (
	"image"
	"io"

	"github.com/fogleman/gg"

	errs "github.com/matzehuels/curvearrow/pkg/errors"
)

// Raster is a [Surface] backed by a gg drawing context. The context is
// reallocated at the placement's pixel size on every Place.
type Raster struct {
	dc        *gg.Context
	placement Placement
	visible   bool
}

var _ Surface = (*Raster)(nil)

// NewRaster returns a hidden raster surface.
func NewRaster() *Raster { return &Raster{} }

// Place implements [Surface].
func (r *Raster) Place(p Placement) {
	w, h := p.PixelSize()
	r.dc = gg.NewContext(w, h)
	r.dc.SetLineCap(gg.LineCapRound)
	r.dc.SetLineJoin(gg.LineJoinRound)
	r.placement = p
	r.visible = true
}

// Hide implements [Surface].
func (r *Raster) Hide() { r.visible = false }

// Visible implements [Surface].
func (r *Raster) Visible() bool { return r.visible }

func (r *Raster) active() bool { return r.visible && r.dc != nil }

func (r *Raster) BeginPath() {
	if r.active() {
		r.dc.ClearPath()
	}
}

func (r *Raster) MoveTo(x, y float64) {
	if r.active() {
		r.dc.MoveTo(x, y)
	}
}

func (r *Raster) LineTo(x, y float64) {
	if r.active() {
		r.dc.LineTo(x, y)
	}
}

func (r *Raster) QuadraticTo(cx, cy, x, y float64) {
	if r.active() {
		r.dc.QuadraticTo(cx, cy, x, y)
	}
}

func (r *Raster) Arc(x, y, radius, a0, a1 float64) {
	if r.active() {
		r.dc.DrawArc(x, y, radius, a0, a1)
	}
}

func (r *Raster) SetStroke(s StrokeStyle) {
	if !r.active() {
		return
	}
	if s.Color != nil {
		r.dc.SetColor(s.Color)
	}
	r.dc.SetLineWidth(s.Width)
	switch s.Cap {
	case CapRound:
		r.dc.SetLineCap(gg.LineCapRound)
	case CapSquare:
		r.dc.SetLineCap(gg.LineCapSquare)
	default:
		r.dc.SetLineCap(gg.LineCapButt)
	}
	// gg has no miter join; bevel is the closest square-cornered shape.
	if s.Join == JoinRound {
		r.dc.SetLineJoin(gg.LineJoinRound)
	} else {
		r.dc.SetLineJoin(gg.LineJoinBevel)
	}
}

func (r *Raster) Stroke() {
	if r.active() {
		r.dc.Stroke()
	}
}

// Placement returns the current placement.
func (r *Raster) Placement() Placement { return r.placement }

// Image returns the rasterized surface, or nil when the surface is hidden or
// was never placed.
func (r *Raster) Image() image.Image {
	if !r.active() {
		return nil
	}
	return r.dc.Image()
}

// EncodePNG writes the surface as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if !r.active() {
		return errs.New(errs.ErrCodeNotFound, "surface is hidden, nothing to encode")
	}
	if err := r.dc.EncodePNG(w); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode PNG")
	}
	return nil
}
