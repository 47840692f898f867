package cli

import (
	"bytes"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/curvearrow/pkg/dom"
	errs "github.com/matzehuels/curvearrow/pkg/errors"
)

var (
	compositeBackground = color.White
	compositeElement    = color.NRGBA{R: 120, G: 120, B: 120, A: 255}
	compositeLabel      = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
)

// compositePNG draws the page's elements in document space and pastes every
// drawn arrow raster at its placement.
func compositePNG(page *dom.Page, arts []artifact) ([]byte, error) {
	w, h := page.Extent()
	for _, a := range arts {
		if a.raster == nil {
			continue
		}
		p := a.raster.Placement()
		w = max(w, p.Left+p.Width)
		h = max(h, p.Top+p.Height)
	}

	dc := gg.NewContext(int(math.Ceil(max(w, 1))), int(math.Ceil(max(h, 1))))
	dc.SetColor(compositeBackground)
	dc.Clear()

	dc.SetLineWidth(1)
	for _, e := range page.Elements {
		top := e.Top + page.ScrollY()
		dc.SetColor(compositeElement)
		dc.DrawRectangle(e.Left, top, e.Width, e.Height)
		dc.Stroke()

		label := e.Label
		if label == "" && e.ID != "" {
			label = "#" + e.ID
		}
		if label != "" {
			dc.SetColor(compositeLabel)
			dc.DrawStringAnchored(label, e.Left+e.Width/2, top+e.Height/2, 0.5, 0.5)
		}
	}

	for _, a := range arts {
		if a.raster == nil || a.raster.Image() == nil {
			continue
		}
		p := a.raster.Placement()
		dc.DrawImage(a.raster.Image(), int(math.Round(p.Left)), int(math.Round(p.Top)))
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode composite png")
	}
	return buf.Bytes(), nil
}
