package arrow

import (
	"image/color"
	"math"

	"github.com/matzehuels/curvearrow/pkg/dom"
	"github.com/matzehuels/curvearrow/pkg/geom"
	"github.com/matzehuels/curvearrow/pkg/surface"
)

// Outcome is the result of one render pass. Only [Drawn] produces visible
// output; the others are silent no-ops.
type Outcome int

const (
	// Drawn means the surface was placed and the arrow drawn.
	Drawn Outcome = iota
	// Headless means there was no document or surface to render with.
	Headless
	// AnchorsMissing means a from/to selector resolved to nothing.
	AnchorsMissing
	// Suppressed means the hide-if-found selector resolved to an element.
	Suppressed
)

func (o Outcome) String() string {
	switch o {
	case Drawn:
		return "drawn"
	case Headless:
		return "headless"
	case AnchorsMissing:
		return "anchors-missing"
	case Suppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Arrowhead splay: the first wing is drawn at heading+1 rad in the rotated
// frame, the second a further -2 rad, mirroring it about the heading.
const (
	wingTurn    = 1.0
	wingCounter = -2.0
)

var debugStroke = surface.StrokeStyle{Color: color.Black, Width: 1, Join: surface.JoinMiter, Cap: surface.CapButt}

// Geometry is the snapshot computed by one render pass. It is never reused:
// every pass builds a new one from the live document.
type Geometry struct {
	From    geom.Point         `json:"from"`
	To      geom.Point         `json:"to"`
	Triple  geom.ControlTriple `json:"triple"`
	Box     geom.BoundingBox   `json:"box"`
	Padding float64            `json:"padding"`
	Local   geom.ControlTriple `json:"local"`
	Heading float64            `json:"heading"`
	Wings   [2]geom.Point      `json:"wings"`
}

// Renderer draws arrows. The zero value is ready to use and holds no state.
type Renderer struct{}

// Render runs one pass for cfg: it resolves the anchors in doc, computes the
// geometry and draws it onto surf. cfg is defaulted before use.
//
// Documents implementing [dom.Snapshotter] are frozen first, so anchors,
// the hide-if-found selector and the scroll offset all come from one page
// state. A nil document or surface yields [Headless] and touches nothing. Missing
// anchors and a matching hide-if-found selector hide the surface.
func (Renderer) Render(cfg Config, doc dom.Document, surf surface.Surface) (Geometry, Outcome) {
	if doc == nil || surf == nil {
		return Geometry{}, Headless
	}
	cfg = cfg.WithDefaults()
	doc = dom.Snapshot(doc)

	from, okFrom := doc.Query(cfg.FromSelector)
	to, okTo := doc.Query(cfg.ToSelector)
	if !okFrom || !okTo {
		surf.Hide()
		return Geometry{}, AnchorsMissing
	}

	if cfg.HideIfFoundSelector != "" {
		if _, found := doc.Query(cfg.HideIfFoundSelector); found {
			surf.Hide()
			return Geometry{}, Suppressed
		}
	}

	g := Layout(cfg, from.Rect, to.Rect, doc.ScrollY())
	draw(surf, cfg, g)
	return g, Drawn
}

// Layout computes the geometry of an arrow between two element rectangles
// without drawing anything.
func Layout(cfg Config, from, to dom.Rect, scrollY float64) Geometry {
	cfg = cfg.WithDefaults()

	start := anchor(from, cfg.FromOffsetX, cfg.FromOffsetY, scrollY)
	end := anchor(to, cfg.ToOffsetX, cfg.ToOffsetY, scrollY)
	tri := geom.NewControlTriple(start, end, geom.Point{X: cfg.MiddleX, Y: -cfg.MiddleY})

	pad := cfg.Padding()
	box := tri.Bounds().Pad(pad)
	local := tri.Translate(-box.XMin, -box.YMin)

	heading := local.Heading()
	return Geometry{
		From:    start,
		To:      end,
		Triple:  tri,
		Box:     box,
		Padding: pad,
		Local:   local,
		Heading: heading,
		Wings:   wings(local.End, heading, cfg.ArrowheadSize),
	}
}

// anchor returns the document-space anchor for an element: its center moved
// by the offset (Y up) and shifted by the scroll position.
func anchor(r dom.Rect, offX, offY, scrollY float64) geom.Point {
	c := r.Center()
	return geom.Point{X: c.X + offX, Y: c.Y - offY + scrollY}
}

// wings returns the two arrowhead stroke endpoints. The first is (0, size)
// rotated by heading+wingTurn about tip; the second is (0, -size) rotated by
// heading+wingTurn+wingCounter.
func wings(tip geom.Point, heading, size float64) [2]geom.Point {
	a1 := heading + wingTurn
	a2 := a1 + wingCounter
	return [2]geom.Point{
		{X: tip.X - size*math.Sin(a1), Y: tip.Y + size*math.Cos(a1)},
		{X: tip.X + size*math.Sin(a2), Y: tip.Y - size*math.Cos(a2)},
	}
}

func draw(surf surface.Surface, cfg Config, g Geometry) {
	surf.Place(surface.Placement{
		Left:   g.Box.XMin,
		Top:    g.Box.YMin,
		Width:  g.Box.Width(),
		Height: g.Box.Height(),
		ZIndex: cfg.ZIndex,
		Style:  cfg.Style,
	})

	if cfg.DebugLine {
		surf.SetStroke(debugStroke)
		for _, p := range g.Local.Points() {
			surf.BeginPath()
			surf.Arc(p.X, p.Y, DebugRadius, 0, 2*math.Pi)
			surf.Stroke()
		}
	}

	c, err := surface.ParseColor(cfg.Color)
	if err != nil {
		c = surface.MustParseColor(DefaultColor)
	}
	surf.SetStroke(surface.StrokeStyle{
		Color: c,
		Width: cfg.Width,
		Join:  surface.JoinRound,
		Cap:   surface.CapRound,
	})

	surf.BeginPath()
	surf.MoveTo(g.Local.Start.X, g.Local.Start.Y)
	surf.QuadraticTo(g.Local.Control.X, g.Local.Control.Y, g.Local.End.X, g.Local.End.Y)
	surf.Stroke()

	surf.BeginPath()
	surf.MoveTo(g.Wings[0].X, g.Wings[0].Y)
	surf.LineTo(g.Local.End.X, g.Local.End.Y)
	surf.LineTo(g.Wings[1].X, g.Wings[1].Y)
	surf.Stroke()
}
