package arrow

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/curvearrow/pkg/dom"
	"github.com/matzehuels/curvearrow/pkg/geom"
	"github.com/matzehuels/curvearrow/pkg/surface"
)

func twoBoxPage() *dom.Page {
	return &dom.Page{Elements: []dom.Element{
		{ID: "a", Tag: "div", Rect: dom.Rect{Left: 90, Top: 90, Width: 20, Height: 20}},
		{ID: "b", Tag: "div", Classes: []string{"target"}, Rect: dom.Rect{Left: 290, Top: 90, Width: 20, Height: 20}},
	}}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRenderStraightLine(t *testing.T) {
	rec := surface.NewRecorder()
	g, out := Renderer{}.Render(Config{FromSelector: "#a", ToSelector: "#b"}, twoBoxPage(), rec)
	if out != Drawn {
		t.Fatalf("outcome = %v, want drawn", out)
	}

	if g.From != (geom.Point{X: 100, Y: 100}) || g.To != (geom.Point{X: 300, Y: 100}) {
		t.Errorf("anchors = %v, %v", g.From, g.To)
	}
	if g.Triple.Control != (geom.Point{X: 200, Y: 100}) {
		t.Errorf("control = %v, want (200, 100)", g.Triple.Control)
	}
	if b := g.Triple.Bounds(); b != (geom.BoundingBox{XMin: 100, XMax: 300, YMin: 100, YMax: 100}) {
		t.Errorf("unpadded bounds = %v", b)
	}
	if g.Padding != 22 {
		t.Errorf("padding = %g, want 22", g.Padding)
	}
	if g.Box != (geom.BoundingBox{XMin: 78, XMax: 322, YMin: 78, YMax: 122}) {
		t.Errorf("box = %v", g.Box)
	}
	if g.Local.Start != (geom.Point{X: 22, Y: 22}) || g.Local.End != (geom.Point{X: 222, Y: 22}) {
		t.Errorf("local = %+v", g.Local)
	}

	p, ok := rec.Placement()
	if !ok || p.Left != 78 || p.Top != 78 || p.Width != 244 || p.Height != 44 {
		t.Errorf("placement = %+v, %v", p, ok)
	}

	want := []string{
		"set_stroke",
		"begin_path", "move_to", "quadratic_to", "stroke",
		"begin_path", "move_to", "line_to", "line_to", "stroke",
	}
	if got := rec.Ops(); !slices.Equal(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
	cmds := rec.Commands()
	if cmds[0].Join != "round" || cmds[0].Cap != "round" || cmds[0].Color != "#000000" {
		t.Errorf("stroke style = %+v", cmds[0])
	}
	if q := cmds[3].Args; !slices.Equal(q, []float64{122, 22, 222, 22}) {
		t.Errorf("quadratic_to args = %v", q)
	}
}

func TestRenderAnchors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		scroll  float64
		from    geom.Point
		to      geom.Point
		control geom.Point
	}{
		{
			name:    "to defaults to from",
			cfg:     Config{FromSelector: "#a"},
			from:    geom.Point{X: 100, Y: 100},
			to:      geom.Point{X: 100, Y: 100},
			control: geom.Point{X: 100, Y: 100},
		},
		{
			name:    "positive y offset moves up",
			cfg:     Config{FromSelector: "#a", ToSelector: "#b", FromOffsetX: 5, FromOffsetY: 10, ToOffsetY: -10},
			from:    geom.Point{X: 105, Y: 90},
			to:      geom.Point{X: 300, Y: 110},
			control: geom.Point{X: 202.5, Y: 100},
		},
		{
			name:    "middle displacement inverts y",
			cfg:     Config{FromSelector: "#a", ToSelector: ".target", MiddleX: 10, MiddleY: 40},
			from:    geom.Point{X: 100, Y: 100},
			to:      geom.Point{X: 300, Y: 100},
			control: geom.Point{X: 210, Y: 60},
		},
		{
			name:    "scroll converts to document space",
			cfg:     Config{FromSelector: "#a", ToSelector: "#b"},
			scroll:  250,
			from:    geom.Point{X: 100, Y: 350},
			to:      geom.Point{X: 300, Y: 350},
			control: geom.Point{X: 200, Y: 350},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := twoBoxPage()
			page.Scroll = tt.scroll
			g, out := Renderer{}.Render(tt.cfg, page, surface.NewRecorder())
			if out != Drawn {
				t.Fatalf("outcome = %v", out)
			}
			if g.From != tt.from || g.To != tt.to || g.Triple.Control != tt.control {
				t.Errorf("got from=%v to=%v control=%v, want %v %v %v",
					g.From, g.To, g.Triple.Control, tt.from, tt.to, tt.control)
			}
		})
	}
}

func TestRenderNoOps(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		doc  dom.Document
		want Outcome
	}{
		{"missing from", Config{FromSelector: "#nope", ToSelector: "#b"}, twoBoxPage(), AnchorsMissing},
		{"missing to", Config{FromSelector: "#a", ToSelector: "#nope"}, twoBoxPage(), AnchorsMissing},
		{"invalid selector", Config{FromSelector: "a b", ToSelector: "#b"}, twoBoxPage(), AnchorsMissing},
		{"suppressed", Config{FromSelector: "#a", ToSelector: "#b", HideIfFoundSelector: ".target"}, twoBoxPage(), Suppressed},
		{"suppressor absent", Config{FromSelector: "#a", ToSelector: "#b", HideIfFoundSelector: "#modal"}, twoBoxPage(), Drawn},
		{"no document", Config{FromSelector: "#a"}, nil, Headless},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := surface.NewRecorder()
			// A surface left visible by an earlier pass must be hidden.
			rec.Place(surface.Placement{Width: 10, Height: 10})

			_, out := Renderer{}.Render(tt.cfg, tt.doc, rec)
			if out != tt.want {
				t.Fatalf("outcome = %v, want %v", out, tt.want)
			}
			switch tt.want {
			case Drawn, Headless:
				if !rec.Visible() {
					t.Error("surface should stay visible")
				}
			default:
				if rec.Visible() {
					t.Error("surface should be hidden")
				}
			}
		})
	}
}

// editingDoc stands in for a page that is rewritten while a pass runs: each
// live query moves every element up by 1000 and scrolls down by the same
// amount. Snapshot returns the page as it was when taken.
type editingDoc struct {
	page    *dom.Page
	queries int
}

func (d *editingDoc) Query(sel string) (dom.Element, bool) {
	d.queries++
	e, ok := d.page.Query(sel)
	d.edit()
	return e, ok
}

func (d *editingDoc) ScrollY() float64 {
	d.queries++
	return d.page.Scroll
}

func (d *editingDoc) edit() {
	next := &dom.Page{Scroll: d.page.Scroll + 1000}
	for _, e := range d.page.Elements {
		e.Top -= 1000
		next.Elements = append(next.Elements, e)
	}
	d.page = next
}

func (d *editingDoc) Snapshot() dom.Document { return d.page }

func TestRenderUsesOneSnapshot(t *testing.T) {
	doc := &editingDoc{page: twoBoxPage()}
	g, out := Renderer{}.Render(Config{FromSelector: "#a", ToSelector: "#b", HideIfFoundSelector: "#modal"}, doc, surface.NewRecorder())
	if out != Drawn {
		t.Fatalf("outcome = %v, want drawn", out)
	}
	if doc.queries != 0 {
		t.Errorf("live document queried %d times during the pass", doc.queries)
	}
	if g.From != (geom.Point{X: 100, Y: 100}) || g.To != (geom.Point{X: 300, Y: 100}) {
		t.Errorf("anchors = %v, %v, want both from one page state", g.From, g.To)
	}
}

func TestRenderNilSurface(t *testing.T) {
	if _, out := (Renderer{}).Render(Config{FromSelector: "#a"}, twoBoxPage(), nil); out != Headless {
		t.Errorf("outcome = %v, want headless", out)
	}
}

func TestRenderDebugCircles(t *testing.T) {
	rec := surface.NewRecorder()
	_, out := Renderer{}.Render(Config{FromSelector: "#a", ToSelector: "#b", DebugLine: true}, twoBoxPage(), rec)
	if out != Drawn {
		t.Fatalf("outcome = %v", out)
	}

	var arcs [][]float64
	for _, c := range rec.Commands() {
		if c.Op == "arc" {
			arcs = append(arcs, c.Args)
		}
	}
	if len(arcs) != 3 {
		t.Fatalf("got %d arcs, want 3", len(arcs))
	}
	centers := [][2]float64{{22, 22}, {122, 22}, {222, 22}}
	for i, a := range arcs {
		if a[0] != centers[i][0] || a[1] != centers[i][1] || a[2] != DebugRadius {
			t.Errorf("arc %d = %v", i, a)
		}
	}
}

func TestRenderStylePassThrough(t *testing.T) {
	rec := surface.NewRecorder()
	cfg := Config{
		FromSelector: "#a",
		ToSelector:   "#b",
		ZIndex:       7,
		Style:        map[string]string{"opacity": "0.5"},
		Color:        "tomato",
		Width:        4,
	}
	Renderer{}.Render(cfg, twoBoxPage(), rec)

	p, _ := rec.Placement()
	if p.ZIndex != 7 || p.Style["opacity"] != "0.5" {
		t.Errorf("placement = %+v", p)
	}
	if c := rec.Commands()[0]; c.Color != "#ff6347" || c.Args[0] != 4 {
		t.Errorf("set_stroke = %+v", c)
	}
}

func TestArrowheadWings(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"horizontal", Config{FromSelector: "#a", ToSelector: "#b"}},
		{"bent up", Config{FromSelector: "#a", ToSelector: "#b", MiddleY: 80}},
		{"bent sideways", Config{FromSelector: "#a", ToSelector: "#b", MiddleX: -300, MiddleY: -50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := twoBoxPage()
			g := Layout(tt.cfg, page.Elements[0].Rect, page.Elements[1].Rect, 0)
			tip := g.Local.End
			size := DefaultArrowheadSize

			for i, w := range g.Wings {
				if d := math.Hypot(w.X-tip.X, w.Y-tip.Y); !near(d, size) {
					t.Errorf("wing %d at distance %g, want %g", i, d, size)
				}
				if !g.Box.Contains(w.Add(g.Box.Origin())) {
					t.Errorf("wing %d %v outside box %v", i, w, g.Box)
				}
			}

			// Both wings trail the tip and mirror each other about the heading.
			back := geom.Point{X: -math.Cos(g.Heading), Y: -math.Sin(g.Heading)}
			side := geom.Point{X: -back.Y, Y: back.X}
			var along, across [2]float64
			for i, w := range g.Wings {
				d := w.Sub(tip)
				along[i] = d.X*back.X + d.Y*back.Y
				across[i] = d.X*side.X + d.Y*side.Y
			}
			if along[0] <= 0 || !near(along[0], along[1]) {
				t.Errorf("along heading = %v", along)
			}
			if !near(across[0], -across[1]) || near(across[0], 0) {
				t.Errorf("across heading = %v", across)
			}
		})
	}
}

func TestLayoutContainsCurve(t *testing.T) {
	cfgs := []Config{
		{FromSelector: "#a", ToSelector: "#b", MiddleY: 120},
		{FromSelector: "#a", ToSelector: "#b", MiddleX: 50, MiddleY: -200, Width: 2},
		{FromSelector: "#a", ToSelector: "#b", Width: 40},
	}
	page := twoBoxPage()
	for _, cfg := range cfgs {
		g := Layout(cfg, page.Elements[0].Rect, page.Elements[1].Rect, 0)
		half := cfg.WithDefaults().Width / 2
		for i := 0; i <= 200; i++ {
			p := g.Triple.Eval(float64(i) / 200)
			inner := g.Box.Pad(-half + 0.5)
			if !inner.Contains(p) {
				t.Errorf("cfg %+v: curve point %v and stroke do not fit %v", cfg, p, g.Box)
				break
			}
		}
	}
}

func TestOutcomeString(t *testing.T) {
	for o, want := range map[Outcome]string{
		Drawn:          "drawn",
		Headless:       "headless",
		AnchorsMissing: "anchors-missing",
		Suppressed:     "suppressed",
		Outcome(42):    "unknown",
	} {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", int(o), got, want)
		}
	}
}
