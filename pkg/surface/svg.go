package surface

import (
	"bytes"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// SVG is a [Surface] that emits an inline SVG fragment positioned with CSS,
// ready to be dropped into the page it annotates.
type SVG struct {
	placement Placement
	visible   bool
	stroke    StrokeStyle
	path      strings.Builder
	current   bool
	body      bytes.Buffer
}

var _ Surface = (*SVG)(nil)

// NewSVG returns a hidden SVG surface.
func NewSVG() *SVG { return &SVG{stroke: StrokeStyle{Width: 1}} }

// Place implements [Surface].
func (s *SVG) Place(p Placement) {
	s.placement = p
	s.visible = true
	s.body.Reset()
	s.path.Reset()
	s.current = false
}

// Hide implements [Surface].
func (s *SVG) Hide() { s.visible = false }

// Visible implements [Surface].
func (s *SVG) Visible() bool { return s.visible }

func (s *SVG) BeginPath() {
	s.path.Reset()
	s.current = false
}

func (s *SVG) MoveTo(x, y float64) {
	if !s.visible {
		return
	}
	fmt.Fprintf(&s.path, "M%s %s ", num(x), num(y))
	s.current = true
}

func (s *SVG) LineTo(x, y float64) {
	if !s.visible {
		return
	}
	if !s.current {
		s.MoveTo(x, y)
		return
	}
	fmt.Fprintf(&s.path, "L%s %s ", num(x), num(y))
}

func (s *SVG) QuadraticTo(cx, cy, x, y float64) {
	if !s.visible {
		return
	}
	if !s.current {
		s.MoveTo(cx, cy)
	}
	fmt.Fprintf(&s.path, "Q%s %s %s %s ", num(cx), num(cy), num(x), num(y))
}

// Arc implements [Surface]. The sweep is split into segments of at most a
// half turn because a single SVG arc command cannot describe a full circle.
func (s *SVG) Arc(x, y, r, a0, a1 float64) {
	if !s.visible {
		return
	}
	sx, sy := x+r*math.Cos(a0), y+r*math.Sin(a0)
	if s.current {
		s.LineTo(sx, sy)
	} else {
		s.MoveTo(sx, sy)
	}

	sweep := a1 - a0
	flag := 1
	if sweep < 0 {
		flag = 0
	}
	n := int(math.Ceil(math.Abs(sweep) / math.Pi))
	for i := 1; i <= n; i++ {
		a := a0 + sweep*float64(i)/float64(n)
		fmt.Fprintf(&s.path, "A%s %s 0 0 %d %s %s ", num(r), num(r), flag, num(x+r*math.Cos(a)), num(y+r*math.Sin(a)))
	}
}

func (s *SVG) SetStroke(st StrokeStyle) { s.stroke = st }

func (s *SVG) Stroke() {
	if !s.visible || s.path.Len() == 0 {
		return
	}
	hex, opacity := CSSColor(s.stroke.Color)
	fmt.Fprintf(&s.body, `  <path d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="%s" stroke-linejoin="%s"`,
		strings.TrimSpace(s.path.String()), hex, num(s.stroke.Width), s.stroke.Cap, s.stroke.Join)
	if opacity < 1 {
		fmt.Fprintf(&s.body, ` stroke-opacity="%s"`, num(opacity))
	}
	s.body.WriteString("/>\n")
}

// Bytes returns the SVG fragment, or nil when the surface is hidden.
func (s *SVG) Bytes() []byte {
	if !s.visible {
		return nil
	}
	w, h := s.placement.PixelSize()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" style="%s">`+"\n",
		w, h, w, h, cssStyle(s.placement))
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// cssStyle renders the positioning declarations followed by the
// pass-through style overrides in key order.
func cssStyle(p Placement) string {
	decls := []string{
		"position:absolute",
		"left:" + num(p.Left) + "px",
		"top:" + num(p.Top) + "px",
		"pointer-events:none",
	}
	if p.ZIndex != 0 {
		decls = append(decls, "z-index:"+strconv.Itoa(p.ZIndex))
	}
	for _, k := range slices.Sorted(maps.Keys(p.Style)) {
		decls = append(decls, k+":"+p.Style[k])
	}
	return strings.ReplaceAll(strings.Join(decls, ";"), `"`, "'")
}

// num formats v with at most three decimals.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
