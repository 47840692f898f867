package dom

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/curvearrow/pkg/errors"
	"github.com/matzehuels/curvearrow/pkg/geom"
)

// Document resolves selectors against the current page state.
type Document interface {
	// Query returns the first element matching selector in document order.
	Query(selector string) (Element, bool)
	// ScrollY returns the vertical scroll offset of the page.
	ScrollY() float64
}

// Snapshotter is implemented by documents whose state can change between
// calls. Snapshot returns a document frozen at one state, so that a render
// pass resolves every selector and the scroll offset against the same page.
type Snapshotter interface {
	Snapshot() Document
}

// Snapshot freezes doc if it implements [Snapshotter] and returns it
// unchanged otherwise.
func Snapshot(doc Document) Document {
	if s, ok := doc.(Snapshotter); ok {
		return s.Snapshot()
	}
	return doc
}

// Rect is an element's bounding rectangle in viewport coordinates.
type Rect struct {
	Left   float64 `toml:"left" json:"left"`
	Top    float64 `toml:"top" json:"top"`
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
}

// Center returns the center of the rectangle.
func (r Rect) Center() geom.Point {
	return geom.Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Element is one addressable box on the page.
type Element struct {
	ID      string   `toml:"id" json:"id,omitempty"`
	Tag     string   `toml:"tag" json:"tag,omitempty"`
	Classes []string `toml:"class" json:"class,omitempty"`
	Label   string   `toml:"label" json:"label,omitempty"`
	Rect
}

// Page is a static [Document].
type Page struct {
	Scroll   float64   `toml:"scroll_y" json:"scroll_y"`
	Width    float64   `toml:"width" json:"width,omitempty"`
	Height   float64   `toml:"height" json:"height,omitempty"`
	Elements []Element `toml:"element" json:"elements"`
}

var _ Document = (*Page)(nil)

// Query implements [Document]. An invalid selector matches nothing.
func (p *Page) Query(selector string) (Element, bool) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return Element{}, false
	}
	for _, e := range p.Elements {
		if sel.Match(e) {
			return e, true
		}
	}
	return Element{}, false
}

// ScrollY implements [Document].
func (p *Page) ScrollY() float64 { return p.Scroll }

// Snapshot implements [Snapshotter]. A Page is never mutated after loading,
// so it is its own snapshot.
func (p *Page) Snapshot() Document { return p }

// Extent returns the page size: the declared width/height when set, otherwise
// the smallest size that holds every element.
func (p *Page) Extent() (w, h float64) {
	w, h = p.Width, p.Height
	for _, e := range p.Elements {
		w = max(w, e.Left+e.Width)
		h = max(h, e.Top+e.Height+p.Scroll)
	}
	return w, h
}

// Selector is a parsed comma-separated list of compound selectors.
type Selector []compound

type compound struct {
	tag     string
	id      string
	classes []string
}

// ParseSelector parses the supported selector subset.
func ParseSelector(s string) (Selector, error) {
	if err := errs.ValidateSelector(s); err != nil {
		return nil, err
	}
	var out Selector
	for _, part := range strings.Split(s, ",") {
		out = append(out, parseCompound(strings.TrimSpace(part)))
	}
	return out, nil
}

func parseCompound(s string) compound {
	var c compound
	i := strings.IndexAny(s, "#.")
	if i < 0 {
		c.tag = s
		return c
	}
	c.tag = s[:i]
	for s = s[i:]; s != ""; {
		kind := s[0]
		rest := s[1:]
		j := strings.IndexAny(rest, "#.")
		if j < 0 {
			j = len(rest)
		}
		name := rest[:j]
		if kind == '#' {
			c.id = name
		} else {
			c.classes = append(c.classes, name)
		}
		s = rest[j:]
	}
	return c
}

// Match reports whether e matches any compound of the selector list.
func (s Selector) Match(e Element) bool {
	for _, c := range s {
		if c.match(e) {
			return true
		}
	}
	return false
}

func (c compound) match(e Element) bool {
	if c.tag != "" && c.tag != "*" && !strings.EqualFold(c.tag, e.Tag) {
		return false
	}
	if c.id != "" && c.id != e.ID {
		return false
	}
	for _, cls := range c.classes {
		if !slices.Contains(e.Classes, cls) {
			return false
		}
	}
	return true
}
