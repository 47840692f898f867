package surface

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	errs "github.com/matzehuels/curvearrow/pkg/errors"
)

// ParseColor parses a CSS color value into an opaque or translucent
// non-premultiplied color.
func ParseColor(s string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return color.NRGBA{}, errs.New(errs.ErrCodeInvalidColor, "color cannot be empty")
	}
	if v == "transparent" {
		return color.NRGBA{}, nil
	}
	if c, ok := colornames.Map[v]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	if strings.HasPrefix(v, "#") {
		c, err := colorful.Hex(v)
		if err != nil {
			return color.NRGBA{}, errs.Wrap(errs.ErrCodeInvalidColor, err, "invalid hex color %q", s)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
	}
	if strings.HasPrefix(v, "rgb") {
		return parseRGBFunc(v, s)
	}
	return color.NRGBA{}, errs.New(errs.ErrCodeInvalidColor, "unknown color %q", s)
}

func parseRGBFunc(v, orig string) (color.NRGBA, error) {
	var r, g, b int
	a := 1.0
	var n int
	var err error
	switch {
	case strings.HasPrefix(v, "rgba("):
		n, err = fmt.Sscanf(v, "rgba(%d,%d,%d,%g)", &r, &g, &b, &a)
		if n != 4 {
			err = fmt.Errorf("want 4 components, got %d", n)
		}
	case strings.HasPrefix(v, "rgb("):
		n, err = fmt.Sscanf(v, "rgb(%d,%d,%d)", &r, &g, &b)
		if n != 3 {
			err = fmt.Errorf("want 3 components, got %d", n)
		}
	default:
		err = fmt.Errorf("unknown function")
	}
	if err != nil {
		return color.NRGBA{}, errs.Wrap(errs.ErrCodeInvalidColor, err, "invalid color %q", orig)
	}
	for _, c := range []int{r, g, b} {
		if c < 0 || c > 255 {
			return color.NRGBA{}, errs.New(errs.ErrCodeInvalidColor, "channel out of range in %q", orig)
		}
	}
	if a < 0 || a > 1 {
		return color.NRGBA{}, errs.New(errs.ErrCodeInvalidColor, "alpha out of range in %q", orig)
	}
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a*255 + 0.5)}, nil
}

// MustParseColor is like [ParseColor] but panics on error. It is intended
// for package-level defaults.
func MustParseColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// CSSColor formats c as a "#rrggbb" hex value and a separate opacity in
// [0, 1], the pair SVG stroke attributes expect.
func CSSColor(c color.Color) (hex string, opacity float64) {
	if c == nil {
		return "#000000", 1
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0 {
		return "#000000", 0
	}
	cc, _ := colorful.MakeColor(color.NRGBA{R: n.R, G: n.G, B: n.B, A: 255})
	return cc.Hex(), float64(n.A) / 255
}
