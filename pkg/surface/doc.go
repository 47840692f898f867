// Package surface provides the drawing surfaces arrows are rendered onto.
//
// # Overview
//
// A [Surface] behaves like a canvas element stacked over a page: it is
// placed at an absolute position with a pixel size, never intercepts pointer
// events, and accepts stroke-only 2D path commands. Three implementations
// are provided:
//
//   - [Recorder]: keeps the placement and a log of every command; exported as
//     JSON and used throughout the tests
//   - [Raster]: rasterizes with github.com/fogleman/gg and encodes PNG
//   - [SVG]: emits an inline, absolutely positioned SVG fragment
//
// # Colors
//
// [ParseColor] accepts the values a stylesheet would: SVG/CSS color names
// ("black", "tomato"), hex notation ("#f80", "#ff8800") and
// rgb()/rgba() functional notation.
//
//	c, err := surface.ParseColor("tomato")
//	s.SetStroke(surface.StrokeStyle{Color: c, Width: 8, Join: surface.JoinRound, Cap: surface.CapRound})
package surface
