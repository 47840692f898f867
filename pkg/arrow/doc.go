// Package arrow draws curved arrows between two page elements.
//
// # Rendering
//
// [Renderer.Render] runs one pass: it resolves the from/to elements in a
// [dom.Document], derives the anchors and the quadratic Bézier control
// triple, computes the tight bounding box of the curve, pads it so the
// stroke and arrowhead never clip, places the [surface.Surface] over that
// box and strokes the curve plus a two-segment arrowhead. Nothing is cached
// between passes; each pass returns a fresh [Geometry].
//
// Abnormal conditions are not errors. A missing document or surface, a
// missing anchor, or a matching hide-if-found selector each produce an
// [Outcome] and no visible output.
//
// # Widgets
//
// A [Widget] hosts one arrow over time. It renders on [Widget.Mount] and
// [Widget.Update], re-renders after [Config.RetryDelay] while an anchor is
// missing and, when DynamicUpdate is set, keeps polling so the arrow follows
// moving elements. Each widget owns at most one pending timer, and
// [Widget.Unmount] cancels it.
//
//	w := arrow.NewWidget(page, surface.NewSVG(), arrow.Config{
//	    FromSelector: "#source",
//	    ToSelector:   "#target",
//	    MiddleY:      40,
//	})
//	w.Mount(ctx)
//	defer w.Unmount()
//
// # Configuration
//
// Arrow files are TOML with one [[arrow]] table per arrow; see [LoadConfigs].
package arrow
