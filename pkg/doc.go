// Package pkg holds the curvearrow libraries.
//
// # Overview
//
// curvearrow draws curved arrows between two elements of a page. The
// libraries split the problem the way the data flows:
//
//	page file (TOML/JSON)       arrow file (TOML)
//	        ↓                          ↓
//	   [dom] Document  ──────→  [arrow] Renderer / Widget
//	                                   ↓
//	                    [geom] control triple + bounding box
//	                                   ↓
//	             [surface] Recorder / Raster (PNG) / SVG
//
// Supporting packages:
//
//   - [errors]: coded errors shared by loaders and the CLI
//   - [cache]: rendered-artifact cache used by the preview server
//   - [observability]: render, schedule and HTTP hooks
//   - [buildinfo]: version information set at build time
//
// # Quick Start
//
//	page, err := dom.LoadPage("page.toml")
//	if err != nil {
//	    return err
//	}
//	svg := surface.NewSVG()
//	_, outcome := arrow.Renderer{}.Render(arrow.Config{
//	    FromSelector: "#source",
//	    ToSelector:   "#target",
//	    MiddleY:      60,
//	}, page, svg)
//	if outcome == arrow.Drawn {
//	    os.Stdout.Write(svg.Bytes())
//	}
package pkg
