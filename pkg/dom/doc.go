// Package dom models the page an arrow is anchored to.
//
// # Overview
//
// The arrow renderer needs exactly three things from a page: resolve a
// selector to at most one element, read that element's bounding rectangle in
// viewport coordinates, and read the vertical scroll offset. [Document]
// captures that contract so the renderer runs the same way against a live
// host, a static [Page] description, or a [FileDocument] that follows edits
// to a page file on disk.
//
// # Selectors
//
// [Page.Query] supports the selector subset arrows are configured with:
//
//   - tag:           div
//   - id:            #start
//   - class:         .box
//   - compounds:     div.box, section#intro, .box.highlighted
//   - lists:         #start, .fallback (first match in document order)
//
// # Page Files
//
// Pages are stored as TOML or JSON:
//
//	scroll_y = 120
//
//	[[element]]
//	id = "start"
//	class = ["box"]
//	left = 40
//	top = 60
//	width = 120
//	height = 48
package dom
