// Package box fills planned slide rectangles with resolved content.
//
// A filler takes one resolved item, the rectangle the layout planner
// assigned to it, and a style, and issues drawing calls against a [Canvas].
// Images are aspect-fitted and aligned inside their rectangle, optionally
// with a filename band carved from the top. Text is measured against the
// rectangle to pick a font size, with markdown emphasis and links converted
// into styled spans. Single PDF pages are rasterized to a temporary image
// and placed like any other picture.
//
// # Oracles
//
// The filler stays free of font and PDF machinery by delegating measurement
// to small interfaces: [ImageProber] reads pixel dimensions, [TextFitter]
// picks font sizes, and [PageRasterizer] renders PDF pages. pkg/fonts and
// pkg/pdf provide the real implementations; tests use fakes.
package box
