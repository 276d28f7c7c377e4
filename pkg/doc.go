// Package pkg provides the core libraries for Deckgrid slide rendering.
//
// # Overview
//
// Deckgrid turns declarative slide descriptions (lists of images, text
// files, markdown snippets and PDF pages) into rendered slide decks. The
// pkg directory is organized into four main areas:
//
//  1. [report] - Slide assembly (parameters, configuration, pipeline)
//  2. [content], [layout], [box] - Content resolution and box placement
//  3. [render/raster], [pdf], [fonts] - Rasterization and measurement
//  4. [cache], [observability], [units] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow through Deckgrid:
//
//	Configuration (JSON)
//	         ↓
//	    [content] package (expand globs, regexes, PDF pages)
//	         ↓
//	    [layout] package (grid matrix + box rectangles)
//	         ↓
//	    [box] package (place items, fit text, label files)
//	         ↓
//	    [render/raster] package (PNG slides, PDF assembly)
//
// # Quick Start
//
// Build a two-slide deck and render it to PNG files:
//
//	import (
//	    "context"
//	    "github.com/deckgrid/deckgrid/pkg/box"
//	    "github.com/deckgrid/deckgrid/pkg/fonts"
//	    "github.com/deckgrid/deckgrid/pkg/render/raster"
//	    "github.com/deckgrid/deckgrid/pkg/report"
//	)
//
//	fitter, _ := fonts.Load()
//	sink, _ := raster.New(raster.Options{OutDir: "out", Fonts: fitter})
//	filler, _ := box.NewFiller(box.Options{Prober: raster.Prober{}, Fitter: fitter})
//	rep, _ := report.New(report.Options{Sink: sink, Filler: filler})
//	_ = rep.AddTitleSlide("Results", "August 2026")
//	_ = rep.AddSlide(report.Parameters{Content: report.StringOrList{report.String("figures/*.png")}})
//	_ = rep.Finalize(context.Background())
//
// [report]: https://pkg.go.dev/github.com/deckgrid/deckgrid/pkg/report
// [content]: https://pkg.go.dev/github.com/deckgrid/deckgrid/pkg/content
// [layout]: https://pkg.go.dev/github.com/deckgrid/deckgrid/pkg/layout
// [box]: https://pkg.go.dev/github.com/deckgrid/deckgrid/pkg/box
// [render/raster]: https://pkg.go.dev/github.com/deckgrid/deckgrid/pkg/render/raster
// [pdf]: https://pkg.go.dev/github.com/deckgrid/deckgrid/pkg/pdf
// [fonts]: https://pkg.go.dev/github.com/deckgrid/deckgrid/pkg/fonts
// [cache]: https://pkg.go.dev/github.com/deckgrid/deckgrid/pkg/cache
// [observability]: https://pkg.go.dev/github.com/deckgrid/deckgrid/pkg/observability
// [units]: https://pkg.go.dev/github.com/deckgrid/deckgrid/pkg/units
package pkg
