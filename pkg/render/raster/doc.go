// Package raster renders slide decks to PNG images, one file per slide,
// and optionally assembles the pages into a single PDF.
//
// # Overview
//
// A "sink" receives planned slides from pkg/report and turns them into a
// final output format. The raster sink draws on an in-memory pixel canvas:
//
//   - Pictures are loaded, resampled to their planned rectangle, and
//     composited in place
//   - Text frames are word-wrapped with the measuring font and drawn line
//     by line
//   - Speaker notes are written to a sidecar text file next to each slide
//
// Basic usage:
//
//	sink, err := raster.New(raster.Options{
//	    OutDir: "out",
//	    Size:   report.DefaultSize(),
//	    Fonts:  fitter,
//	})
//	rep, err := report.New(report.Options{Sink: sink, ...})
//
// All geometry arrives in EMU; conversion to pixels happens here, at the
// configured DPI.
package raster
