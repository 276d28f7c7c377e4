package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/deckgrid/deckgrid/pkg/box"
	"github.com/deckgrid/deckgrid/pkg/fonts"
	"github.com/deckgrid/deckgrid/pkg/pdf"
	"github.com/deckgrid/deckgrid/pkg/render/raster"
	"github.com/deckgrid/deckgrid/pkg/report"
)

// renderer bundles the long-lived pieces of deck rendering: the measuring
// font and, when a configuration references PDF content, the pdfium engine.
type renderer struct {
	fitter *fonts.Fitter
	engine *pdf.Engine
	logger *log.Logger
}

// newRenderer loads the font and starts the PDF engine when needed.
func (c *CLI) newRenderer(cmd *cobra.Command, font string, noCache bool, redisAddr string, needPDF bool) (*renderer, error) {
	fitter, err := loadFonts(font)
	if err != nil {
		return nil, err
	}
	r := &renderer{fitter: fitter, logger: c.Logger}
	c.registerHooks()

	if needPDF {
		rasterCache, err := newCache(cmd, noCache, redisAddr)
		if err != nil {
			return nil, err
		}
		engine, err := pdf.New(pdf.Options{Cache: rasterCache, Logger: c.Logger})
		if err != nil {
			return nil, err
		}
		r.engine = engine
	}
	return r, nil
}

// close releases the PDF engine.
func (r *renderer) close() {
	if r.engine != nil {
		_ = r.engine.Close()
	}
}

// deckOptions are the per-render knobs.
type deckOptions struct {
	outDir   string
	pdfPath  string
	dpi      float64
	borders  bool
	size     report.SizeSpec
	defaults report.Parameters
}

// render builds every slide of the configuration into a raster sink and
// finalizes it.
func (r *renderer) render(ctx context.Context, cfg report.Config, opts deckOptions) (*report.Report, *raster.Sink, error) {
	sizeSpec := cfg.Size
	if sizeSpec.IsZero() {
		sizeSpec = opts.size
	}
	size, err := sizeSpec.Resolve()
	if err != nil {
		return nil, nil, err
	}

	sink, err := raster.New(raster.Options{
		OutDir:  opts.outDir,
		Size:    size,
		DPI:     opts.dpi,
		Fonts:   r.fitter,
		PDFPath: opts.pdfPath,
		Borders: opts.borders,
		Logger:  r.logger,
	})
	if err != nil {
		return nil, nil, err
	}

	fillerOpts := box.Options{
		Prober: raster.Prober{},
		Fitter: r.fitter,
		DPI:    opts.dpi,
		Logger: r.logger,
	}
	reportOpts := report.Options{
		Sink:     sink,
		Defaults: opts.defaults,
		Logger:   r.logger,
	}
	if r.engine != nil {
		fillerOpts.Rasterizer = r.engine
		reportOpts.Pages = r.engine
	}
	filler, err := box.NewFiller(fillerOpts)
	if err != nil {
		return nil, nil, err
	}
	reportOpts.Filler = filler

	rep, err := report.FromConfig(cfg, reportOpts)
	if err != nil {
		return nil, nil, err
	}
	if err := rep.Finalize(ctx); err != nil {
		return nil, nil, err
	}
	return rep, sink, nil
}

// configNeedsPDF reports whether any content entry points at a PDF, so the
// pdfium engine only starts when a deck actually embeds documents.
func configNeedsPDF(cfg report.Config) bool {
	check := func(p report.Parameters) bool {
		entries := append(p.Content.Strings(), p.GroupedContent.Strings()...)
		for _, entry := range entries {
			if strings.EqualFold(filepath.Ext(entry), ".pdf") {
				return true
			}
		}
		return false
	}
	if cfg.Defaults != nil && check(*cfg.Defaults) {
		return true
	}
	for _, p := range cfg.Slides {
		if check(p) {
			return true
		}
	}
	return false
}
