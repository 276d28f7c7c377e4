package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckgrid/deckgrid/pkg/report"
)

// buildCommand creates the build command that renders a configuration into
// slide images and an optional PDF.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		outDir       string
		pdfPath      string
		dpi          float64
		font         string
		defaultsFile string
		borders      bool
		noCache      bool
		redisAddr    string
	)

	cmd := &cobra.Command{
		Use:   "build <config.json>",
		Short: "Render a deck configuration to slide images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := report.LoadConfig(args[0])
			if err != nil {
				return err
			}
			userDefs, err := loadUserDefaults(defaultsFile)
			if err != nil {
				return err
			}

			r, err := c.newRenderer(cmd, font, noCache, redisAddr, configNeedsPDF(cfg))
			if err != nil {
				return err
			}
			defer r.close()

			spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Rendering %s", args[0]))
			spinner.Start()
			rep, sink, err := r.render(cmd.Context(), cfg, deckOptions{
				outDir:   outDir,
				pdfPath:  pdfPath,
				borders:  borders,
				dpi:      userDefs.dpi(dpi),
				size:     userDefs.sizeSpec(),
				defaults: userDefs.parameters(),
			})
			if err != nil {
				spinner.StopWithError(fmt.Sprintf("Render failed: %v", err))
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Rendered %d slides", rep.SlideCount()))

			for _, page := range sink.Pages() {
				printFile(page)
			}
			if pdfPath != "" {
				printFile(pdfPath)
			} else {
				printNextStep("Assemble a PDF", fmt.Sprintf("deckgrid build %s --pdf deck.pdf", args[0]))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", "deck", "output directory for slide images")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "assemble the slides into a PDF at this path")
	cmd.Flags().Float64Var(&dpi, "dpi", defaultDPI, "raster resolution")
	cmd.Flags().StringVar(&font, "font", "", "measuring and drawing font file name")
	cmd.Flags().StringVar(&defaultsFile, "defaults", "", "TOML defaults file (default ~/.config/deckgrid/deckgrid.toml)")
	cmd.Flags().BoolVar(&borders, "borders", false, "outline content boxes for layout debugging")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the raster cache")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for the raster cache (host:port)")

	return cmd
}
