package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/deckgrid/deckgrid/pkg/box"
	"github.com/deckgrid/deckgrid/pkg/layout"
	"github.com/deckgrid/deckgrid/pkg/report"
	"github.com/deckgrid/deckgrid/pkg/units"
)

// exportCommand creates the export command that rewrites a configuration,
// optionally with every effective parameter or with patterns expanded to the
// files they matched.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		outPath string
		full    bool
		expand  bool
		font    string
	)

	cmd := &cobra.Command{
		Use:   "export <config.json>",
		Short: "Re-export a deck configuration",
		Long: `Export rebuilds a configuration file after a dry run of the deck.

With --full every slide carries its effective parameter values, including
built-in defaults. With --expand content patterns are replaced by the files
they matched, pinning the deck to its current inputs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := report.LoadConfig(args[0])
			if err != nil {
				return err
			}
			size, err := cfg.Size.Resolve()
			if err != nil {
				return err
			}

			r, err := c.newRenderer(cmd, font, true, "", configNeedsPDF(cfg))
			if err != nil {
				return err
			}
			defer r.close()

			fillerOpts := box.Options{Prober: dryProber{}, Fitter: r.fitter, Logger: c.Logger}
			reportOpts := report.Options{
				Sink:   &drySink{size: size},
				Logger: c.Logger,
			}
			if r.engine != nil {
				fillerOpts.Rasterizer = r.engine
				reportOpts.Pages = r.engine
			}
			filler, err := box.NewFiller(fillerOpts)
			if err != nil {
				return err
			}
			reportOpts.Filler = filler

			rep, err := report.FromConfig(cfg, reportOpts)
			if err != nil {
				return err
			}
			if err := rep.WriteConfig(outPath, report.ConfigOptions{Full: full, Expand: expand}); err != nil {
				return err
			}
			printSuccess("Exported %d slide entries", len(cfg.Slides))
			printFile(outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "deckgrid.json", "output configuration path")
	cmd.Flags().BoolVar(&full, "full", false, "write every effective parameter value")
	cmd.Flags().BoolVar(&expand, "expand", false, "replace content patterns with matched files")
	cmd.Flags().StringVar(&font, "font", "", "measuring font file name")

	return cmd
}

// =============================================================================
// Dry-Run Sink
// =============================================================================

// drySink walks the whole build pipeline without drawing anything, so export
// validates a configuration exactly the way build would.
type drySink struct {
	size report.Size
}

var _ report.Sink = (*drySink)(nil)

func (s *drySink) PageSize() report.Size             { return s.size }
func (s *drySink) TitleReserved() units.EMU          { return units.Cm(2.5) }
func (s *drySink) EndSlide(report.SlideCanvas) error { return nil }
func (s *drySink) Finalize(context.Context) error    { return nil }

func (s *drySink) BeginSlide(report.SlideOptions) (report.SlideCanvas, error) {
	return dryCanvas{}, nil
}

type dryCanvas struct{}

func (dryCanvas) AddPicture(string, layout.Rect) error { return nil }
func (dryCanvas) AddTextBox(box.TextFrame) error       { return nil }
func (dryCanvas) SetTitle(string) error                { return nil }
func (dryCanvas) SetNotes(string) error                { return nil }

// dryProber accepts any existing file as a 4:3 image; export never needs
// real pixel sizes.
type dryProber struct{}

func (dryProber) Probe(string) (int, int, error) { return 4, 3, nil }
