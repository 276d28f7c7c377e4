package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/deckgrid/deckgrid/pkg/report"
)

// inspectCommand creates the inspect command that summarizes a deck
// configuration without rendering it.
func (c *CLI) inspectCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect <config.json>",
		Short: "Summarize a deck configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := report.LoadConfig(args[0])
			if err != nil {
				return err
			}

			if interactive {
				model := newConfigBrowser(cfg)
				_, err := tea.NewProgram(model).Run()
				return err
			}

			printConfigSummary(args[0], cfg)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse slides interactively")
	return cmd
}

// printConfigSummary prints the size, defaults and slide table.
func printConfigSummary(path string, cfg report.Config) {
	size, err := cfg.Size.Resolve()
	if err != nil {
		printWarning("Bad size: %v", err)
	} else {
		printKeyValue("Config", path)
		printKeyValue("Size", fmt.Sprintf("%.1f x %.1f cm", size.Width.Cm(), size.Height.Cm()))
		printKeyValue("Slides", fmt.Sprintf("%d", len(cfg.Slides)))
	}
	if cfg.Defaults != nil {
		printKeyValue("Defaults", summarizeParams(*cfg.Defaults))
	}
	printNewline()

	t := table.New().Headers("#", "TITLE", "CONTENT", "LAYOUT", "SPLIT")
	for i, p := range cfg.Slides {
		t.Row(
			fmt.Sprintf("%d", i+1),
			titleOf(p),
			summarizeContent(p),
			layoutOf(p),
			splitOf(p),
		)
	}
	fmt.Println(t.Render())
}

func titleOf(p report.Parameters) string {
	if p.Title == nil {
		return StyleDim.Render("-")
	}
	return *p.Title
}

func summarizeContent(p report.Parameters) string {
	entries := p.Content.Strings()
	if len(entries) == 0 && len(p.GroupedContent) > 0 {
		entries = p.GroupedContent.Strings()
	}
	switch len(entries) {
	case 0:
		return StyleDim.Render("empty")
	case 1:
		return entries[0]
	default:
		return fmt.Sprintf("%s … (%d items)", entries[0], len(entries))
	}
}

func layoutOf(p report.Parameters) string {
	if p.ContentLayout == nil {
		return "grid"
	}
	if rows := p.ContentLayout.Matrix; len(rows) > 0 {
		return fmt.Sprintf("custom %dx%d", len(rows), len(rows[0]))
	}
	return p.ContentLayout.Name
}

func splitOf(p report.Parameters) string {
	if p.Split == nil || !p.Split.Enabled() {
		return StyleDim.Render("-")
	}
	if p.Split.Chunk() == 1 {
		return "each"
	}
	return fmt.Sprintf("by %d", p.Split.Chunk())
}

// summarizeParams renders set defaults as "key=value" pairs.
func summarizeParams(p report.Parameters) string {
	var parts []string
	if p.NColumns != nil {
		parts = append(parts, fmt.Sprintf("n_columns=%d", *p.NColumns))
	}
	if p.OuterMargin != nil {
		parts = append(parts, fmt.Sprintf("outer_margin=%g", *p.OuterMargin))
	}
	if p.InnerMargin != nil {
		parts = append(parts, fmt.Sprintf("inner_margin=%g", *p.InnerMargin))
	}
	if p.MissingFile != nil {
		parts = append(parts, "missing_file="+*p.MissingFile)
	}
	if p.FillBy != nil {
		parts = append(parts, "fill_by="+*p.FillBy)
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, " ")
}
