package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/deckgrid/deckgrid/pkg/report"
)

// userDefaults is the ~/.config/deckgrid/deckgrid.toml schema: report-wide
// parameter defaults plus rendering preferences. Every field is optional.
type userDefaults struct {
	Size              string  `toml:"size"`
	DPI               float64 `toml:"dpi"`
	Font              string  `toml:"font"`
	NColumns          int     `toml:"n_columns"`
	OuterMargin       float64 `toml:"outer_margin"`
	InnerMargin       float64 `toml:"inner_margin"`
	FontSize          float64 `toml:"fontsize"`
	FillBy            string  `toml:"fill_by"`
	FilenameAlignment string  `toml:"filename_alignment"`
	MissingFile       string  `toml:"missing_file"`
	EmptySlide        string  `toml:"empty_slide"`
}

// loadUserDefaults reads a TOML defaults file. An explicit path must exist;
// the implicit user file may be absent.
func loadUserDefaults(path string) (userDefaults, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = defaultsPath()
		if err != nil {
			return userDefaults{}, nil
		}
	}

	var d userDefaults
	meta, err := toml.DecodeFile(path, &d)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return userDefaults{}, nil
		}
		return userDefaults{}, fmt.Errorf("read defaults %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return userDefaults{}, fmt.Errorf("unknown key %q in defaults %q", undecoded[0], path)
	}
	return d, nil
}

// parameters converts the defaults into report parameters, leaving unset
// fields nil so slide parameters and built-in defaults still apply.
func (d userDefaults) parameters() report.Parameters {
	var p report.Parameters
	if d.NColumns > 0 {
		p.NColumns = report.Int(d.NColumns)
	}
	if d.OuterMargin > 0 {
		p.OuterMargin = report.Float(d.OuterMargin)
	}
	if d.InnerMargin > 0 {
		p.InnerMargin = report.Float(d.InnerMargin)
	}
	if d.FontSize > 0 {
		p.FontSize = report.Float(d.FontSize)
	}
	if d.FillBy != "" {
		p.FillBy = report.String(d.FillBy)
	}
	if d.FilenameAlignment != "" {
		p.FilenameAlignment = report.String(d.FilenameAlignment)
	}
	if d.MissingFile != "" {
		p.MissingFile = report.String(d.MissingFile)
	}
	if d.EmptySlide != "" {
		p.EmptySlide = report.String(d.EmptySlide)
	}
	return p
}

// sizeSpec returns the configured page size, empty when unset.
func (d userDefaults) sizeSpec() report.SizeSpec {
	if d.Size == "" {
		return report.SizeSpec{}
	}
	return report.SizeSpec{Preset: d.Size}
}

// dpi returns the configured resolution or the fallback.
func (d userDefaults) dpi(fallback float64) float64 {
	if d.DPI > 0 {
		return d.DPI
	}
	return fallback
}
