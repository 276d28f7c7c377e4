package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/deckgrid/deckgrid/pkg/content"
)

// Config is the JSON file format describing a whole report: the page size,
// report-wide parameter defaults, and one parameter set per AddSlide call.
type Config struct {
	Size     SizeSpec     `json:"size"`
	Defaults *Parameters  `json:"defaults,omitempty"`
	Slides   []Parameters `json:"slides"`
}

// ConfigOptions control configuration export.
type ConfigOptions struct {
	// Full emits every parameter with its effective value instead of only
	// the ones that were set.
	Full bool

	// Expand replaces content patterns with the files they matched at
	// export time.
	Expand bool
}

// builtinDefaults returns the built-in defaults as explicit parameters,
// used for full exports.
func builtinDefaults() Parameters {
	pages := PageSpec{sel: content.AllPages()}
	return Parameters{
		SlideLayout:        &SlideLayout{Index: defaultSlideLayoutIndex},
		ContentLayout:      &LayoutSpec{Name: LayoutGrid},
		OuterMargin:        Float(defaultOuterMarginCm),
		InnerMargin:        Float(defaultInnerMarginCm),
		NColumns:           Int(defaultNColumns),
		Split:              &Split{},
		ShowFilename:       &ShowFilename{},
		FilenameAlignment:  String("center"),
		FillBy:             String("row"),
		RemovePlaceholders: Bool(false),
		PDFPages:           &pages,
		MissingFile:        String(string(content.MissingRaise)),
		EmptySlide:         String(EmptySlideKeep),
	}
}

// Config exports the report as a configuration that reproduces it.
func (r *Report) Config(opts ConfigOptions) (Config, error) {
	cfg := Config{
		Size:   specForSize(r.size),
		Slides: make([]Parameters, 0, len(r.added)),
	}
	if !opts.Full && !isEmptyParams(r.defaults) {
		defaults := r.defaults
		cfg.Defaults = &defaults
	}

	for _, p := range r.added {
		out := p
		if opts.Full {
			out = Merge(builtinDefaults(), Merge(r.defaults, p))
		}
		if opts.Expand && out.Content != nil {
			expanded, err := r.expandContent(p)
			if err != nil {
				return Config{}, err
			}
			out.Content = expanded
		}
		cfg.Slides = append(cfg.Slides, out)
	}
	return cfg, nil
}

// WriteConfig writes the exported configuration as indented JSON.
func (r *Report) WriteConfig(path string, opts ConfigOptions) error {
	cfg, err := r.Config(opts)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadConfig reads a configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse config %q: %v", ErrInvalid, path, err)
	}
	return cfg, nil
}

// FromConfig builds a report from a configuration. The sink in opts must
// already match cfg.Size; opts.Defaults are overridden by cfg.Defaults.
func FromConfig(cfg Config, opts Options) (*Report, error) {
	if cfg.Defaults != nil {
		opts.Defaults = Merge(opts.Defaults, *cfg.Defaults)
	}
	r, err := New(opts)
	if err != nil {
		return nil, err
	}
	for i, p := range cfg.Slides {
		if err := r.AddSlide(p); err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}
	}
	return r, nil
}

// expandContent resolves a slide's content and returns the matched sources,
// so exported configurations pin the exact files.
func (r *Report) expandContent(p Parameters) (StringOrList, error) {
	s, err := resolve(Merge(r.defaults, p))
	if err != nil {
		return nil, err
	}
	resolver, err := r.newResolver(s)
	if err != nil {
		return nil, err
	}
	items, err := resolver.Resolve(s.content)
	if err != nil {
		return nil, err
	}

	var out StringOrList
	lastSource := ""
	for _, it := range items {
		if it.Kind == content.KindEmpty {
			out = append(out, nil)
			continue
		}
		src := it.Source()
		// PDF expansion yields one item per page; the config lists the
		// document once.
		if it.Kind == content.KindPDFPage && src == lastSource {
			continue
		}
		lastSource = src
		entry := src
		out = append(out, &entry)
	}
	return out, nil
}

// specForSize maps a concrete size back to a preset spec when possible.
func specForSize(size Size) SizeSpec {
	for name, preset := range presets {
		if preset == size {
			return SizeSpec{Preset: name}
		}
	}
	custom := size
	return SizeSpec{Custom: &custom}
}

// isEmptyParams reports whether no parameter field is set.
func isEmptyParams(p Parameters) bool {
	data, err := json.Marshal(p)
	if err != nil {
		return false
	}
	return string(data) == "{}"
}
