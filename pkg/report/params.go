package report

import (
	"encoding/json"
	"fmt"

	"github.com/deckgrid/deckgrid/pkg/box"
	"github.com/deckgrid/deckgrid/pkg/content"
	"github.com/deckgrid/deckgrid/pkg/layout"
)

// ====================================================================
// Polymorphic parameter types
// ====================================================================

// StringOrList accepts a JSON string, null, or a list of strings and nulls.
// Nulls mark explicitly empty slots in content lists.
type StringOrList []*string

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringOrList) UnmarshalJSON(data []byte) error {
	var single *string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == nil {
			*s = nil
			return nil
		}
		*s = StringOrList{single}
		return nil
	}
	var list []*string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("%w: expected string or list of strings", ErrInvalid)
	}
	*s = StringOrList(list)
	return nil
}

// MarshalJSON implements json.Marshaler. Single-element lists collapse back
// to a bare string.
func (s StringOrList) MarshalJSON() ([]byte, error) {
	if len(s) == 1 && s[0] != nil {
		return json.Marshal(*s[0])
	}
	return json.Marshal([]*string(s))
}

// Strings flattens the list dropping nil entries.
func (s StringOrList) Strings() []string {
	out := make([]string, 0, len(s))
	for _, p := range s {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// Split accepts false (no splitting), true (one item per slide), or an
// integer chunk size.
type Split struct {
	chunk int
}

// SplitOff disables splitting.
func SplitOff() Split { return Split{} }

// SplitEach puts every item on its own slide.
func SplitEach() Split { return Split{chunk: 1} }

// SplitBy chunks items into groups of n per slide.
func SplitBy(n int) Split { return Split{chunk: n} }

// Enabled reports whether splitting is on.
func (s Split) Enabled() bool { return s.chunk > 0 }

// Chunk returns the number of items per slide, zero when disabled.
func (s Split) Chunk() int { return s.chunk }

// UnmarshalJSON implements json.Unmarshaler.
func (s *Split) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*s = SplitEach()
		} else {
			*s = SplitOff()
		}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: split must be a boolean or an integer", ErrInvalid)
	}
	if n < 0 {
		return fmt.Errorf("%w: split size must not be negative", ErrInvalid)
	}
	*s = Split{chunk: n}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Split) MarshalJSON() ([]byte, error) {
	switch s.chunk {
	case 0:
		return json.Marshal(false)
	case 1:
		return json.Marshal(true)
	default:
		return json.Marshal(s.chunk)
	}
}

// ShowFilename accepts false, true (base filename), or a mode string.
type ShowFilename struct {
	mode box.FilenameMode
}

// Mode returns the underlying filename mode.
func (f ShowFilename) Mode() box.FilenameMode { return f.mode }

// UnmarshalJSON implements json.Unmarshaler.
func (f *ShowFilename) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			f.mode = box.FilenameBase
		} else {
			f.mode = box.FilenameOff
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: show_filename must be a boolean or a mode string", ErrInvalid)
	}
	mode := box.FilenameMode(s)
	if err := box.ValidateFilenameMode(mode); err != nil {
		return err
	}
	f.mode = mode
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f ShowFilename) MarshalJSON() ([]byte, error) {
	switch f.mode {
	case box.FilenameOff:
		return json.Marshal(false)
	case box.FilenameBase:
		return json.Marshal(true)
	default:
		return json.Marshal(string(f.mode))
	}
}

// SlideLayout identifies a layout of the output document, by index or name.
type SlideLayout struct {
	Index int
	Name  string
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *SlideLayout) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*l = SlideLayout{Index: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: slide_layout must be an integer or a name", ErrInvalid)
	}
	*l = SlideLayout{Name: s}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l SlideLayout) MarshalJSON() ([]byte, error) {
	if l.Name != "" {
		return json.Marshal(l.Name)
	}
	return json.Marshal(l.Index)
}

// Content layout names.
const (
	LayoutGrid       = "grid"
	LayoutVertical   = "vertical"
	LayoutHorizontal = "horizontal"
)

// LayoutSpec selects a named content layout or a custom index matrix.
type LayoutSpec struct {
	Name   string
	Matrix [][]int
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *LayoutSpec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case LayoutGrid, LayoutVertical, LayoutHorizontal:
			*l = LayoutSpec{Name: s}
			return nil
		}
		return fmt.Errorf("%w: unknown content layout %q", ErrInvalid, s)
	}
	var m [][]int
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: content_layout must be a name or an index matrix", ErrInvalid)
	}
	*l = LayoutSpec{Matrix: m}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l LayoutSpec) MarshalJSON() ([]byte, error) {
	if l.Matrix != nil {
		return json.Marshal(l.Matrix)
	}
	return json.Marshal(l.Name)
}

// PageSpec selects PDF pages: "all", a single 1-based page, or a list.
type PageSpec struct {
	sel content.PageSelection
}

// Selection returns the underlying page selection.
func (p PageSpec) Selection() content.PageSelection { return p.sel }

// UnmarshalJSON implements json.Unmarshaler.
func (p *PageSpec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "all" {
			return fmt.Errorf("%w: pdf_pages string form must be %q", ErrInvalid, "all")
		}
		p.sel = content.AllPages()
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		p.sel = content.Pages(n)
		return nil
	}
	var pages []int
	if err := json.Unmarshal(data, &pages); err != nil {
		return fmt.Errorf("%w: pdf_pages must be \"all\", a page number or a list", ErrInvalid)
	}
	p.sel = content.Pages(pages...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p PageSpec) MarshalJSON() ([]byte, error) {
	if p.sel.All() {
		return json.Marshal("all")
	}
	pages := p.sel.List()
	if len(pages) == 1 {
		return json.Marshal(pages[0])
	}
	return json.Marshal(pages)
}

// Empty-slide policies.
const (
	EmptySlideKeep = "keep"
	EmptySlideSkip = "skip"
)

// ====================================================================
// Parameters
// ====================================================================

// Parameters are the per-slide knobs. All fields are optional; nil fields
// fall back first to the report defaults, then to the built-in defaults.
// The JSON form is the configuration file format, so field tags are the
// config key names.
type Parameters struct {
	Title              *string       `json:"title,omitempty"`
	SlideLayout        *SlideLayout  `json:"slide_layout,omitempty"`
	ContentLayout      *LayoutSpec   `json:"content_layout,omitempty"`
	Content            StringOrList  `json:"content,omitempty"`
	GroupedContent     StringOrList  `json:"grouped_content,omitempty"`
	ContentAlignment   StringOrList  `json:"content_alignment,omitempty"`
	OuterMargin        *float64      `json:"outer_margin,omitempty"`
	InnerMargin        *float64      `json:"inner_margin,omitempty"`
	LeftMargin         *float64      `json:"left_margin,omitempty"`
	RightMargin        *float64      `json:"right_margin,omitempty"`
	TopMargin          *float64      `json:"top_margin,omitempty"`
	BottomMargin       *float64      `json:"bottom_margin,omitempty"`
	NColumns           *int          `json:"n_columns,omitempty"`
	WidthRatios        []float64     `json:"width_ratios,omitempty"`
	HeightRatios       []float64     `json:"height_ratios,omitempty"`
	Notes              StringOrList  `json:"notes,omitempty"`
	Split              *Split        `json:"split,omitempty"`
	ShowFilename       *ShowFilename `json:"show_filename,omitempty"`
	FilenameAlignment  *string       `json:"filename_alignment,omitempty"`
	FillBy             *string       `json:"fill_by,omitempty"`
	RemovePlaceholders *bool         `json:"remove_placeholders,omitempty"`
	FontSize           *float64      `json:"fontsize,omitempty"`
	PDFPages           *PageSpec     `json:"pdf_pages,omitempty"`
	MissingFile        *string       `json:"missing_file,omitempty"`
	EmptySlide         *string       `json:"empty_slide,omitempty"`
}

// Pointer helpers for building Parameters literals.

// String returns a pointer to s.
func String(s string) *string { return &s }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Merge overlays p over base, field by field. Set fields in p win.
func Merge(base, p Parameters) Parameters {
	out := base
	if p.Title != nil {
		out.Title = p.Title
	}
	if p.SlideLayout != nil {
		out.SlideLayout = p.SlideLayout
	}
	if p.ContentLayout != nil {
		out.ContentLayout = p.ContentLayout
	}
	if p.Content != nil {
		out.Content = p.Content
	}
	if p.GroupedContent != nil {
		out.GroupedContent = p.GroupedContent
	}
	if p.ContentAlignment != nil {
		out.ContentAlignment = p.ContentAlignment
	}
	if p.OuterMargin != nil {
		out.OuterMargin = p.OuterMargin
	}
	if p.InnerMargin != nil {
		out.InnerMargin = p.InnerMargin
	}
	if p.LeftMargin != nil {
		out.LeftMargin = p.LeftMargin
	}
	if p.RightMargin != nil {
		out.RightMargin = p.RightMargin
	}
	if p.TopMargin != nil {
		out.TopMargin = p.TopMargin
	}
	if p.BottomMargin != nil {
		out.BottomMargin = p.BottomMargin
	}
	if p.NColumns != nil {
		out.NColumns = p.NColumns
	}
	if p.WidthRatios != nil {
		out.WidthRatios = p.WidthRatios
	}
	if p.HeightRatios != nil {
		out.HeightRatios = p.HeightRatios
	}
	if p.Notes != nil {
		out.Notes = p.Notes
	}
	if p.Split != nil {
		out.Split = p.Split
	}
	if p.ShowFilename != nil {
		out.ShowFilename = p.ShowFilename
	}
	if p.FilenameAlignment != nil {
		out.FilenameAlignment = p.FilenameAlignment
	}
	if p.FillBy != nil {
		out.FillBy = p.FillBy
	}
	if p.RemovePlaceholders != nil {
		out.RemovePlaceholders = p.RemovePlaceholders
	}
	if p.FontSize != nil {
		out.FontSize = p.FontSize
	}
	if p.PDFPages != nil {
		out.PDFPages = p.PDFPages
	}
	if p.MissingFile != nil {
		out.MissingFile = p.MissingFile
	}
	if p.EmptySlide != nil {
		out.EmptySlide = p.EmptySlide
	}
	return out
}

// ====================================================================
// Resolution to concrete settings
// ====================================================================

// Built-in defaults, applied below both the report defaults and the
// per-slide parameters.
const (
	defaultSlideLayoutIndex = 1
	defaultOuterMarginCm    = 2.0
	defaultInnerMarginCm    = 1.0
	defaultNColumns         = 2
)

// settings are the fully resolved per-slide values.
type settings struct {
	title              *string
	slideLayout        SlideLayout
	contentLayout      LayoutSpec
	content            []*string
	groupedContent     []*string
	alignments         []string
	margins            layout.Margins
	nColumns           int
	widthRatios        []float64
	heightRatios       []float64
	notes              []string
	split              Split
	showFilename       box.FilenameMode
	filenameAlignment  box.HAlign
	fillBy             layout.FillOrder
	removePlaceholders bool
	fontSize           float64
	pdfPages           content.PageSelection
	missingFile        content.MissingFilePolicy
	emptySlide         string
}

// resolve validates the merged parameters and fills in built-in defaults.
func resolve(p Parameters) (settings, error) {
	s := settings{
		title:          p.Title,
		slideLayout:    SlideLayout{Index: defaultSlideLayoutIndex},
		contentLayout:  LayoutSpec{Name: LayoutGrid},
		content:        p.Content,
		groupedContent: p.GroupedContent,
		alignments:     p.ContentAlignment.Strings(),
		nColumns:       defaultNColumns,
		widthRatios:    p.WidthRatios,
		heightRatios:   p.HeightRatios,
		notes:          p.Notes.Strings(),
		split:          SplitOff(),
		showFilename:   box.FilenameOff,
		fillBy:         layout.FillByRow,
		pdfPages:       content.AllPages(),
		missingFile:    content.MissingRaise,
		emptySlide:     EmptySlideKeep,
	}

	if p.SlideLayout != nil {
		s.slideLayout = *p.SlideLayout
	}
	if p.ContentLayout != nil {
		s.contentLayout = *p.ContentLayout
	}
	if p.NColumns != nil {
		if *p.NColumns < 1 {
			return settings{}, fmt.Errorf("%w: n_columns must be at least 1", ErrInvalid)
		}
		s.nColumns = *p.NColumns
	}
	if p.Split != nil {
		s.split = *p.Split
	}
	if p.ShowFilename != nil {
		s.showFilename = p.ShowFilename.Mode()
	}
	if p.RemovePlaceholders != nil {
		s.removePlaceholders = *p.RemovePlaceholders
	}
	if p.FontSize != nil {
		if *p.FontSize <= 0 {
			return settings{}, fmt.Errorf("%w: fontsize must be positive", ErrInvalid)
		}
		s.fontSize = *p.FontSize
	}
	if p.PDFPages != nil {
		s.pdfPages = p.PDFPages.Selection()
	}
	if p.MissingFile != nil {
		s.missingFile = content.MissingFilePolicy(*p.MissingFile)
	}
	if err := content.ValidateMissingFilePolicy(s.missingFile); err != nil {
		return settings{}, err
	}
	if p.EmptySlide != nil {
		s.emptySlide = *p.EmptySlide
	}
	if s.emptySlide != EmptySlideKeep && s.emptySlide != EmptySlideSkip {
		return settings{}, fmt.Errorf("%w: empty_slide must be %q or %q, got %q",
			ErrInvalid, EmptySlideKeep, EmptySlideSkip, s.emptySlide)
	}
	if p.FillBy != nil {
		s.fillBy = layout.FillOrder(*p.FillBy)
	}
	if err := layout.ValidateFillOrder(s.fillBy); err != nil {
		return settings{}, err
	}
	if p.FilenameAlignment != nil {
		h, err := box.ParseHAlign(*p.FilenameAlignment)
		if err != nil {
			return settings{}, err
		}
		s.filenameAlignment = h
	} else {
		s.filenameAlignment = box.HCenter
	}

	// Every alignment entry must parse, even ones beyond the box count.
	for _, a := range s.alignments {
		if _, err := box.ParseAlignment(a); err != nil {
			return settings{}, err
		}
	}

	margins, err := resolveMargins(p)
	if err != nil {
		return settings{}, err
	}
	s.margins = margins

	return s, nil
}

// resolveMargins converts the centimeter margin parameters into EMU, with
// per-side margins defaulting to the outer margin.
func resolveMargins(p Parameters) (layout.Margins, error) {
	outer := defaultOuterMarginCm
	if p.OuterMargin != nil {
		outer = *p.OuterMargin
	}
	inner := defaultInnerMarginCm
	if p.InnerMargin != nil {
		inner = *p.InnerMargin
	}

	side := func(v *float64) float64 {
		if v != nil {
			return *v
		}
		return outer
	}

	m := layout.Margins{
		Left:   cm(side(p.LeftMargin)),
		Right:  cm(side(p.RightMargin)),
		Top:    cm(side(p.TopMargin)),
		Bottom: cm(side(p.BottomMargin)),
		Inner:  cm(inner),
	}
	if err := m.Validate(); err != nil {
		return layout.Margins{}, err
	}
	return m, nil
}
