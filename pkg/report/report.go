// Package report assembles slide decks from declarative slide parameters.
//
// A Report is built slide by slide: each AddSlide call takes a set of
// [Parameters], resolves the content specification against the filesystem,
// plans a box layout, and fills the boxes through a [Sink]. The sink
// abstracts the output document; pkg/render/raster renders slides to
// images.
//
// # Pipeline position
//
// For every slide the report runs resolve → plan → fill:
//
//  1. Resolve: expand content globs and regex patterns into items
//     (pkg/content)
//  2. Plan: build the layout matrix and box rectangles (pkg/layout)
//  3. Fill: place each item into its rectangle (pkg/box)
//
// # Splitting and grouping
//
// With split enabled, resolved items are chunked across several slides.
// Grouped content is a separate input of regex patterns whose capture
// group pairs files into one slide per group, titled after the group
// unless a title is given; it cannot be combined with plain content and
// ignores the split setting.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/deckgrid/deckgrid/pkg/box"
	"github.com/deckgrid/deckgrid/pkg/content"
	"github.com/deckgrid/deckgrid/pkg/layout"
	"github.com/deckgrid/deckgrid/pkg/observability"
	"github.com/deckgrid/deckgrid/pkg/units"
)

// ErrInvalid is returned for unusable parameters or configurations.
var ErrInvalid = errors.New("invalid report parameters")

// ====================================================================
// Sink
// ====================================================================

// SlideOptions carry the document-level knobs for one slide.
type SlideOptions struct {
	// Layout selects the slide layout of the output document.
	Layout SlideLayout

	// RemovePlaceholders drops unfilled layout placeholders.
	RemovePlaceholders bool
}

// SlideCanvas is one open slide: the drawing surface plus the slide-level
// fields outside the content area.
type SlideCanvas interface {
	box.Canvas

	// SetTitle places the slide title.
	SetTitle(text string) error

	// SetNotes attaches speaker notes.
	SetNotes(text string) error
}

// Sink is the output document being assembled.
type Sink interface {
	// PageSize returns the slide dimensions.
	PageSize() Size

	// TitleReserved returns the vertical space a title occupies, added to
	// the top margin of titled slides.
	TitleReserved() units.EMU

	// BeginSlide opens a new slide.
	BeginSlide(opts SlideOptions) (SlideCanvas, error)

	// EndSlide commits an open slide.
	EndSlide(c SlideCanvas) error

	// Finalize writes the assembled document.
	Finalize(ctx context.Context) error
}

// ====================================================================
// Report
// ====================================================================

// Options configures a Report.
type Options struct {
	// Sink receives the assembled slides. Required.
	Sink Sink

	// Filler places resolved items into boxes. Required.
	Filler *box.Filler

	// Pages counts PDF pages during content resolution. Optional; without
	// it PDF content is an error.
	Pages content.PageCounter

	// Defaults are report-wide parameter defaults, overlaid on the
	// built-in defaults and overridden per slide.
	Defaults Parameters

	// Logger receives progress output. Defaults to a discard logger.
	Logger *log.Logger
}

// Report is a slide deck under construction.
type Report struct {
	sink     Sink
	filler   *box.Filler
	pages    content.PageCounter
	defaults Parameters
	logger   *log.Logger

	size       Size
	slideCount int
	added      []Parameters
	finalized  bool
}

// New creates an empty report.
func New(opts Options) (*Report, error) {
	if opts.Sink == nil {
		return nil, fmt.Errorf("%w: a sink is required", ErrInvalid)
	}
	if opts.Filler == nil {
		return nil, fmt.Errorf("%w: a filler is required", ErrInvalid)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	// Validate the defaults eagerly so bad report-wide settings surface at
	// construction, not on the first slide.
	if _, err := resolve(opts.Defaults); err != nil {
		return nil, err
	}

	return &Report{
		sink:     opts.Sink,
		filler:   opts.Filler,
		pages:    opts.Pages,
		defaults: opts.Defaults,
		logger:   logger,
		size:     opts.Sink.PageSize(),
	}, nil
}

// SlideCount returns the number of slides created so far.
func (r *Report) SlideCount() int { return r.slideCount }

// AddTitleSlide adds a slide holding only a title and an optional subtitle.
func (r *Report) AddTitleSlide(title, subtitle string) error {
	if r.finalized {
		return fmt.Errorf("%w: report already finalized", ErrInvalid)
	}

	canvas, err := r.sink.BeginSlide(SlideOptions{Layout: SlideLayout{Index: 0}})
	if err != nil {
		return err
	}
	if err := canvas.SetTitle(title); err != nil {
		return err
	}
	if subtitle != "" {
		// The subtitle sits in a band across the middle of the slide.
		frame := box.TextFrame{
			Rect: layout.Rect{
				Left:   r.size.Width / 8,
				Top:    r.size.Height / 2,
				Width:  r.size.Width * 3 / 4,
				Height: r.size.Height / 4,
			},
			Spans:  box.Plain(subtitle),
			Anchor: box.VUpper,
			Align:  box.HCenter,
		}
		if err := canvas.AddTextBox(frame); err != nil {
			return err
		}
	}
	if err := r.sink.EndSlide(canvas); err != nil {
		return err
	}
	r.slideCount++
	return nil
}

// AddSlide resolves the given parameters into one or more slides.
func (r *Report) AddSlide(p Parameters) error {
	if r.finalized {
		return fmt.Errorf("%w: report already finalized", ErrInvalid)
	}

	merged := Merge(r.defaults, p)
	if len(merged.Content) > 0 && len(merged.GroupedContent) > 0 {
		return fmt.Errorf("%w: content and grouped_content are mutually exclusive", ErrInvalid)
	}
	if merged.Split != nil && merged.Split.Enabled() &&
		len(merged.Content) == 0 && len(merged.GroupedContent) == 0 {
		return fmt.Errorf("%w: split is set but content is empty", ErrInvalid)
	}
	s, err := resolve(merged)
	if err != nil {
		return err
	}
	resolver, err := r.newResolver(s)
	if err != nil {
		return err
	}

	// Grouped content makes one slide per discovered group and ignores the
	// split setting.
	if len(s.groupedContent) > 0 {
		if err := r.addGroupedSlides(resolver, s); err != nil {
			return err
		}
		r.added = append(r.added, p)
		return nil
	}

	ctx := context.Background()
	start := time.Now()
	observability.Report().OnResolveStart(ctx, len(s.content))
	items, err := resolver.Resolve(s.content)
	observability.Report().OnResolveComplete(ctx, len(items), time.Since(start), err)
	if err != nil {
		return err
	}

	if !s.split.Enabled() || len(items) == 0 {
		if err := r.buildSlide(items, s, s.title); err != nil {
			return err
		}
		r.added = append(r.added, p)
		return nil
	}
	for start := 0; start < len(items); start += s.split.Chunk() {
		end := start + s.split.Chunk()
		if end > len(items) {
			end = len(items)
		}
		if err := r.buildSlide(items[start:end], s, s.title); err != nil {
			return err
		}
	}
	r.added = append(r.added, p)
	return nil
}

// addGroupedSlides pairs pattern matches by capture group and renders one
// slide per group.
func (r *Report) addGroupedSlides(resolver *content.Resolver, s settings) error {
	patterns := make([]string, 0, len(s.groupedContent))
	for _, e := range s.groupedContent {
		if e != nil {
			patterns = append(patterns, *e)
		}
	}

	groups, err := resolver.ResolveGrouped(patterns)
	if err != nil {
		return err
	}
	for _, g := range groups {
		items, err := resolver.Resolve(g.Entries)
		if err != nil {
			return err
		}
		title := s.title
		if title == nil {
			title = String("Group: " + g.Name)
		}
		if err := r.buildSlide(items, s, title); err != nil {
			return fmt.Errorf("group %q: %w", g.Name, err)
		}
	}
	return nil
}

// buildSlide plans and fills one slide from resolved items.
func (r *Report) buildSlide(items []content.Item, s settings, title *string) error {
	ctx := context.Background()
	start := time.Now()
	observability.Report().OnSlideStart(ctx, r.slideCount, len(items))

	err := r.buildSlideInner(items, s, title)
	observability.Report().OnSlideComplete(ctx, r.slideCount, time.Since(start), err)
	return err
}

func (r *Report) buildSlideInner(items []content.Item, s settings, title *string) error {
	empty := true
	for _, it := range items {
		if it.Kind != content.KindEmpty {
			empty = false
			break
		}
	}
	if empty && s.emptySlide == EmptySlideSkip {
		r.logger.Debug("skipping slide without content")
		return nil
	}

	var boxes map[int]layout.Rect
	if len(items) > 0 {
		m, padded, err := r.buildMatrix(items, s)
		if err != nil {
			return err
		}
		items = padded

		var reserved units.EMU
		if title != nil {
			reserved = r.sink.TitleReserved()
		}
		boxes, err = layout.Plan(m, layout.PlanOptions{
			SlideWidth:    r.size.Width,
			SlideHeight:   r.size.Height,
			Margins:       s.margins,
			WidthRatios:   s.widthRatios,
			HeightRatios:  s.heightRatios,
			TitleReserved: reserved,
			Logger:        r.logger,
		})
		if err != nil {
			return err
		}
	}

	canvas, err := r.sink.BeginSlide(SlideOptions{
		Layout:             s.slideLayout,
		RemovePlaceholders: s.removePlaceholders,
	})
	if err != nil {
		return err
	}
	if title != nil {
		if err := canvas.SetTitle(*title); err != nil {
			return err
		}
	}

	for idx, item := range items {
		align, err := alignFor(s.alignments, idx)
		if err != nil {
			return err
		}
		style := box.Style{
			Alignment:         align,
			FontSizePt:        s.fontSize,
			ShowFilename:      s.showFilename,
			FilenameAlignment: s.filenameAlignment,
		}
		if err := r.filler.Fill(canvas, item, boxes[idx], style); err != nil {
			return fmt.Errorf("box %d: %w", idx, err)
		}
	}

	if notes := r.joinNotes(s.notes); notes != "" {
		if err := canvas.SetNotes(notes); err != nil {
			return err
		}
	}
	if err := r.sink.EndSlide(canvas); err != nil {
		return err
	}
	r.slideCount++
	return nil
}

// buildMatrix constructs the layout matrix for the items, padding the item
// list with empty boxes when a custom matrix has spare positions.
func (r *Report) buildMatrix(items []content.Item, s settings) (layout.Matrix, []content.Item, error) {
	n := len(items)
	switch {
	case s.contentLayout.Matrix != nil:
		capacity := 0
		for _, row := range s.contentLayout.Matrix {
			for _, idx := range row {
				if idx+1 > capacity {
					capacity = idx + 1
				}
			}
		}
		if n > capacity {
			return nil, nil, fmt.Errorf("%w: custom layout has %d positions but content has %d items",
				ErrInvalid, capacity, n)
		}
		for len(items) < capacity {
			items = append(items, content.Empty())
		}
		m, err := layout.Custom(s.contentLayout.Matrix, capacity)
		return m, items, err
	case s.contentLayout.Name == LayoutVertical:
		m, err := layout.Vertical(n)
		return m, items, err
	case s.contentLayout.Name == LayoutHorizontal:
		m, err := layout.Horizontal(n)
		return m, items, err
	default:
		m, err := layout.Grid(n, s.nColumns, s.fillBy)
		return m, items, err
	}
}

// alignFor picks the alignment for box idx. A single entry broadcasts to
// every box; longer lists are indexed with a centered fallback.
func alignFor(alignments []string, idx int) (box.Alignment, error) {
	if len(alignments) == 1 {
		return box.ParseAlignment(alignments[0])
	}
	return box.AlignmentFor(alignments, idx)
}

// joinNotes concatenates note entries, reading entries that point at text
// files, with leading whitespace stripped per entry.
func (r *Report) joinNotes(notes []string) string {
	parts := make([]string, 0, len(notes))
	for _, n := range notes {
		text := n
		if info, err := os.Stat(n); err == nil && info.Mode().IsRegular() {
			if data, err := os.ReadFile(n); err == nil && utf8.Valid(data) {
				text = string(data)
			}
		}
		parts = append(parts, strings.TrimLeft(text, " \t\n"))
	}
	return strings.Join(parts, "\n")
}

// newResolver builds a content resolver for one slide's settings.
func (r *Report) newResolver(s settings) (*content.Resolver, error) {
	return content.NewResolver(content.Options{
		MissingFile: s.missingFile,
		PDFPages:    s.pdfPages,
		Pages:       r.pages,
		Logger:      r.logger,
	})
}

// Finalize writes the document through the sink. The report cannot be
// extended afterwards.
func (r *Report) Finalize(ctx context.Context) error {
	if r.finalized {
		return fmt.Errorf("%w: report already finalized", ErrInvalid)
	}
	start := time.Now()
	observability.Report().OnWriteStart(ctx, "deck", r.slideCount)
	err := r.sink.Finalize(ctx)
	observability.Report().OnWriteComplete(ctx, "deck", time.Since(start), err)
	if err != nil {
		return err
	}
	r.finalized = true
	return nil
}
