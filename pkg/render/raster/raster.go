package raster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/jung-kurt/gofpdf"

	"github.com/deckgrid/deckgrid/pkg/fonts"
	"github.com/deckgrid/deckgrid/pkg/report"
	"github.com/deckgrid/deckgrid/pkg/units"
)

// ErrInvalid is returned for unusable sink options.
var ErrInvalid = errors.New("invalid raster options")

// Vertical space reserved for slide titles.
const titleBand = units.EMU(2.5 * float64(units.PerCm))

// Drawing defaults.
const (
	defaultDPI     = 150.0
	defaultBase    = "slide"
	titleSizePt    = 28.0
	defaultSizePt  = 12.0
	notesExtension = ".notes.txt"
)

// Options configures a raster sink.
type Options struct {
	// OutDir receives the slide images. Required; created if missing.
	OutDir string

	// BaseName prefixes the slide image files. Defaults to "slide".
	BaseName string

	// Size is the page size. Defaults to report.DefaultSize().
	Size report.Size

	// DPI sets the raster resolution. Defaults to 150.
	DPI float64

	// Fonts supplies faces for text drawing. Required.
	Fonts *fonts.Fitter

	// PDFPath, when set, makes Finalize assemble the slide images into a
	// single PDF at this path.
	PDFPath string

	// Borders outlines every content box, for layout debugging.
	Borders bool

	// Logger receives progress output. Defaults to a discard logger.
	Logger *log.Logger
}

// Sink renders slides to PNG files. It implements report.Sink.
type Sink struct {
	opts   Options
	size   report.Size
	dpi    float64
	logger *log.Logger

	pages []string
}

var _ report.Sink = (*Sink)(nil)

// New creates a raster sink, creating the output directory if needed.
func New(opts Options) (*Sink, error) {
	if opts.OutDir == "" {
		return nil, fmt.Errorf("%w: an output directory is required", ErrInvalid)
	}
	if opts.Fonts == nil {
		return nil, fmt.Errorf("%w: a font fitter is required", ErrInvalid)
	}
	if opts.BaseName == "" {
		opts.BaseName = defaultBase
	}
	size := opts.Size
	if size == (report.Size{}) {
		size = report.DefaultSize()
	}
	dpi := opts.DPI
	if dpi == 0 {
		dpi = defaultDPI
	}
	if dpi < 0 {
		return nil, fmt.Errorf("%w: DPI must be positive, got %v", ErrInvalid, dpi)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %q: %w", opts.OutDir, err)
	}
	return &Sink{opts: opts, size: size, dpi: dpi, logger: logger}, nil
}

// PageSize returns the slide dimensions.
func (s *Sink) PageSize() report.Size { return s.size }

// TitleReserved returns the title band height.
func (s *Sink) TitleReserved() units.EMU { return titleBand }

// BeginSlide opens a fresh page canvas.
func (s *Sink) BeginSlide(opts report.SlideOptions) (report.SlideCanvas, error) {
	return newSlide(s, opts), nil
}

// EndSlide writes the slide image and its notes sidecar.
func (s *Sink) EndSlide(c report.SlideCanvas) error {
	sl, ok := c.(*slide)
	if !ok {
		return fmt.Errorf("%w: foreign slide canvas %T", ErrInvalid, c)
	}

	path := filepath.Join(s.opts.OutDir, fmt.Sprintf("%s-%03d.png", s.opts.BaseName, len(s.pages)+1))
	if err := sl.save(path); err != nil {
		return err
	}
	s.pages = append(s.pages, path)
	s.logger.Debug("wrote slide", "path", path)

	if sl.notes != "" {
		notesPath := path[:len(path)-len(".png")] + notesExtension
		if err := os.WriteFile(notesPath, []byte(sl.notes+"\n"), 0o644); err != nil {
			return fmt.Errorf("write notes %q: %w", notesPath, err)
		}
	}
	return nil
}

// Pages returns the slide image paths written so far.
func (s *Sink) Pages() []string {
	out := make([]string, len(s.pages))
	copy(out, s.pages)
	return out
}

// Finalize assembles the slide images into a PDF when a PDF path is set.
func (s *Sink) Finalize(ctx context.Context) error {
	if s.opts.PDFPath == "" {
		return nil
	}
	if len(s.pages) == 0 {
		return fmt.Errorf("%w: no slides to assemble", ErrInvalid)
	}

	widthPt := s.size.Width.Pt()
	heightPt := s.size.Height.Pt()
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: widthPt, Ht: heightPt},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	for _, page := range s.pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc.AddPage()
		doc.ImageOptions(page, 0, 0, widthPt, heightPt, false,
			gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}
	if err := doc.OutputFileAndClose(s.opts.PDFPath); err != nil {
		// The slide images are already on disk; a failed PDF assembly
		// loses only the secondary output.
		s.logger.Warn("could not assemble pdf", "path", s.opts.PDFPath, "error", err)
		return nil
	}
	s.logger.Info("assembled pdf", "path", s.opts.PDFPath, "pages", len(s.pages))
	return nil
}
