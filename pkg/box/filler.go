package box

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/deckgrid/deckgrid/pkg/content"
	"github.com/deckgrid/deckgrid/pkg/layout"
	"github.com/deckgrid/deckgrid/pkg/units"
)

// ====================================================================
// Errors
// ====================================================================

// Sentinel errors for box filling.
var (
	// ErrInvalid is returned for bad styles (unknown alignment, filename
	// mode, or font size).
	ErrInvalid = errors.New("invalid box style")

	// ErrNoFit is returned when text cannot be made to fit its rectangle
	// even after splitting overlong words.
	ErrNoFit = errors.New("text does not fit")
)

// ====================================================================
// Canvas and oracles
// ====================================================================

// Canvas is the drawing surface for one slide. Sinks implement it; the
// filler only ever issues these two calls.
type Canvas interface {
	// AddPicture places an image file into the given rectangle. The
	// rectangle already has the final position and size; the canvas must
	// not rescale.
	AddPicture(path string, rect layout.Rect) error

	// AddTextBox places a text frame.
	AddTextBox(frame TextFrame) error
}

// TextFrame is one positioned run of styled text.
type TextFrame struct {
	Rect   layout.Rect
	Spans  []Span
	Font   string
	SizePt float64 // 0 lets the canvas pick its default
	Anchor VAlign
	Align  HAlign
}

// ImageProber reads the pixel dimensions of an image file.
type ImageProber interface {
	Probe(path string) (width, height int, err error)
}

// TextFitter picks the largest font size in [minPt, maxPt] at which text
// wraps into a rectangle. When no size fits vertically it returns minPt;
// it returns an error only when an unbreakable word exceeds the width even
// at minPt.
type TextFitter interface {
	Fit(text string, width, height units.EMU, minPt, maxPt float64) (float64, error)
}

// PageRasterizer renders a single PDF page to PNG bytes.
type PageRasterizer interface {
	RenderPage(path string, page int, dpi float64) ([]byte, error)
}

// ====================================================================
// Filename display
// ====================================================================

// FilenameMode selects how a file-backed box labels its source.
type FilenameMode string

// Filename modes.
const (
	FilenameOff     FilenameMode = ""
	FilenameBase    FilenameMode = "filename"     // base name without extension
	FilenameBaseExt FilenameMode = "filename_ext" // base name with extension
	FilenamePath    FilenameMode = "filepath"     // full path without extension
	FilenamePathExt FilenameMode = "filepath_ext" // full path with extension
	FilenameDir     FilenameMode = "path"         // directory only
)

// ValidateFilenameMode checks that a mode is valid.
func ValidateFilenameMode(m FilenameMode) error {
	switch m {
	case FilenameOff, FilenameBase, FilenameBaseExt, FilenamePath, FilenamePathExt, FilenameDir:
		return nil
	}
	return fmt.Errorf("%w: unknown filename mode %q", ErrInvalid, m)
}

// FilenameLabel formats a source path per the mode. Empty for FilenameOff.
func FilenameLabel(path string, mode FilenameMode) string {
	switch mode {
	case FilenameBase:
		return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	case FilenameBaseExt:
		return filepath.Base(path)
	case FilenamePath:
		return strings.TrimSuffix(path, filepath.Ext(path))
	case FilenamePathExt:
		return path
	case FilenameDir:
		return filepath.Dir(path)
	}
	return ""
}

// ====================================================================
// Filler
// ====================================================================

// Minimum height of the filename band above pictures.
const minFilenameBand units.EMU = 290000

// Font size bounds for automatic text fitting, in points.
const (
	minAutoFontPt = 6
	maxAutoFontPt = 18
)

// Overlong words are split into chunks of this many runes before refitting,
// then halved down to chunks of 5 before giving up.
const splitChunkLen = 20

// defaultFont is applied to all text the filler places.
const defaultFont = "Calibri"

// Style controls how one box renders its item.
type Style struct {
	// Alignment positions images inside the rectangle and sets the text
	// anchor and justification.
	Alignment Alignment

	// FontSizePt fixes the text size in points. Zero enables fitting.
	FontSizePt float64

	// ShowFilename labels file-backed boxes with their source.
	ShowFilename FilenameMode

	// FilenameAlignment justifies the filename label. Horizontal only.
	FilenameAlignment HAlign
}

// Validate checks the style.
func (s Style) Validate() error {
	if s.FontSizePt < 0 {
		return fmt.Errorf("%w: font size must not be negative", ErrInvalid)
	}
	return ValidateFilenameMode(s.ShowFilename)
}

// Options configures a Filler.
type Options struct {
	Prober     ImageProber
	Fitter     TextFitter
	Rasterizer PageRasterizer

	// DPI used when rasterizing PDF pages. Defaults to 300.
	DPI float64

	// TempDir receives intermediate page rasters. Defaults to os.TempDir.
	TempDir string

	Logger *log.Logger
}

// Filler places resolved items into their planned rectangles.
type Filler struct {
	opts Options
}

// NewFiller creates a filler. Prober is required; Fitter is required only
// when text will be fitted; Rasterizer only when PDFs occur.
func NewFiller(opts Options) (*Filler, error) {
	if opts.Prober == nil {
		return nil, fmt.Errorf("%w: an image prober is required", ErrInvalid)
	}
	if opts.DPI <= 0 {
		opts.DPI = 300
	}
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Filler{opts: opts}, nil
}

// Fill renders one item into its rectangle. Empty items draw nothing.
func (f *Filler) Fill(canvas Canvas, item content.Item, rect layout.Rect, style Style) error {
	if err := style.Validate(); err != nil {
		return err
	}
	switch item.Kind {
	case content.KindEmpty:
		return nil
	case content.KindText:
		return f.fillText(canvas, item.Text, rect, style)
	case content.KindTextFile:
		data, err := os.ReadFile(item.Path)
		if err != nil {
			return fmt.Errorf("read text file %q: %w", item.Path, err)
		}
		return f.fillText(canvas, string(data), rect, style)
	case content.KindImage:
		return f.fillImage(canvas, item.Path, item.Path, rect, style)
	case content.KindPDFPage:
		return f.fillPDFPage(canvas, item, rect, style)
	}
	return fmt.Errorf("%w: unknown item kind %v", ErrInvalid, item.Kind)
}

// ====================================================================
// Images
// ====================================================================

// fillImage aspect-fits the picture at path into rect, labelled with source.
// The two differ for rasterized PDF pages, where the label names the PDF.
func (f *Filler) fillImage(canvas Canvas, path, source string, rect layout.Rect, style Style) error {
	area := rect
	var band units.EMU
	if style.ShowFilename != FilenameOff {
		band = rect.Height / 10
		if band < minFilenameBand {
			band = minFilenameBand
		}
		area.Top += band
		area.Height -= band
		if area.Height <= 0 {
			return fmt.Errorf("%w: box too small for a filename band", ErrInvalid)
		}
	}

	imgW, imgH, err := f.opts.Prober.Probe(path)
	if err != nil {
		return fmt.Errorf("probe image %q: %w", path, err)
	}
	if imgW <= 0 || imgH <= 0 {
		return fmt.Errorf("%w: image %q has no pixels", ErrInvalid, path)
	}

	placed := fitRect(area, imgW, imgH, style.Alignment)
	if err := canvas.AddPicture(path, placed); err != nil {
		return fmt.Errorf("place image %q: %w", path, err)
	}

	if style.ShowFilename != FilenameOff {
		frame := TextFrame{
			Rect:   layout.Rect{Left: rect.Left, Top: rect.Top, Width: rect.Width, Height: band},
			Spans:  Plain(FilenameLabel(source, style.ShowFilename)),
			Font:   defaultFont,
			Anchor: VLower,
			Align:  style.FilenameAlignment,
		}
		if frame.Align == "" {
			frame.Align = HCenter
		}
		// A non-centered label tracks the picture so it hugs the same edge.
		if frame.Align != HCenter {
			frame.Rect.Left = placed.Left
			frame.Rect.Width = placed.Width
		}
		if err := canvas.AddTextBox(frame); err != nil {
			return fmt.Errorf("place filename label for %q: %w", source, err)
		}
	}
	return nil
}

// fitRect scales pixel dimensions into the area preserving aspect ratio and
// positions the result per the alignment.
func fitRect(area layout.Rect, imgW, imgH int, align Alignment) layout.Rect {
	scaleW := float64(area.Width) / float64(imgW)
	scaleH := float64(area.Height) / float64(imgH)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	w := units.EMU(float64(imgW) * scale)
	h := units.EMU(float64(imgH) * scale)

	left := area.Left
	switch align.Horizontal {
	case HCenter, "":
		left += (area.Width - w) / 2
	case HRight:
		left += area.Width - w
	}

	top := area.Top
	switch align.Vertical {
	case VCenter, "":
		top += (area.Height - h) / 2
	case VLower:
		top += area.Height - h
	}

	return layout.Rect{Left: left, Top: top, Width: w, Height: h}
}

// ====================================================================
// Text
// ====================================================================

func (f *Filler) fillText(canvas Canvas, text string, rect layout.Rect, style Style) error {
	size := style.FontSizePt
	if size == 0 {
		fitted, fittedText, err := f.fitWithSplitting(text, rect)
		if err != nil {
			return err
		}
		size, text = fitted, fittedText
	}

	spans := Plain(text)
	if DetectMarkdown(text) {
		spans = ParseSpans(text)
	}

	frame := TextFrame{
		Rect:   rect,
		Spans:  spans,
		Font:   defaultFont,
		SizePt: size,
		Anchor: style.Alignment.Vertical,
		Align:  style.Alignment.Horizontal,
	}
	if frame.Anchor == "" {
		frame.Anchor = VCenter
	}
	if frame.Align == "" {
		frame.Align = HCenter
	}
	if err := canvas.AddTextBox(frame); err != nil {
		return fmt.Errorf("place text box: %w", err)
	}
	return nil
}

// fitWithSplitting measures the text, splitting overlong words into ever
// smaller chunks when the fitter cannot place them. The possibly rewritten
// text is returned alongside the size so rendering matches measurement.
func (f *Filler) fitWithSplitting(text string, rect layout.Rect) (float64, string, error) {
	if f.opts.Fitter == nil {
		return 0, "", fmt.Errorf("%w: automatic font sizing requires a text fitter", ErrInvalid)
	}

	size, err := f.opts.Fitter.Fit(text, rect.Width, rect.Height, minAutoFontPt, maxAutoFontPt)
	if err == nil {
		return clampPt(size), text, nil
	}

	for chunk := splitChunkLen; chunk >= 5; chunk /= 2 {
		split := splitLongWords(text, chunk)
		size, err = f.opts.Fitter.Fit(split, rect.Width, rect.Height, minAutoFontPt, maxAutoFontPt)
		if err == nil {
			f.opts.Logger.Debugf("split words longer than %d characters to fit text box", chunk)
			return clampPt(size), split, nil
		}
	}
	return 0, "", fmt.Errorf("%w: %v", ErrNoFit, err)
}

func clampPt(size float64) float64 {
	if size < minAutoFontPt {
		return minAutoFontPt
	}
	if size > maxAutoFontPt {
		return maxAutoFontPt
	}
	return size
}

// splitLongWords inserts spaces into words longer than chunk runes.
func splitLongWords(text string, chunk int) string {
	words := strings.Fields(text)
	for i, w := range words {
		runes := []rune(w)
		if len(runes) <= chunk {
			continue
		}
		var parts []string
		for len(runes) > chunk {
			parts = append(parts, string(runes[:chunk]))
			runes = runes[chunk:]
		}
		if len(runes) > 0 {
			parts = append(parts, string(runes))
		}
		words[i] = strings.Join(parts, " ")
	}
	return strings.Join(words, " ")
}

// ====================================================================
// PDF pages
// ====================================================================

// fillPDFPage rasterizes the page to a temporary PNG and places it like an
// image. The temporary file is removed before returning.
func (f *Filler) fillPDFPage(canvas Canvas, item content.Item, rect layout.Rect, style Style) error {
	if f.opts.Rasterizer == nil {
		return fmt.Errorf("%w: placing PDF pages requires a rasterizer", ErrInvalid)
	}

	png, err := f.opts.Rasterizer.RenderPage(item.Path, item.Page, f.opts.DPI)
	if err != nil {
		return fmt.Errorf("rasterize page %d of %q: %w", item.Page, item.Path, err)
	}

	tmp := filepath.Join(f.opts.TempDir, "deckgrid-"+uuid.NewString()+".png")
	if err := os.WriteFile(tmp, png, 0o600); err != nil {
		return fmt.Errorf("write page raster: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp); err != nil {
			f.opts.Logger.Warnf("could not remove page raster %s: %v", tmp, err)
		}
	}()

	return f.fillImage(canvas, tmp, item.Path, rect, style)
}
