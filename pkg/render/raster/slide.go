package raster

import (
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/deckgrid/deckgrid/pkg/box"
	"github.com/deckgrid/deckgrid/pkg/layout"
	"github.com/deckgrid/deckgrid/pkg/report"
	"github.com/deckgrid/deckgrid/pkg/units"
)

// slide is one open page canvas.
type slide struct {
	sink  *Sink
	dc    *gg.Context
	opts  report.SlideOptions
	notes string
}

var _ report.SlideCanvas = (*slide)(nil)

func newSlide(s *Sink, opts report.SlideOptions) *slide {
	w := int(s.size.Width.Pixels(s.dpi))
	h := int(s.size.Height.Pixels(s.dpi))
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	return &slide{sink: s, dc: dc, opts: opts}
}

// px converts an EMU length to canvas pixels.
func (sl *slide) px(e units.EMU) float64 { return e.Pixels(sl.sink.dpi) }

// AddPicture loads an image and composites it into the rectangle. The
// rectangle already has the final aspect-correct size, so plain resampling
// cannot distort.
func (sl *slide) AddPicture(path string, rect layout.Rect) error {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open image %q: %w", path, err)
	}
	w := int(sl.px(rect.Width))
	h := int(sl.px(rect.Height))
	if w < 1 || h < 1 {
		return fmt.Errorf("%w: rectangle too small for %q", ErrInvalid, path)
	}
	resized := imaging.Resize(img, w, h, imaging.Lanczos)
	sl.dc.DrawImage(resized, int(sl.px(rect.Left)), int(sl.px(rect.Top)))
	sl.drawBorder(rect)
	return nil
}

// AddTextBox word-wraps the frame's text and draws it line by line. Span
// styling collapses to plain text on the raster canvas; the measuring font
// carries no bold or italic variants.
func (sl *slide) AddTextBox(frame box.TextFrame) error {
	text := box.JoinSpans(frame.Spans)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	sizePt := frame.SizePt
	if sizePt <= 0 {
		sizePt = defaultSizePt
	}

	lines := sl.sink.opts.Fonts.WrapLines(text, frame.Rect.Width, sizePt)
	sizePx := sizePt * sl.sink.dpi / 72.0
	lineHeight := sizePx * 1.2
	blockHeight := lineHeight * float64(len(lines))

	top := sl.px(frame.Rect.Top)
	boxHeight := sl.px(frame.Rect.Height)
	switch frame.Anchor {
	case box.VCenter, "":
		top += (boxHeight - blockHeight) / 2
	case box.VLower:
		top += boxHeight - blockHeight
	}

	var x, ax float64
	switch frame.Align {
	case box.HLeft:
		x, ax = sl.px(frame.Rect.Left), 0
	case box.HRight:
		x, ax = sl.px(frame.Rect.Right()), 1
	default:
		x, ax = sl.px(frame.Rect.Left)+sl.px(frame.Rect.Width)/2, 0.5
	}

	sl.dc.SetFontFace(sl.sink.opts.Fonts.Face(sizePx))
	sl.dc.SetRGB(0, 0, 0)
	for i, line := range lines {
		if line == "" {
			continue
		}
		y := top + lineHeight*(float64(i)+0.5)
		sl.dc.DrawStringAnchored(line, x, y, ax, 0.4)
	}
	sl.drawBorder(frame.Rect)
	return nil
}

// drawBorder outlines a box rectangle when border drawing is enabled.
func (sl *slide) drawBorder(rect layout.Rect) {
	if !sl.sink.opts.Borders {
		return
	}
	sl.dc.SetRGB(0.3, 0.3, 0.3)
	sl.dc.SetLineWidth(1)
	sl.dc.DrawRectangle(sl.px(rect.Left), sl.px(rect.Top), sl.px(rect.Width), sl.px(rect.Height))
	sl.dc.Stroke()
}

// SetTitle draws the slide title centered in the title band.
func (sl *slide) SetTitle(text string) error {
	if text == "" {
		return nil
	}
	sizePx := titleSizePt * sl.sink.dpi / 72.0
	sl.dc.SetFontFace(sl.sink.opts.Fonts.Face(sizePx))
	sl.dc.SetRGB(0, 0, 0)
	sl.dc.DrawStringAnchored(text, float64(sl.dc.Width())/2, sl.px(titleBand)/2, 0.5, 0.4)

	if !sl.opts.RemovePlaceholders {
		// A thin rule separates the title band from the content area.
		y := sl.px(titleBand) * 0.9
		sl.dc.SetRGB(0.8, 0.8, 0.8)
		sl.dc.SetLineWidth(1)
		sl.dc.DrawLine(float64(sl.dc.Width())/10, y, float64(sl.dc.Width())*9/10, y)
		sl.dc.Stroke()
	}
	return nil
}

// SetNotes stores speaker notes for the sidecar file.
func (sl *slide) SetNotes(text string) error {
	sl.notes = text
	return nil
}

// save writes the canvas as PNG.
func (sl *slide) save(path string) error {
	if err := imaging.Save(sl.dc.Image(), path); err != nil {
		return fmt.Errorf("write slide %q: %w", path, err)
	}
	return nil
}
