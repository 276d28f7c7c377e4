// Package fonts locates system fonts and measures text against slide
// rectangles to pick font sizes.
package fonts

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/deckgrid/deckgrid/pkg/units"
)

// ErrWordTooWide is returned by Fit when a single unbreakable word exceeds
// the box width even at the minimum size.
var ErrWordTooWide = errors.New("word too wide for box")

// Candidate font files tried in order when no explicit name is given.
var defaultCandidates = []string{
	"OpenSans-Regular.ttf",
	"DejaVuSans.ttf",
	"Arial.ttf",
	"Calibri.ttf",
	"LiberationSans-Regular.ttf",
}

// Line spacing as a multiple of the font size.
const lineSpacing = 1.2

// Fitting walks sizes in steps of this many points.
const fitStepPt = 0.5

// Fitter measures text with a real system font. Faces are cached per size.
// Safe for concurrent use.
type Fitter struct {
	font *truetype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// Load locates and parses a measuring font. With no names it walks a list
// of common sans-serif fonts and uses the first one installed.
func Load(names ...string) (*Fitter, error) {
	if len(names) == 0 {
		names = defaultCandidates
	}
	var lastErr error
	for _, name := range names {
		path, err := findfont.Find(name)
		if err != nil {
			lastErr = err
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			lastErr = err
			continue
		}
		ft, err := truetype.Parse(data)
		if err != nil {
			lastErr = fmt.Errorf("parse font %q: %w", path, err)
			continue
		}
		return &Fitter{font: ft, faces: map[float64]font.Face{}}, nil
	}
	return nil, fmt.Errorf("no measuring font found (tried %s): %w", strings.Join(names, ", "), lastErr)
}

// FromData parses font bytes directly, bypassing the system lookup.
func FromData(data []byte) (*Fitter, error) {
	ft, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font data: %w", err)
	}
	return &Fitter{font: ft, faces: map[float64]font.Face{}}, nil
}

// face returns a cached face for the size, at 72 DPI so pixels equal points.
func (f *Fitter) face(sizePt float64) font.Face {
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[sizePt]; ok {
		return face
	}
	face := truetype.NewFace(f.font, &truetype.Options{Size: sizePt, DPI: 72})
	f.faces[sizePt] = face
	return face
}

// Face exposes a cached face for rendering at the given size.
func (f *Fitter) Face(sizePt float64) font.Face { return f.face(sizePt) }

// Fit returns the largest size in [minPt, maxPt] at which the text wraps
// into the rectangle. When even minPt overflows vertically it returns minPt
// anyway; overly small text beats an error. It fails only when a single
// word is wider than the box at minPt, which wrapping cannot cure.
func (f *Fitter) Fit(text string, width, height units.EMU, minPt, maxPt float64) (float64, error) {
	if minPt <= 0 || maxPt < minPt {
		return 0, fmt.Errorf("invalid size range [%v, %v]", minPt, maxPt)
	}
	widthPt := width.Pt()
	heightPt := height.Pt()

	for size := maxPt; size >= minPt; size -= fitStepPt {
		h, err := f.wrappedHeight(text, widthPt, size)
		if err != nil {
			continue
		}
		if h <= heightPt {
			return size, nil
		}
	}

	// Nothing fit. Distinguish a tall text (usable at minPt) from an
	// unbreakable word (not usable at any size).
	if _, err := f.wrappedHeight(text, widthPt, minPt); err != nil {
		return 0, err
	}
	return minPt, nil
}

// WrapLines word-wraps text to the width at the given size, for sinks that
// draw line by line.
func (f *Fitter) WrapLines(text string, width units.EMU, sizePt float64) []string {
	ctx := gg.NewContext(1, 1)
	ctx.SetFontFace(f.face(sizePt))
	widthPt := width.Pt()

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if w, _ := ctx.MeasureString(candidate); w > widthPt && line != "" {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

// wrappedHeight word-wraps the text at the given size and returns the total
// height in points. ErrWordTooWide when a word alone exceeds the width.
func (f *Fitter) wrappedHeight(text string, widthPt, sizePt float64) (float64, error) {
	ctx := gg.NewContext(1, 1)
	ctx.SetFontFace(f.face(sizePt))

	lineHeight := sizePt * lineSpacing
	lines := 0
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines++
			continue
		}
		line := ""
		for _, word := range words {
			w, _ := ctx.MeasureString(word)
			if w > widthPt {
				return 0, fmt.Errorf("%w: %q needs %.0fpt at size %v", ErrWordTooWide, word, w, sizePt)
			}
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if cw, _ := ctx.MeasureString(candidate); cw > widthPt {
				lines++
				line = word
				continue
			}
			line = candidate
		}
		lines++
	}
	return float64(lines) * lineHeight, nil
}
