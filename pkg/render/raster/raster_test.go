package raster

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/deckgrid/deckgrid/pkg/box"
	"github.com/deckgrid/deckgrid/pkg/fonts"
	"github.com/deckgrid/deckgrid/pkg/layout"
	"github.com/deckgrid/deckgrid/pkg/report"
	"github.com/deckgrid/deckgrid/pkg/units"
)

// loadFonts skips the test when no measuring font is installed.
func loadFonts(t *testing.T) *fonts.Fitter {
	t.Helper()
	f, err := fonts.Load()
	if err != nil {
		t.Skipf("no system font available: %v", err)
	}
	return f
}

func newTestSink(t *testing.T, opts Options) *Sink {
	t.Helper()
	if opts.OutDir == "" {
		opts.OutDir = t.TempDir()
	}
	if opts.Fonts == nil {
		opts.Fonts = loadFonts(t)
	}
	if opts.DPI == 0 {
		opts.DPI = 72
	}
	s, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// writeTestImage saves a solid-color PNG.
func writeTestImage(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	path := filepath.Join(dir, name)
	if err := imaging.Save(img, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewValidation(t *testing.T) {
	f := loadFonts(t)
	if _, err := New(Options{Fonts: f}); err == nil {
		t.Error("New() without output directory expected error")
	}
	if _, err := New(Options{OutDir: t.TempDir()}); err == nil {
		t.Error("New() without fonts expected error")
	}
}

func TestEndSlideWritesImage(t *testing.T) {
	sink := newTestSink(t, Options{})

	canvas, err := sink.BeginSlide(report.SlideOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if err := canvas.SetTitle("Hello"); err != nil {
		t.Fatal(err)
	}
	if err := sink.EndSlide(canvas); err != nil {
		t.Fatal(err)
	}

	pages := sink.Pages()
	if len(pages) != 1 {
		t.Fatalf("Pages() = %v", pages)
	}
	file, err := os.Open(pages[0])
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		t.Fatal(err)
	}

	// At 72 DPI a standard 10 inch slide is 720 pixels wide.
	wantW := int(sink.PageSize().Width.Pixels(72))
	wantH := int(sink.PageSize().Height.Pixels(72))
	if cfg.Width != wantW || cfg.Height != wantH {
		t.Errorf("image %dx%d, want %dx%d", cfg.Width, cfg.Height, wantW, wantH)
	}
}

func TestAddPictureDrawsPixels(t *testing.T) {
	dir := t.TempDir()
	img := writeTestImage(t, dir, "red.png", 40, 40)

	sink := newTestSink(t, Options{})
	canvas, err := sink.BeginSlide(report.SlideOptions{})
	if err != nil {
		t.Fatal(err)
	}
	rect := layout.Rect{
		Left: units.Cm(2), Top: units.Cm(2),
		Width: units.Cm(4), Height: units.Cm(4),
	}
	if err := canvas.AddPicture(img, rect); err != nil {
		t.Fatal(err)
	}

	sl := canvas.(*slide)
	cx := int(rect.Left.Pixels(72) + rect.Width.Pixels(72)/2)
	cy := int(rect.Top.Pixels(72) + rect.Height.Pixels(72)/2)
	r, _, _, _ := sl.dc.Image().At(cx, cy).RGBA()
	if r>>8 < 150 {
		t.Errorf("pixel at picture center not red: r=%d", r>>8)
	}
	outside, _, _, _ := sl.dc.Image().At(5, 5).RGBA()
	if outside>>8 != 255 {
		t.Errorf("pixel outside picture not white: r=%d", outside>>8)
	}
}

func TestAddPictureMissingFile(t *testing.T) {
	sink := newTestSink(t, Options{})
	canvas, err := sink.BeginSlide(report.SlideOptions{})
	if err != nil {
		t.Fatal(err)
	}
	rect := layout.Rect{Width: units.Cm(4), Height: units.Cm(4)}
	if err := canvas.AddPicture(filepath.Join(t.TempDir(), "absent.png"), rect); err == nil {
		t.Error("AddPicture() with missing file expected error")
	}
}

func TestAddTextBoxDrawsInk(t *testing.T) {
	sink := newTestSink(t, Options{})
	canvas, err := sink.BeginSlide(report.SlideOptions{})
	if err != nil {
		t.Fatal(err)
	}
	frame := box.TextFrame{
		Rect: layout.Rect{
			Left: units.Cm(2), Top: units.Cm(2),
			Width: units.Cm(10), Height: units.Cm(5),
		},
		Spans:  box.Plain("several words of body text"),
		SizePt: 18,
		Anchor: box.VCenter,
		Align:  box.HCenter,
	}
	if err := canvas.AddTextBox(frame); err != nil {
		t.Fatal(err)
	}

	// Some pixel inside the box turned dark.
	sl := canvas.(*slide)
	img := sl.dc.Image()
	dark := false
	for y := int(frame.Rect.Top.Pixels(72)); y < int(frame.Rect.Bottom().Pixels(72)); y += 2 {
		for x := int(frame.Rect.Left.Pixels(72)); x < int(frame.Rect.Right().Pixels(72)); x += 2 {
			r, _, _, _ := img.At(x, y).RGBA()
			if r>>8 < 100 {
				dark = true
			}
		}
	}
	if !dark {
		t.Error("no ink inside the text rectangle")
	}
}

func TestBordersOutlineBoxes(t *testing.T) {
	sink := newTestSink(t, Options{Borders: true})
	canvas, err := sink.BeginSlide(report.SlideOptions{})
	if err != nil {
		t.Fatal(err)
	}
	frame := box.TextFrame{
		Rect: layout.Rect{
			Left: units.Inch(1), Top: units.Inch(1),
			Width: units.Inch(2), Height: units.Inch(1),
		},
		Spans:  box.Plain("x"),
		SizePt: 10,
	}
	if err := canvas.AddTextBox(frame); err != nil {
		t.Fatal(err)
	}

	// The top edge of the box carries the outline stroke.
	sl := canvas.(*slide)
	img := sl.dc.Image()
	ex := int(frame.Rect.Left.Pixels(72) + frame.Rect.Width.Pixels(72)/2)
	ey := int(frame.Rect.Top.Pixels(72))
	stroked := false
	for dy := -1; dy <= 1; dy++ {
		r, _, _, _ := img.At(ex, ey+dy).RGBA()
		if r>>8 < 200 {
			stroked = true
		}
	}
	if !stroked {
		t.Error("no outline on the box edge")
	}
}

func TestNotesSidecar(t *testing.T) {
	dir := t.TempDir()
	sink := newTestSink(t, Options{OutDir: dir})

	canvas, err := sink.BeginSlide(report.SlideOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if err := canvas.SetNotes("remember the appendix"); err != nil {
		t.Fatal(err)
	}
	if err := sink.EndSlide(canvas); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "slide-001.notes.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "remember the appendix" {
		t.Errorf("notes = %q", data)
	}
}

func TestFinalizeAssemblesPDF(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "deck.pdf")
	sink := newTestSink(t, Options{OutDir: dir, PDFPath: pdfPath})

	for i := 0; i < 2; i++ {
		canvas, err := sink.BeginSlide(report.SlideOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if err := sink.EndSlide(canvas); err != nil {
			t.Fatal(err)
		}
	}
	if err := sink.Finalize(context.Background()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Errorf("output does not start with a PDF header: %q", data[:8])
	}
}

func TestFinalizeWithoutPDFPath(t *testing.T) {
	sink := newTestSink(t, Options{})
	if err := sink.Finalize(context.Background()); err != nil {
		t.Errorf("Finalize() without PDF path = %v", err)
	}
}

func TestProber(t *testing.T) {
	dir := t.TempDir()
	img := writeTestImage(t, dir, "probe.png", 64, 48)

	w, h, err := Prober{}.Probe(img)
	if err != nil {
		t.Fatal(err)
	}
	if w != 64 || h != 48 {
		t.Errorf("Probe() = %dx%d, want 64x48", w, h)
	}

	if _, _, err := (Prober{}).Probe(filepath.Join(dir, "absent.png")); err == nil {
		t.Error("Probe() with missing file expected error")
	}
}
