package fonts

import (
	"errors"
	"strings"
	"testing"

	"github.com/deckgrid/deckgrid/pkg/units"
)

func loadOrSkip(t *testing.T) *Fitter {
	t.Helper()
	f, err := Load()
	if err != nil {
		t.Skipf("no system font available: %v", err)
	}
	return f
}

func TestFitShortTextGetsMaxSize(t *testing.T) {
	f := loadOrSkip(t)
	size, err := f.Fit("hello", units.Cm(20), units.Cm(10), 6, 18)
	if err != nil {
		t.Fatalf("Fit() error: %v", err)
	}
	if size != 18 {
		t.Errorf("size = %v, want max size for short text in a large box", size)
	}
}

func TestFitLongTextShrinks(t *testing.T) {
	f := loadOrSkip(t)
	long := strings.Repeat("the quick brown fox jumps over the lazy dog ", 40)

	small, err := f.Fit(long, units.Cm(8), units.Cm(4), 6, 18)
	if err != nil {
		t.Fatalf("Fit() error: %v", err)
	}
	large, err := f.Fit(long, units.Cm(30), units.Cm(20), 6, 18)
	if err != nil {
		t.Fatalf("Fit() error: %v", err)
	}
	if small > large {
		t.Errorf("smaller box fitted %v, larger box %v; want monotonic", small, large)
	}
	if small < 6 || small > 18 {
		t.Errorf("size %v out of range", small)
	}
}

func TestFitOverfullReturnsMin(t *testing.T) {
	// Far too much text for the box still yields the minimum size rather
	// than an error, as long as every word fits horizontally.
	f := loadOrSkip(t)
	long := strings.Repeat("word ", 2000)
	size, err := f.Fit(long, units.Cm(10), units.Cm(1), 6, 18)
	if err != nil {
		t.Fatalf("Fit() error: %v", err)
	}
	if size != 6 {
		t.Errorf("size = %v, want minimum", size)
	}
}

func TestFitUnbreakableWord(t *testing.T) {
	f := loadOrSkip(t)
	word := strings.Repeat("x", 400)
	_, err := f.Fit(word, units.Cm(5), units.Cm(5), 6, 18)
	if !errors.Is(err, ErrWordTooWide) {
		t.Errorf("Fit() error = %v, want ErrWordTooWide", err)
	}
}

func TestFitInvalidRange(t *testing.T) {
	f := loadOrSkip(t)
	if _, err := f.Fit("x", units.Cm(5), units.Cm(5), 18, 6); err == nil {
		t.Error("Fit() with inverted range expected error")
	}
}

func TestWrapLines(t *testing.T) {
	f := loadOrSkip(t)
	lines := f.WrapLines("alpha beta gamma delta epsilon", units.Cm(3), 12)
	if len(lines) < 2 {
		t.Errorf("WrapLines() = %v, want wrapping in a narrow box", lines)
	}
	joined := strings.Join(lines, " ")
	if joined != "alpha beta gamma delta epsilon" {
		t.Errorf("wrapped text lost words: %q", joined)
	}
}
