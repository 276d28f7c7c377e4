package box

import (
	"errors"
	"testing"
)

func TestParseAlignment(t *testing.T) {
	tests := []struct {
		in      string
		want    Alignment
		wantErr bool
	}{
		{in: "center", want: Centered()},
		{in: "", want: Centered()},
		{in: "left", want: Alignment{Vertical: VCenter, Horizontal: HLeft}},
		{in: "right", want: Alignment{Vertical: VCenter, Horizontal: HRight}},
		{in: "upper", want: Alignment{Vertical: VUpper, Horizontal: HCenter}},
		{in: "lower", want: Alignment{Vertical: VLower, Horizontal: HCenter}},
		{in: "upper left", want: Alignment{Vertical: VUpper, Horizontal: HLeft}},
		{in: "lower right", want: Alignment{Vertical: VLower, Horizontal: HRight}},
		{in: "center center", want: Centered()},
		{in: "UPPER Right", want: Alignment{Vertical: VUpper, Horizontal: HRight}},
		{in: "left upper", wantErr: true},
		{in: "middle", wantErr: true},
		{in: "upper left lower", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlignment(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("ParseAlignment(%q) error = %v, want ErrInvalid", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAlignment(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseAlignment(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAlignmentFor(t *testing.T) {
	list := []string{"upper left", "lower"}

	a, err := AlignmentFor(list, 0)
	if err != nil || a != (Alignment{Vertical: VUpper, Horizontal: HLeft}) {
		t.Errorf("AlignmentFor(0) = %+v, %v", a, err)
	}

	// Out of range falls back to centered.
	a, err = AlignmentFor(list, 5)
	if err != nil || a != Centered() {
		t.Errorf("AlignmentFor(5) = %+v, %v, want centered", a, err)
	}
}

func TestParseHAlign(t *testing.T) {
	if h, err := ParseHAlign("left"); err != nil || h != HLeft {
		t.Errorf("ParseHAlign(left) = %q, %v", h, err)
	}
	if h, err := ParseHAlign(""); err != nil || h != HCenter {
		t.Errorf("ParseHAlign(empty) = %q, %v, want center", h, err)
	}
	if _, err := ParseHAlign("upper"); !errors.Is(err, ErrInvalid) {
		t.Errorf("ParseHAlign(upper) error = %v, want ErrInvalid", err)
	}
}
