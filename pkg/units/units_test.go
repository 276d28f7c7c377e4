package units

import "testing"

func TestConversions(t *testing.T) {
	tests := []struct {
		name string
		got  EMU
		want EMU
	}{
		{"one inch", Inch(1), 914400},
		{"one cm", Cm(1), 360000},
		{"one pt", Pt(1), 12700},
		{"two and a half cm", Cm(2.5), 900000},
		{"rounds to nearest", Cm(0.0000014), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	if got := Cm(3.7).Cm(); got != 3.7 {
		t.Errorf("Cm round trip = %g", got)
	}
	if got := Pt(18).Pt(); got != 18 {
		t.Errorf("Pt round trip = %g", got)
	}
}

func TestPixels(t *testing.T) {
	if got := Inch(2).Pixels(150); got != 300 {
		t.Errorf("2 inches at 150 DPI = %g px, want 300", got)
	}
	if got := PerInch.Pixels(72); got != 72 {
		t.Errorf("1 inch at 72 DPI = %g px, want 72", got)
	}
}
