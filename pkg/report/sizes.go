package report

import (
	"encoding/json"
	"fmt"

	"github.com/deckgrid/deckgrid/pkg/units"
)

func cm(v float64) units.EMU { return units.Cm(v) }

// Size is a slide page size.
type Size struct {
	Width  units.EMU
	Height units.EMU
}

// Size preset names.
const (
	SizeStandard    = "standard"
	SizeWidescreen  = "widescreen"
	SizeA4Portrait  = "a4-portrait"
	SizeA4Landscape = "a4-landscape"
)

// Preset page sizes. Dimensions follow the common presentation formats.
var presets = map[string]Size{
	SizeStandard:    {Width: cm(25.4), Height: cm(19.05)},
	SizeWidescreen:  {Width: cm(33.867), Height: cm(19.05)},
	SizeA4Portrait:  {Width: cm(19.05), Height: cm(27.517)},
	SizeA4Landscape: {Width: cm(27.517), Height: cm(19.05)},
}

// DefaultSize is used when no size is configured.
func DefaultSize() Size { return presets[SizeStandard] }

// SizeSpec selects a page size: a preset name or a custom
// [height, width] pair in centimeters.
type SizeSpec struct {
	Preset string
	Custom *Size
}

// Resolve returns the concrete size.
func (s SizeSpec) Resolve() (Size, error) {
	if s.Custom != nil {
		if s.Custom.Width <= 0 || s.Custom.Height <= 0 {
			return Size{}, fmt.Errorf("%w: slide dimensions must be positive", ErrInvalid)
		}
		return *s.Custom, nil
	}
	if s.Preset == "" {
		return DefaultSize(), nil
	}
	size, ok := presets[s.Preset]
	if !ok {
		return Size{}, fmt.Errorf("%w: unknown slide size %q", ErrInvalid, s.Preset)
	}
	return size, nil
}

// IsZero reports whether the spec is unset.
func (s SizeSpec) IsZero() bool { return s.Preset == "" && s.Custom == nil }

// UnmarshalJSON implements json.Unmarshaler.
func (s *SizeSpec) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if _, ok := presets[name]; !ok {
			return fmt.Errorf("%w: unknown slide size %q", ErrInvalid, name)
		}
		*s = SizeSpec{Preset: name}
		return nil
	}
	var dims []float64
	if err := json.Unmarshal(data, &dims); err != nil || len(dims) != 2 {
		return fmt.Errorf("%w: size must be a preset name or [height, width] in cm", ErrInvalid)
	}
	*s = SizeSpec{Custom: &Size{Height: cm(dims[0]), Width: cm(dims[1])}}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s SizeSpec) MarshalJSON() ([]byte, error) {
	if s.Custom != nil {
		return json.Marshal([]float64{s.Custom.Height.Cm(), s.Custom.Width.Cm()})
	}
	if s.Preset == "" {
		return json.Marshal(SizeStandard)
	}
	return json.Marshal(s.Preset)
}
