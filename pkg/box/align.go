package box

import (
	"fmt"
	"strings"
)

// VAlign is a vertical alignment token.
type VAlign string

// HAlign is a horizontal alignment token.
type HAlign string

// Alignment tokens.
const (
	VUpper  VAlign = "upper"
	VCenter VAlign = "center"
	VLower  VAlign = "lower"

	HLeft   HAlign = "left"
	HCenter HAlign = "center"
	HRight  HAlign = "right"
)

// Alignment positions content inside its rectangle.
type Alignment struct {
	Vertical   VAlign
	Horizontal HAlign
}

// Centered is the default alignment.
func Centered() Alignment { return Alignment{Vertical: VCenter, Horizontal: HCenter} }

// ParseAlignment expands an alignment string into its two components. A
// single horizontal token ("left", "right", "center") implies vertical
// center; a single vertical token ("upper", "lower") implies horizontal
// center. Two-token forms are "<vertical> <horizontal>", e.g. "upper left".
func ParseAlignment(s string) (Alignment, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	switch len(fields) {
	case 0:
		return Centered(), nil
	case 1:
		switch fields[0] {
		case "center":
			return Centered(), nil
		case "left", "right":
			return Alignment{Vertical: VCenter, Horizontal: HAlign(fields[0])}, nil
		case "upper", "lower":
			return Alignment{Vertical: VAlign(fields[0]), Horizontal: HCenter}, nil
		}
	case 2:
		a := Alignment{Vertical: VAlign(fields[0]), Horizontal: HAlign(fields[1])}
		if validVAlign(a.Vertical) && validHAlign(a.Horizontal) {
			return a, nil
		}
	}
	return Alignment{}, fmt.Errorf("%w: unknown alignment %q", ErrInvalid, s)
}

// AlignmentFor picks the alignment for a box from a per-box list, falling
// back to centered when the list is shorter than the box index.
func AlignmentFor(list []string, index int) (Alignment, error) {
	if index >= len(list) {
		return Centered(), nil
	}
	return ParseAlignment(list[index])
}

// ParseHAlign validates a purely horizontal alignment, used for filename
// labels which have no vertical freedom.
func ParseHAlign(s string) (HAlign, error) {
	h := HAlign(strings.ToLower(strings.TrimSpace(s)))
	if h == "" {
		return HCenter, nil
	}
	if validHAlign(h) {
		return h, nil
	}
	return "", fmt.Errorf("%w: horizontal alignment must be left, right or center, got %q", ErrInvalid, s)
}

func validVAlign(v VAlign) bool { return v == VUpper || v == VCenter || v == VLower }
func validHAlign(h HAlign) bool { return h == HLeft || h == HCenter || h == HRight }
