// Package units provides the English Metric Unit (EMU) length type used
// throughout the layout engine.
//
// EMUs are the integer coordinate system of office document formats:
// 914400 EMU per inch, 360000 EMU per centimeter. Working in integer EMUs
// keeps layout math exact and deterministic; conversion to pixels happens
// only at the rendering edge.
package units

import "math"

// EMU is a length in English Metric Units.
type EMU int64

// Conversion constants.
const (
	PerInch EMU = 914400
	PerCm   EMU = 360000
	PerPt   EMU = 12700
)

// Cm converts centimeters to EMU.
func Cm(cm float64) EMU {
	return EMU(math.Round(cm * float64(PerCm)))
}

// Pt converts points to EMU.
func Pt(pt float64) EMU {
	return EMU(math.Round(pt * float64(PerPt)))
}

// Inch converts inches to EMU.
func Inch(in float64) EMU {
	return EMU(math.Round(in * float64(PerInch)))
}

// Cm returns the length in centimeters.
func (e EMU) Cm() float64 { return float64(e) / float64(PerCm) }

// Pt returns the length in points.
func (e EMU) Pt() float64 { return float64(e) / float64(PerPt) }

// Pixels returns the length in pixels at the given DPI.
func (e EMU) Pixels(dpi float64) float64 {
	return float64(e) / float64(PerInch) * dpi
}
