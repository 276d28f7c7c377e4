package layout

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/deckgrid/deckgrid/pkg/units"
)

// Rect is an absolute rectangle on a slide, in EMU.
type Rect struct {
	Left   units.EMU `json:"left"`
	Top    units.EMU `json:"top"`
	Width  units.EMU `json:"width"`
	Height units.EMU `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() units.EMU { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() units.EMU { return r.Top + r.Height }

// Margins holds the outer margins of the content area and the inner margin
// between boxes.
type Margins struct {
	Left   units.EMU
	Right  units.EMU
	Top    units.EMU
	Bottom units.EMU
	Inner  units.EMU
}

// Validate checks that no margin is negative.
func (m Margins) Validate() error {
	for _, v := range []units.EMU{m.Left, m.Right, m.Top, m.Bottom, m.Inner} {
		if v < 0 {
			return fmt.Errorf("%w: margins must not be negative", ErrInvalid)
		}
	}
	return nil
}

// PlanOptions configures geometry planning for one slide.
type PlanOptions struct {
	// SlideWidth and SlideHeight are the full slide dimensions.
	SlideWidth  units.EMU
	SlideHeight units.EMU

	// Margins frame the content area.
	Margins Margins

	// WidthRatios and HeightRatios distribute the available area across
	// columns and rows. Nil means equal shares. Each value must be positive
	// and the length must match the matrix dimensions.
	WidthRatios  []float64
	HeightRatios []float64

	// TitleReserved is added to the top margin to keep content below the
	// title placeholder. Zero when the slide has no title.
	TitleReserved units.EMU

	// Logger receives validation warnings. Defaults to a discard logger.
	Logger *log.Logger
}

// Plan converts a layout matrix into one rectangle per distinct element
// index. Cells sharing an index merge into a spanning box covering the
// participating rows and columns plus the inner margins between them.
func Plan(m Matrix, opts PlanOptions) (map[int]Rect, error) {
	if m.Rows() == 0 || m.Cols() == 0 {
		return nil, fmt.Errorf("%w: layout matrix is empty", ErrInvalid)
	}
	if err := opts.Margins.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	rows, cols := m.Rows(), m.Cols()
	top := opts.Margins.Top + opts.TitleReserved

	availWidth := opts.SlideWidth - opts.Margins.Left - opts.Margins.Right - units.EMU(cols-1)*opts.Margins.Inner
	availHeight := opts.SlideHeight - top - opts.Margins.Bottom - units.EMU(rows-1)*opts.Margins.Inner
	if availWidth <= 0 {
		return nil, fmt.Errorf("%w: margins leave no horizontal space for content", ErrInvalid)
	}
	if availHeight <= 0 {
		return nil, fmt.Errorf("%w: margins and title leave no vertical space for content", ErrInvalid)
	}

	widths, err := distribute(availWidth, cols, opts.WidthRatios, "width_ratios")
	if err != nil {
		return nil, err
	}
	heights, err := distribute(availHeight, rows, opts.HeightRatios, "height_ratios")
	if err != nil {
		return nil, err
	}

	// Prefix sums give the top-left edge of each row/column.
	colLeft := make([]units.EMU, cols)
	x := opts.Margins.Left
	for c := 0; c < cols; c++ {
		colLeft[c] = x
		x += widths[c] + opts.Margins.Inner
	}
	rowTop := make([]units.EMU, rows)
	y := top
	for r := 0; r < rows; r++ {
		rowTop[r] = y
		y += heights[r] + opts.Margins.Inner
	}

	boxes := make(map[int]Rect)
	for _, idx := range m.Indices() {
		spanRows, spanCols, count := span(m, idx)

		minRow := minKey(spanRows)
		minCol := minKey(spanCols)
		if count != len(spanRows)*len(spanCols) {
			logger.Warnf("layout box %d does not form a contiguous rectangle; using the bounding union, which may overlap other boxes", idx)
		}

		var width, height units.EMU
		for c := range spanCols {
			width += widths[c]
		}
		width += units.EMU(len(spanCols)-1) * opts.Margins.Inner
		for r := range spanRows {
			height += heights[r]
		}
		height += units.EMU(len(spanRows)-1) * opts.Margins.Inner

		boxes[idx] = Rect{
			Left:   colLeft[minCol],
			Top:    rowTop[minRow],
			Width:  width,
			Height: height,
		}
	}
	return boxes, nil
}

// span collects the rows and columns participating in box idx and the number
// of cells holding it.
func span(m Matrix, idx int) (rows, cols map[int]bool, count int) {
	rows, cols = map[int]bool{}, map[int]bool{}
	for r, row := range m {
		for c, cell := range row {
			if i, ok := cell.Index(); ok && i == idx {
				rows[r] = true
				cols[c] = true
				count++
			}
		}
	}
	return rows, cols, count
}

func minKey(set map[int]bool) int {
	min, first := 0, true
	for v := range set {
		if first || v < min {
			min = v
			first = false
		}
	}
	return min
}

// distribute splits avail into n parts proportional to ratios (equal shares
// when ratios is nil). Cumulative rounding guarantees the parts sum to avail
// exactly.
func distribute(avail units.EMU, n int, ratios []float64, name string) ([]units.EMU, error) {
	if ratios == nil {
		ratios = make([]float64, n)
		for i := range ratios {
			ratios[i] = 1
		}
	}
	if len(ratios) != n {
		return nil, fmt.Errorf("%w: %s has %d entries but the layout has %d", ErrInvalid, name, len(ratios), n)
	}

	var sum float64
	for _, r := range ratios {
		if r <= 0 {
			return nil, fmt.Errorf("%w: %s must be positive numbers, got %v", ErrInvalid, name, r)
		}
		sum += r
	}

	parts := make([]units.EMU, n)
	var cum float64
	var prev units.EMU
	for i, r := range ratios {
		cum += r
		edge := units.EMU(math.Round(float64(avail) * cum / sum))
		parts[i] = edge - prev
		prev = edge
	}
	return parts, nil
}
