package layout

import (
	"errors"
	"testing"

	"github.com/deckgrid/deckgrid/pkg/units"
)

func planOpts() PlanOptions {
	return PlanOptions{
		SlideWidth:  units.Cm(25.4),
		SlideHeight: units.Cm(19.05),
		Margins: Margins{
			Left:   units.Cm(2),
			Right:  units.Cm(2),
			Top:    units.Cm(2),
			Bottom: units.Cm(2),
			Inner:  units.Cm(1),
		},
	}
}

func TestPlanCoverage(t *testing.T) {
	// Column widths sum to the available width and row heights to the
	// available height, for equal shares and for awkward ratios.
	tests := []struct {
		name         string
		n            int
		nColumns     int
		widthRatios  []float64
		heightRatios []float64
	}{
		{name: "EqualShares", n: 4, nColumns: 2},
		{name: "ThreeColumns", n: 6, nColumns: 3},
		{name: "Ratios", n: 4, nColumns: 2, widthRatios: []float64{1, 2}, heightRatios: []float64{3, 1}},
		{name: "UnevenThirds", n: 3, nColumns: 3, widthRatios: []float64{1, 1, 1}},
		{name: "IrrationalShares", n: 6, nColumns: 3, widthRatios: []float64{0.1, 0.7, 0.3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Grid(tt.n, tt.nColumns, FillByRow)
			if err != nil {
				t.Fatal(err)
			}
			opts := planOpts()
			opts.WidthRatios = tt.widthRatios
			opts.HeightRatios = tt.heightRatios

			boxes, err := Plan(m, opts)
			if err != nil {
				t.Fatalf("Plan() error: %v", err)
			}

			availWidth := opts.SlideWidth - opts.Margins.Left - opts.Margins.Right - units.EMU(m.Cols()-1)*opts.Margins.Inner
			availHeight := opts.SlideHeight - opts.Margins.Top - opts.Margins.Bottom - units.EMU(m.Rows()-1)*opts.Margins.Inner

			// Boxes in the first row cover the available width.
			var width units.EMU
			for c := 0; c < m.Cols(); c++ {
				idx, ok := m[0][c].Index()
				if !ok {
					continue
				}
				width += boxes[idx].Width
			}
			if width != availWidth {
				t.Errorf("row width = %d, want %d", width, availWidth)
			}

			// Boxes in the first column cover the available height.
			var height units.EMU
			for r := 0; r < m.Rows(); r++ {
				idx, ok := m[r][0].Index()
				if !ok {
					continue
				}
				height += boxes[idx].Height
			}
			if height != availHeight {
				t.Errorf("column height = %d, want %d", height, availHeight)
			}
		})
	}
}

func TestPlanSpans(t *testing.T) {
	// Index 0 spans the full first row, 1 and 2 share the second.
	m, err := Custom([][]int{{0, 0}, {1, 2}}, 3)
	if err != nil {
		t.Fatal(err)
	}
	opts := planOpts()
	boxes, err := Plan(m, opts)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	if boxes[0].Width != boxes[1].Width+boxes[2].Width+opts.Margins.Inner {
		t.Errorf("span width = %d, want %d", boxes[0].Width, boxes[1].Width+boxes[2].Width+opts.Margins.Inner)
	}
	if boxes[1].Left != boxes[0].Left {
		t.Errorf("box 1 left = %d, want %d", boxes[1].Left, boxes[0].Left)
	}
	if boxes[2].Left != boxes[1].Left+boxes[1].Width+opts.Margins.Inner {
		t.Errorf("box 2 left = %d, want %d", boxes[2].Left, boxes[1].Left+boxes[1].Width+opts.Margins.Inner)
	}
	if boxes[1].Top != boxes[0].Top+boxes[0].Height+opts.Margins.Inner {
		t.Errorf("box 1 top = %d, want below box 0", boxes[1].Top)
	}
}

func TestPlanRowSpan(t *testing.T) {
	m, err := Custom([][]int{{0, 1}, {0, 2}}, 3)
	if err != nil {
		t.Fatal(err)
	}
	opts := planOpts()
	boxes, err := Plan(m, opts)
	if err != nil {
		t.Fatal(err)
	}
	if boxes[0].Height != boxes[1].Height+boxes[2].Height+opts.Margins.Inner {
		t.Errorf("row span height = %d, want %d", boxes[0].Height, boxes[1].Height+boxes[2].Height+opts.Margins.Inner)
	}
}

func TestPlanTitleReservation(t *testing.T) {
	m, err := Grid(2, 2, FillByRow)
	if err != nil {
		t.Fatal(err)
	}

	opts := planOpts()
	without, err := Plan(m, opts)
	if err != nil {
		t.Fatal(err)
	}

	opts.TitleReserved = units.Cm(3)
	with, err := Plan(m, opts)
	if err != nil {
		t.Fatal(err)
	}

	if with[0].Top != without[0].Top+units.Cm(3) {
		t.Errorf("title-reserved top = %d, want %d", with[0].Top, without[0].Top+units.Cm(3))
	}
	if with[0].Height >= without[0].Height {
		t.Error("title reservation should shrink box height")
	}
}

func TestPlanValidation(t *testing.T) {
	m, err := Grid(2, 2, FillByRow)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(*PlanOptions)
	}{
		{"NegativeMargin", func(o *PlanOptions) { o.Margins.Left = -1 }},
		{"ZeroRatio", func(o *PlanOptions) { o.WidthRatios = []float64{1, 0} }},
		{"NegativeRatio", func(o *PlanOptions) { o.HeightRatios = []float64{1, -2} }},
		{"RatioLengthMismatch", func(o *PlanOptions) { o.WidthRatios = []float64{1, 2, 3} }},
		{"MarginsTooLarge", func(o *PlanOptions) { o.Margins.Left = units.Cm(30) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := planOpts()
			tt.mutate(&opts)
			if _, err := Plan(m, opts); !errors.Is(err, ErrInvalid) {
				t.Errorf("Plan() error = %v, want ErrInvalid", err)
			}
		})
	}
}
