package layout

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalid is wrapped by all layout validation failures.
var ErrInvalid = errors.New("invalid layout")

// FillOrder is the traversal order used to assign element indices to grid cells.
type FillOrder string

// Valid fill orders.
const (
	FillByRow    FillOrder = "row"
	FillByColumn FillOrder = "column"
)

// ValidateFillOrder checks that a fill order is valid.
func ValidateFillOrder(f FillOrder) error {
	if f != FillByRow && f != FillByColumn {
		return fmt.Errorf("%w: fill_by must be %q or %q, got %q", ErrInvalid, FillByRow, FillByColumn, f)
	}
	return nil
}

// Cell is one slot of a layout matrix: either empty or a content element index.
type Cell struct {
	index int
}

// Filled returns a cell holding the given element index.
func Filled(index int) Cell { return Cell{index: index} }

// EmptyCell returns an intentionally empty cell.
func EmptyCell() Cell { return Cell{index: -1} }

// Index returns the element index of the cell and whether it is filled.
func (c Cell) Index() (int, bool) { return c.index, c.index >= 0 }

// IsEmpty reports whether the cell is an empty marker.
func (c Cell) IsEmpty() bool { return c.index < 0 }

// Matrix is a rectangular grid of cells mapping content element indices to
// slide positions.
type Matrix [][]Cell

// Rows returns the number of rows.
func (m Matrix) Rows() int { return len(m) }

// Cols returns the number of columns. A matrix is always rectangular, so the
// first row is representative.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Indices returns the distinct element indices present in the matrix, in
// ascending order.
func (m Matrix) Indices() []int {
	seen := map[int]bool{}
	var indices []int
	for _, row := range m {
		for _, c := range row {
			if idx, ok := c.Index(); ok && !seen[idx] {
				seen[idx] = true
				indices = append(indices, idx)
			}
		}
	}
	// Insertion order is row-major; sort to ascending index order.
	for i := 1; i < len(indices); i++ {
		for j := i; j > 0 && indices[j] < indices[j-1]; j-- {
			indices[j], indices[j-1] = indices[j-1], indices[j]
		}
	}
	return indices
}

// transpose returns the transposed matrix.
func (m Matrix) transpose() Matrix {
	if len(m) == 0 {
		return Matrix{}
	}
	t := make(Matrix, m.Cols())
	for c := 0; c < m.Cols(); c++ {
		t[c] = make([]Cell, m.Rows())
		for r := 0; r < m.Rows(); r++ {
			t[c][r] = m[r][c]
		}
	}
	return t
}

// Grid builds the matrix for the "grid" layout: indices 0..n-1 arranged into
// at most nColumns columns, trailing cells marked empty. The column count
// never exceeds the element count. fillBy selects row-major or column-major
// assignment of indices to cells.
func Grid(n, nColumns int, fillBy FillOrder) (Matrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: grid layout needs at least one element, got %d", ErrInvalid, n)
	}
	if nColumns < 1 {
		return nil, fmt.Errorf("%w: n_columns must be positive, got %d", ErrInvalid, nColumns)
	}
	if err := ValidateFillOrder(fillBy); err != nil {
		return nil, err
	}

	cols := nColumns
	if n < cols {
		cols = n
	}
	rows := int(math.Ceil(float64(n) / float64(cols)))

	// Column-major fill is a row-major fill of the transposed shape,
	// transposed back.
	if fillBy == FillByColumn {
		return fillRowMajor(cols, rows, n).transpose(), nil
	}
	return fillRowMajor(rows, cols, n), nil
}

// fillRowMajor fills a rows×cols matrix with indices 0..n-1 in row-major
// order, marking trailing cells empty.
func fillRowMajor(rows, cols, n int) Matrix {
	m := make(Matrix, rows)
	i := 0
	for r := 0; r < rows; r++ {
		m[r] = make([]Cell, cols)
		for c := 0; c < cols; c++ {
			if i < n {
				m[r][c] = Filled(i)
				i++
			} else {
				m[r][c] = EmptyCell()
			}
		}
	}
	return m
}

// Vertical builds a single-column matrix with one element per row.
func Vertical(n int) (Matrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: vertical layout needs at least one element, got %d", ErrInvalid, n)
	}
	m := make(Matrix, n)
	for i := range m {
		m[i] = []Cell{Filled(i)}
	}
	return m, nil
}

// Horizontal builds a single-row matrix with one element per column.
func Horizontal(n int) (Matrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: horizontal layout needs at least one element, got %d", ErrInvalid, n)
	}
	row := make([]Cell, n)
	for i := range row {
		row[i] = Filled(i)
	}
	return Matrix{row}, nil
}

// Custom builds a matrix from a user-supplied integer grid. Negative values
// mark intentionally empty cells, repeated values create spanning boxes. A
// one-dimensional input is promoted to a single row. The matrix must be
// rectangular, must reference every element index 0..n-1 at least once and
// must not reference an index >= n.
func Custom(cells [][]int, n int) (Matrix, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("%w: custom layout matrix is empty", ErrInvalid)
	}

	width := len(cells[0])
	m := make(Matrix, len(cells))
	present := map[int]bool{}
	for r, row := range cells {
		if len(row) != width {
			return nil, fmt.Errorf("%w: custom layout matrix is ragged: row 0 has %d columns, row %d has %d", ErrInvalid, width, r, len(row))
		}
		m[r] = make([]Cell, len(row))
		for c, v := range row {
			if v < 0 {
				m[r][c] = EmptyCell()
				continue
			}
			if v >= n {
				return nil, fmt.Errorf("%w: custom layout references element %d but the slide has only %d content elements", ErrInvalid, v, n)
			}
			present[v] = true
			m[r][c] = Filled(v)
		}
	}

	for i := 0; i < n; i++ {
		if !present[i] {
			return nil, fmt.Errorf("%w: custom layout is missing a cell for element %d", ErrInvalid, i)
		}
	}
	return m, nil
}
