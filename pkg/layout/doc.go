// Package layout solves slide layouts: it turns a layout directive (named
// layout or custom integer matrix) into a rectangular matrix of cells, and
// turns that matrix plus margins and ratios into absolute EMU rectangles.
//
// # Pipeline position
//
// layout sits between content resolution and box filling:
//
//	resolved items → Build (matrix) → Plan (geometry) → box filling
//
// # Matrices
//
// A Matrix is a rectangular grid of cells. Each cell is either empty or
// holds a content element index. Repeating an index across several cells
// merges them into one spanning box during planning.
//
//	m, _ := layout.Grid(5, 2, layout.FillByRow)
//	// [0 1]
//	// [2 3]
//	// [4 .]
//
// # Geometry
//
// Plan assigns one rectangle per distinct element index. Column widths and
// row heights are equal shares of the available area unless ratios are
// given; ratios are normalized so the rows and columns always sum to the
// available width and height exactly.
package layout
