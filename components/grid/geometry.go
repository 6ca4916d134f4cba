// Package grid implements widget placement on a fixed rows x cols dashboard
// canvas: footprint geometry, placement validation, cascading relocation
// planning, drag sessions and atomic commits over immutable layouts.
package grid

import "math"

const (
	// DefaultRows is the canvas height used when no grid is configured.
	DefaultRows = 6
	// DefaultCols is the canvas width used when no grid is configured.
	DefaultCols = 6
)

// Grid describes a fixed rows x cols canvas addressed by row-major cell index.
type Grid struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

// DefaultGrid returns the 6x6 dashboard canvas.
func DefaultGrid() Grid {
	return Grid{Rows: DefaultRows, Cols: DefaultCols}
}

// Validate rejects degenerate grids and grids whose cell count overflows int.
func (g Grid) Validate() error {
	if g.Rows <= 0 || g.Cols <= 0 {
		return ErrInvalidGrid
	}
	if g.Rows > math.MaxInt/g.Cols {
		return ErrInvalidGrid
	}
	return nil
}

// Cells returns the total number of cells on the canvas.
func (g Grid) Cells() int {
	return g.Rows * g.Cols
}

// ToRowCol converts a cell index into its row and column.
func (g Grid) ToRowCol(cell int) (int, int) {
	return cell / g.Cols, cell % g.Cols
}

// ToCellIndex converts a row and column into a cell index.
func (g Grid) ToCellIndex(row, col int) int {
	return row*g.Cols + col
}

// Contains reports whether cell addresses a cell of the grid.
func (g Grid) Contains(cell int) bool {
	return cell >= 0 && cell < g.Cells()
}

// Fits reports whether a footprint of the given size anchored at cell stays
// within the grid.
func (g Grid) Fits(cell int, size Size) bool {
	if !g.Contains(cell) || !size.Valid() {
		return false
	}
	row, col := g.ToRowCol(cell)
	return size.Width <= g.Cols-col && size.Height <= g.Rows-row
}

// Footprint returns the rectangle occupied by a widget of size anchored at cell.
func (g Grid) Footprint(cell int, size Size) Footprint {
	row, col := g.ToRowCol(cell)
	return Footprint{Row: row, Col: col, Width: size.Width, Height: size.Height}
}

// Size is a widget footprint measured in cells.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Area is a reserved rectangle expressed as an anchor cell plus size.
type Area struct {
	Cell int  `json:"cell"`
	Size Size `json:"size"`
}

// Footprint is the rectangle [Row, Row+Height) x [Col, Col+Width).
type Footprint struct {
	Row    int `json:"row"`
	Col    int `json:"col"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Overlaps reports whether the row ranges and the column ranges both intersect.
// Anchors are compared by difference so oversized extents cannot overflow.
func (f Footprint) Overlaps(other Footprint) bool {
	return spans(f.Row, f.Height, other.Row, other.Height) &&
		spans(f.Col, f.Width, other.Col, other.Width)
}

// spans reports whether [a, a+alen) and [b, b+blen) intersect.
func spans(a, alen, b, blen int) bool {
	return a-b < blen && b-a < alen
}

// ContainsCell reports whether cell lies inside the footprint.
func (f Footprint) ContainsCell(g Grid, cell int) bool {
	row, col := g.ToRowCol(cell)
	return row >= f.Row && row-f.Row < f.Height && col >= f.Col && col-f.Col < f.Width
}

// Cells lists the covered cell indexes in row-major order. Parts of the
// footprint outside g are not listed.
func (f Footprint) Cells(g Grid) []int {
	rows, cols := f.clip(g)
	if rows <= 0 || cols <= 0 {
		return nil
	}
	cells := make([]int, 0, rows*cols)
	for r := f.Row; r < f.Row+rows; r++ {
		for c := f.Col; c < f.Col+cols; c++ {
			cells = append(cells, g.ToCellIndex(r, c))
		}
	}
	return cells
}

// Last returns the row-major index of the bottom-right cell inside g.
func (f Footprint) Last(g Grid) int {
	rows, cols := f.clip(g)
	return g.ToCellIndex(f.Row+rows-1, f.Col+cols-1)
}

// clip returns the height and width of the part of f that lies on g.
func (f Footprint) clip(g Grid) (int, int) {
	return min(f.Height, g.Rows-f.Row), min(f.Width, g.Cols-f.Col)
}
