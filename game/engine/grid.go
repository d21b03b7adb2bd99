package engine

import (
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Grid is a rectangular, row-major map of cells
type Grid struct {
	rows  int
	cols  int
	cells []Cell
}

// NewGrid creates a grid filled with Empty cells
func NewGrid(rows, cols int) *Grid {
	return &Grid{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
}

// GridFromRows builds a grid from equally long rows
func GridFromRows(rows [][]Cell) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("grid must have at least one row and one column")
	}
	g := NewGrid(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != g.cols {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", r+1, len(row), g.cols)
		}
		copy(g.cells[r*g.cols:], row)
	}
	return g, nil
}

// Rows returns the grid height
func (g *Grid) Rows() int { return g.rows }

// Cols returns the grid width
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether c lies on the grid
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// At returns the cell at c. c must be in bounds.
func (g *Grid) At(c Coord) Cell {
	return g.cells[c.Row*g.cols+c.Col]
}

// Set replaces the cell at c. c must be in bounds.
func (g *Grid) Set(c Coord, cell Cell) {
	g.cells[c.Row*g.cols+c.Col] = cell
}

// Clone returns an independent copy
func (g *Grid) Clone() *Grid {
	out := &Grid{rows: g.rows, cols: g.cols, cells: make([]Cell, len(g.cells))}
	copy(out.cells, g.cells)
	return out
}

// Row returns a copy of row r
func (g *Grid) Row(r int) []Cell {
	out := make([]Cell, g.cols)
	copy(out, g.cells[r*g.cols:(r+1)*g.cols])
	return out
}

// Find returns the first coordinate, in row-major order, holding kind
func (g *Grid) Find(kind CellKind) (Coord, bool) {
	for i, cell := range g.cells {
		if cell.Kind == kind {
			return Coord{Row: i / g.cols, Col: i % g.cols}, true
		}
	}
	return Coord{}, false
}

// Neighbor offsets c by d, returning false when the result leaves the grid
func (g *Grid) Neighbor(c Coord, d Delta) (Coord, bool) {
	n := c.Add(d)
	if !g.InBounds(n) {
		return Coord{}, false
	}
	return n, true
}

// BlastRadius returns the 3x3 block centred on c, clipped to the grid.
// MetalWall and Water cells are immune and never included.
func (g *Grid) BlastRadius(c Coord) mapset.Set[Coord] {
	affected := mapset.New[Coord]()
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			n := Coord{Row: c.Row + dr, Col: c.Col + dc}
			if !g.InBounds(n) {
				continue
			}
			switch g.At(n).Kind {
			case MetalWall, Water:
				continue
			}
			affected.Put(n)
		}
	}
	return affected
}

// SortedCoords flattens a coordinate set into row-major order
func SortedCoords(set mapset.Set[Coord]) []Coord {
	out := make([]Coord, 0, set.Size())
	set.Each(func(c Coord) {
		out = append(out, c)
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}
