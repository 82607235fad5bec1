// Package lattice builds square-lattice graphs for percolation runs.
// Nodes are numbered row-major from the top-left corner; edges connect
// each node to its right and down neighbors, so every unordered
// 4-neighbor pair appears exactly once.
package lattice

import "errors"

// ErrSideTooSmall is returned when the requested lattice side cannot form
// a grid with distinct top and bottom rows.
var ErrSideTooSmall = errors.New("lattice: side must be at least 2")

// Edge is an unordered pair of adjacent node indices. By construction
// U < V always holds.
type Edge struct {
	U int
	V int
}

// Lattice is a side x side square grid. It is immutable after creation.
type Lattice struct {
	side int
}

// New creates a square lattice with the given side length.
func New(side int) (*Lattice, error) {
	if side < 2 {
		return nil, ErrSideTooSmall
	}
	return &Lattice{side: side}, nil
}

// Side returns the side length of the lattice.
func (l *Lattice) Side() int {
	return l.side
}

// Nodes returns the total number of nodes, side squared.
func (l *Lattice) Nodes() int {
	return l.side * l.side
}

// Edges returns all nearest-neighbor edges in row-major order: for each
// node, its right edge (if any) then its down edge (if any). The total is
// 2*side*(side-1).
func (l *Lattice) Edges() []Edge {
	edges := make([]Edge, 0, 2*l.side*(l.side-1))
	for i := 0; i < l.Nodes(); i++ {
		if (i+1)%l.side != 0 {
			edges = append(edges, Edge{U: i, V: i + 1})
		}
		if i+l.side < l.Nodes() {
			edges = append(edges, Edge{U: i, V: i + l.side})
		}
	}
	return edges
}

// Index returns the node index for the given row and column.
func (l *Lattice) Index(row, col int) int {
	return row*l.side + col
}

// Coordinate returns the row and column of the given node index.
func (l *Lattice) Coordinate(i int) (row, col int) {
	return i / l.side, i % l.side
}

// TopRow returns the node indices of the first row, 0..side-1.
func (l *Lattice) TopRow() []int {
	row := make([]int, l.side)
	for i := range row {
		row[i] = i
	}
	return row
}

// BottomRow returns the node indices of the last row, nodes-side..nodes-1.
func (l *Lattice) BottomRow() []int {
	row := make([]int, l.side)
	for i := range row {
		row[i] = l.Nodes() - l.side + i
	}
	return row
}
