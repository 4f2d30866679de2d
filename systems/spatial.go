// Package systems provides ECS systems for the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"
)

// Lattice is a coarse bin grid over the terrain tiles used for proximity
// and collision queries. Each bin covers resolution x resolution tiles. It is
// rebuilt every tick.
type Lattice struct {
	resolution int
	gridW      int // terrain grid size in tiles
	gridH      int
	cols       int // bins per axis
	rows       int
	cells      [][]ecs.Entity // flat grid of entity lists
	count      int
}

// NewLattice creates a lattice covering a gridW x gridH tile grid.
func NewLattice(gridW, gridH, resolution int) *Lattice {
	cols := (gridW + resolution - 1) / resolution
	rows := (gridH + resolution - 1) / resolution

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 8)
	}

	return &Lattice{
		resolution: resolution,
		gridW:      gridW,
		gridH:      gridH,
		cols:       cols,
		rows:       rows,
		cells:      cells,
	}
}

// Reset removes all entities from the lattice.
func (l *Lattice) Reset() {
	for i := range l.cells {
		l.cells[i] = l.cells[i][:0]
	}
	l.count = 0
}

// Registrable reports whether a tile coordinate is strictly inside the grid
// border. Agents at or beyond the border are not tracked.
func (l *Lattice) Registrable(col, row int) bool {
	return col > 0 && col < l.gridW && row > 0 && row < l.gridH
}

// Register adds an entity at the given tile coordinate. Returns false, and
// registers nothing, when the coordinate is not registrable.
func (l *Lattice) Register(e ecs.Entity, col, row int) bool {
	if !l.Registrable(col, row) {
		return false
	}
	idx := (row/l.resolution)*l.cols + col/l.resolution
	l.cells[idx] = append(l.cells[idx], e)
	l.count++
	return true
}

// QueryInto appends every entity in the 3x3 bin neighbourhood of the tile
// coordinate to dst and returns it. Nothing is appended when the coordinate
// is not registrable. The querying entity itself is not excluded.
func (l *Lattice) QueryInto(dst []ecs.Entity, col, row int) []ecs.Entity {
	if !l.Registrable(col, row) {
		return dst
	}
	bc := col / l.resolution
	br := row / l.resolution

	for dr := -1; dr <= 1; dr++ {
		r := br + dr
		if r < 0 || r >= l.rows {
			continue
		}
		for dc := -1; dc <= 1; dc++ {
			c := bc + dc
			if c < 0 || c >= l.cols {
				continue
			}
			dst = append(dst, l.cells[r*l.cols+c]...)
		}
	}
	return dst
}

// Count returns the number of registered entities.
func (l *Lattice) Count() int { return l.count }

// Size returns the lattice dimensions in bins.
func (l *Lattice) Size() (cols, rows int) { return l.cols, l.rows }

// Bin returns the entities registered in a single bin.
func (l *Lattice) Bin(col, row int) []ecs.Entity {
	if col < 0 || col >= l.cols || row < 0 || row >= l.rows {
		return nil
	}
	return l.cells[row*l.cols+col]
}
