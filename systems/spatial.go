package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/antsim/vecmath"
)

// SpatialGrid buckets points by cell for radius lookups. Points are
// identified by the ref they were inserted with.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]gridPoint // flat grid of point lists
}

type gridPoint struct {
	ref int
	pos r2.Vec
}

// NewSpatialGrid creates a spatial grid covering a width x height field.
func NewSpatialGrid(width, height int, cellSize float64) *SpatialGrid {
	if cellSize < 1 {
		cellSize = 1
	}
	cols := int(float64(width)/cellSize) + 1
	rows := int(float64(height)/cellSize) + 1

	cells := make([][]gridPoint, cols*rows)
	for i := range cells {
		cells[i] = make([]gridPoint, 0, 2)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all points from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds a point to the grid. Points outside the field land in the
// nearest edge cell.
func (g *SpatialGrid) Insert(ref int, p r2.Vec) {
	col, row := g.cell(p)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], gridPoint{ref: ref, pos: p})
}

// Nearest returns the closest point within radius of p. Ties go to the
// lower ref so results do not depend on cell order.
func (g *SpatialGrid) Nearest(p r2.Vec, radius float64) (ref int, pos r2.Vec, dist float64, ok bool) {
	ref, dist = -1, math.Inf(1)
	cellRadius := int(radius/g.cellSize) + 1
	centerCol, centerRow := g.cell(p)

	for row := max(0, centerRow-cellRadius); row <= min(g.rows-1, centerRow+cellRadius); row++ {
		for col := max(0, centerCol-cellRadius); col <= min(g.cols-1, centerCol+cellRadius); col++ {
			for _, pt := range g.cells[row*g.cols+col] {
				d := vecmath.Distance(p, pt.pos)
				if d > radius {
					continue
				}
				if d < dist || (d == dist && pt.ref < ref) {
					ref, pos, dist = pt.ref, pt.pos, d
				}
			}
		}
	}
	return ref, pos, dist, ref >= 0
}

// cell returns the clamped column and row for a position.
func (g *SpatialGrid) cell(p r2.Vec) (col, row int) {
	col = min(max(int(p.X/g.cellSize), 0), g.cols-1)
	row = min(max(int(p.Y/g.cellSize), 0), g.rows-1)
	return col, row
}
