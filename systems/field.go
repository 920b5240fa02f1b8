package systems

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrOutOfBounds is returned when a position falls outside the field. For an
// agent's next step it means the ant escaped the map, which is a tuning or
// logic defect and is never clamped away.
var ErrOutOfBounds = errors.New("position outside field bounds")

// rescaleFloor is the lazy-evaporation scale below which the grid is
// renormalized to keep stored values inside float64 range.
const rescaleFloor = 1e-150

// Field is the world's pheromone grid. Cell (row, col) covers world
// coordinates [col, col+1) x [row, row+1).
//
// Reads during a tick observe the state committed at the end of the previous
// tick. Deposits accumulate in a pending buffer and become visible only after
// Commit, which applies current = current*EvaporateRate + pending.
type Field struct {
	W, H          int
	EvaporateRate float64

	// The committed value of a cell is grid*scale. Evaporation only shrinks
	// scale, so Commit costs O(deposits) rather than O(W*H).
	grid  *mat.Dense
	scale float64

	mu      sync.Mutex
	pending map[int]float64

	tick int64
}

// NewField creates an empty w x h field.
func NewField(w, h int, evaporateRate float64) (*Field, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("field size %dx%d must be positive", w, h)
	}
	if evaporateRate <= 0 || evaporateRate >= 1 {
		return nil, fmt.Errorf("evaporate rate %v outside (0,1)", evaporateRate)
	}
	return &Field{
		W:             w,
		H:             h,
		EvaporateRate: evaporateRate,
		grid:          mat.NewDense(h, w, nil),
		scale:         1,
		pending:       make(map[int]float64),
	}, nil
}

// InBounds reports whether p lies inside the field.
func (f *Field) InBounds(p r2.Vec) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(f.W) && p.Y < float64(f.H)
}

// Deposit queues amount at the cell containing p. Deposits to the same cell
// within a tick accumulate. Safe for concurrent use.
func (f *Field) Deposit(p r2.Vec, amount float64) error {
	if !f.InBounds(p) {
		return fmt.Errorf("%w: deposit at (%.2f, %.2f)", ErrOutOfBounds, p.X, p.Y)
	}
	idx := int(p.Y)*f.W + int(p.X)

	f.mu.Lock()
	f.pending[idx] += amount
	f.mu.Unlock()
	return nil
}

// At returns the committed intensity of the cell containing p, or 0 outside
// the field.
func (f *Field) At(p r2.Vec) float64 {
	if !f.InBounds(p) {
		return 0
	}
	return f.grid.At(int(p.Y), int(p.X)) * f.scale
}

// Sample returns the committed window [p-radius, p+radius) as a new
// (2*radius x 2*radius) matrix; the cell containing p sits at (radius, radius).
// Cells outside the field read as zero.
func (f *Field) Sample(p r2.Vec, radius int) *mat.Dense {
	size := 2 * radius
	win := mat.NewDense(size, size, nil)

	row := int(math.Floor(p.Y))
	col := int(math.Floor(p.X))
	r0, c0 := row-radius, col-radius

	cr0, cc0 := max(r0, 0), max(c0, 0)
	cr1, cc1 := min(r0+size, f.H), min(c0+size, f.W)
	if cr0 >= cr1 || cc0 >= cc1 {
		return win
	}

	src := f.grid.Slice(cr0, cr1, cc0, cc1)
	dst := win.Slice(cr0-r0, cr1-r0, cc0-c0, cc1-c0).(*mat.Dense)
	dst.Scale(f.scale, src)
	return win
}

// Commit evaporates the committed grid, folds in pending deposits and clears
// them, then advances the field tick.
func (f *Field) Commit() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.scale *= f.EvaporateRate
	if f.scale < rescaleFloor {
		f.grid.Scale(f.scale, f.grid)
		f.scale = 1
	}

	for idx, amount := range f.pending {
		r, c := idx/f.W, idx%f.W
		f.grid.Set(r, c, f.grid.At(r, c)+amount/f.scale)
	}
	clear(f.pending)
	f.tick++
}

// Tick returns the number of commits so far.
func (f *Field) Tick() int64 {
	return f.tick
}

// Sum returns the total committed intensity.
func (f *Field) Sum() float64 {
	return mat.Sum(f.grid) * f.scale
}

// PendingSum returns the total of deposits queued this tick.
func (f *Field) PendingSum() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total float64
	for _, v := range f.pending {
		total += v
	}
	return total
}

// Grid returns a copy of the committed grid for heat-map rendering.
func (f *Field) Grid() *mat.Dense {
	var out mat.Dense
	out.Scale(f.scale, f.grid)
	return &out
}

// GridSize returns the grid dimensions.
func (f *Field) GridSize() (int, int) {
	return f.W, f.H
}
