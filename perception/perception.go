// Package perception builds the static convolution kernels agents use to read
// a dominant direction and strength out of a window of the pheromone field.
//
// Kernels are built once per configuration and shared read-only by every
// agent, so sensing never depends on package-level state.
package perception

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/antsim/vecmath"
)

// Kernel is a (2r x 2r) radial kernel centred on cell (r, r). Rows run along
// +Y and columns along +X, matching the windows returned by the field.
type Kernel struct {
	Radius int

	// weight[i,j] = base / distance to centre, 0 at the centre.
	weight *mat.Dense
	// dirX/dirY hold weight times the unit vector from the centre to the cell.
	dirX, dirY *mat.Dense
}

// NewKernel builds the weight and direction kernels for the given radius.
func NewKernel(radius int, baseWeight float64) *Kernel {
	size := 2 * radius
	k := &Kernel{
		Radius: radius,
		weight: mat.NewDense(size, size, nil),
		dirX:   mat.NewDense(size, size, nil),
		dirY:   mat.NewDense(size, size, nil),
	}

	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			dx := float64(c - radius)
			dy := float64(r - radius)
			dist := math.Hypot(dx, dy)
			if dist == 0 {
				continue
			}
			w := baseWeight / dist
			k.weight.Set(r, c, w)
			k.dirX.Set(r, c, w*dx/dist)
			k.dirY.Set(r, c, w*dy/dist)
		}
	}
	return k
}

// Size returns the kernel edge length.
func (k *Kernel) Size() int {
	return 2 * k.Radius
}

// Weight returns the radial weight at kernel cell (r, c).
func (k *Kernel) Weight(r, c int) float64 {
	return k.weight.At(r, c)
}

// Weigh returns the window multiplied elementwise by the radial weights.
func (k *Kernel) Weigh(window mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.MulElem(window, k.weight)
	return &out
}

// Convolve collapses the window into a single vector pointing toward the
// weighted pheromone mass.
func (k *Kernel) Convolve(window mat.Matrix) r2.Vec {
	var sx, sy mat.Dense
	sx.MulElem(window, k.dirX)
	sy.MulElem(window, k.dirY)
	return r2.Vec{X: mat.Sum(&sx), Y: mat.Sum(&sy)}
}

// Reading is a sensed direction and strength. The zero Reading means no
// signal.
type Reading struct {
	Heading   float64
	Magnitude float64
}

// Field holds the kernels shared by every agent of a colony.
type Field struct {
	// Wide is the long-range weighted sniff kernel.
	Wide *Kernel
	// Trail is the short-range kernel used to resolve a single trail line.
	Trail *Kernel
	// Threshold is the magnitude at or below which a reading is no signal.
	Threshold float64
}

// New builds a perception field for the given sniff radius. The trail kernel
// uses a fifth of the sniff radius, never less than two cells.
func New(sniffRadius int, baseWeight, threshold float64) *Field {
	return &Field{
		Wide:      NewKernel(sniffRadius, baseWeight),
		Trail:     NewKernel(TrailRadius(sniffRadius), baseWeight),
		Threshold: threshold,
	}
}

// TrailRadius returns the trail kernel radius derived from a sniff radius.
func TrailRadius(sniffRadius int) int {
	return max(2, sniffRadius/5)
}

// Ready reports whether both kernels have been built.
func (f *Field) Ready() bool {
	return f != nil && f.Wide != nil && f.Trail != nil
}

// Sniff convolves a Wide-sized window and returns the dominant heading and
// its magnitude, or the zero Reading when the magnitude does not exceed the
// threshold.
func (f *Field) Sniff(window mat.Matrix) Reading {
	v := f.Wide.Convolve(window)
	mag := r2.Norm(v)
	if mag <= f.Threshold {
		return Reading{}
	}
	h, err := vecmath.VectorToHeading(v)
	if err != nil {
		return Reading{}
	}
	return Reading{Heading: h, Magnitude: mag}
}
