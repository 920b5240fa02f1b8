// Package vecmath converts between Cartesian vectors and the cyclic heading
// representation agents steer with, and holds the small numeric helpers shared
// by the walk and perception code.
//
// Heading directional reference:
//
//	0    -> down  (+Y)
//	0.25 -> right (+X)
//	0.5  -> up    (-Y)
//	0.75 -> left  (-X)
//	1    -> down again
package vecmath

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrDegenerateDirection is returned when a heading is requested for a
	// zero-length vector.
	ErrDegenerateDirection = errors.New("zero-length vector has undefined direction")

	// ErrInvalidWeights is returned by MixWeighted when weights do not sum to 1.
	ErrInvalidWeights = errors.New("mixing weights must sum to 1")
)

// WeightTolerance is the allowed deviation of a weight sum from 1.
const WeightTolerance = 1e-9

// HeadingToUnit returns the unit vector for heading h.
// X carries the sine term and Y the cosine term of the angle 2*Pi*h.
func HeadingToUnit(h float64) r2.Vec {
	s, c := math.Sincos(2 * math.Pi * h)
	return r2.Vec{X: s, Y: c}
}

// VectorToHeading is the inverse of HeadingToUnit for non-zero vectors.
func VectorToHeading(v r2.Vec) (float64, error) {
	if v.X == 0 && v.Y == 0 {
		return 0, ErrDegenerateDirection
	}
	return Wrap(math.Atan2(v.X, v.Y) / (2 * math.Pi)), nil
}

// Wrap maps any heading onto [0, 1).
func Wrap(h float64) float64 {
	h -= math.Floor(h)
	// h - Floor(h) rounds up to 1 for tiny negative inputs
	if h >= 1 {
		h = 0
	}
	return h
}

// Delta returns the signed shortest turn from heading `from` to heading `to`,
// in (-0.5, 0.5].
func Delta(from, to float64) float64 {
	d := Wrap(to - from)
	if d > 0.5 {
		d -= 1
	}
	return d
}

// Weighted is one (value, weight) signal fed to MixWeighted.
type Weighted struct {
	Value  float64
	Weight float64
}

// MixWeighted returns the weighted sum of the given signals. The weights must
// sum to 1 within WeightTolerance; they are never renormalized.
func MixWeighted(pairs ...Weighted) (float64, error) {
	weights := make([]float64, len(pairs))
	for i, p := range pairs {
		weights[i] = p.Weight
	}
	if total := floats.Sum(weights); math.Abs(total-1) > WeightTolerance {
		return 0, fmt.Errorf("%w: got %.6f", ErrInvalidWeights, total)
	}

	var mixed float64
	for _, p := range pairs {
		mixed += p.Value * p.Weight
	}
	return mixed, nil
}

// Logistic is the sigmoid scale / (1 + e^(-rate*(x-midpoint))).
func Logistic(x, midpoint, scale, rate float64) float64 {
	return scale / (1 + math.Exp(-rate*(x-midpoint)))
}

// Clamp clamps v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}
