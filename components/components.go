// Package components defines the plain data types shared by the simulation
// and the ECS components used to store food piles.
package components

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Food is a depletable pile of food.
type Food struct {
	Amount float64
}

// Take removes min(request, Amount) from the pile and returns the amount
// removed. Non-positive requests take nothing.
func (f *Food) Take(request float64) float64 {
	if request <= 0 || f.Amount <= 0 {
		return 0
	}
	taken := math.Min(request, f.Amount)
	f.Amount -= taken
	return taken
}

// Depleted reports whether the pile is numerically empty.
func (f *Food) Depleted(epsilon float64) bool {
	return f.Amount <= epsilon
}

// Vec converts a Position to a gonum vector.
func (p Position) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// PositionOf builds a Position from a gonum vector.
func PositionOf(v r2.Vec) Position {
	return Position{X: v.X, Y: v.Y}
}
