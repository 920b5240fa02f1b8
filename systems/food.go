package systems

import "gonum.org/v1/gonum/spatial/r2"

// FoodSighting is a food pile an agent can see this tick.
type FoodSighting struct {
	Ref      int // opaque handle passed back to Take
	Position r2.Vec
	Distance float64
}

// FoodSource is the agents' view of the world's food during a decision
// phase. Nearest reads a snapshot taken before the phase; Take removes food
// atomically and may return less than was visible if another ant got there
// first this tick.
type FoodSource interface {
	Nearest(p r2.Vec, radius float64) (FoodSighting, bool)
	Take(ref int, request float64) float64
}
