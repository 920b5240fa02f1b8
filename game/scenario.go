package game

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Food layouts accepted by food.pattern.
const (
	PatternCross  = "cross"
	PatternRandom = "random"
)

// maxPlacementAttempts bounds rejection sampling for random piles.
const maxPlacementAttempts = 100

// SetupScenario adds the configured colony and lays out its food.
func SetupScenario(w *World) error {
	cfg := w.cfg
	nest := r2.Vec{X: cfg.Colony.X, Y: cfg.Colony.Y}
	if _, err := w.AddColony(nest, cfg.Colony.InitialAnts); err != nil {
		return err
	}

	switch cfg.Food.Pattern {
	case PatternCross:
		return SpawnCross(w, nest, cfg.Food.Distance, cfg.Food.Amount)
	case PatternRandom:
		rng := rand.New(rand.NewSource(w.rng.Int63()))
		return SpawnRandom(w, rng, nest, cfg.Food.Piles, cfg.Food.Distance, cfg.Food.Amount)
	default:
		return fmt.Errorf("unknown food pattern %q", cfg.Food.Pattern)
	}
}

// SpawnCross places four piles at distance from nest along both axes.
func SpawnCross(w *World, nest r2.Vec, distance, amount float64) error {
	offsets := []r2.Vec{
		{X: 0, Y: distance},
		{X: 0, Y: -distance},
		{X: distance, Y: 0},
		{X: -distance, Y: 0},
	}
	for _, o := range offsets {
		if err := w.SpawnFood(r2.Add(nest, o), amount); err != nil {
			return err
		}
	}
	return nil
}

// SpawnRandom places count piles at a random bearing from nest, between half
// and one and a half times distance away. Candidates outside the field are
// redrawn.
func SpawnRandom(w *World, rng *rand.Rand, nest r2.Vec, count int, distance, amount float64) error {
	for i := 0; i < count; i++ {
		placed := false
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			r := distance * (0.5 + rng.Float64())
			theta := 2 * math.Pi * rng.Float64()
			p := r2.Add(nest, r2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)})
			if !w.field.InBounds(p) {
				continue
			}
			if err := w.SpawnFood(p, amount); err != nil {
				return err
			}
			placed = true
			break
		}
		if !placed {
			return fmt.Errorf("no in-bounds position for pile %d after %d attempts", i, maxPlacementAttempts)
		}
	}
	return nil
}
