package systems

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/antsim/components"
	"github.com/pthm-cable/antsim/config"
	"github.com/pthm-cable/antsim/perception"
	"github.com/pthm-cable/antsim/vecmath"
)

func init() {
	config.MustInit("")
}

// stubFood is a FoodSource over a plain slice of piles.
type stubFood struct {
	pos   []r2.Vec
	piles []components.Food
}

func (s *stubFood) add(p r2.Vec, amount float64) int {
	s.pos = append(s.pos, p)
	s.piles = append(s.piles, components.Food{Amount: amount})
	return len(s.piles) - 1
}

func (s *stubFood) Nearest(p r2.Vec, radius float64) (FoodSighting, bool) {
	best := FoodSighting{Ref: -1, Distance: math.Inf(1)}
	for i, fp := range s.pos {
		if s.piles[i].Amount <= 0 {
			continue
		}
		if d := vecmath.Distance(p, fp); d <= radius && d < best.Distance {
			best = FoodSighting{Ref: i, Position: fp, Distance: d}
		}
	}
	return best, best.Ref >= 0
}

func (s *stubFood) Take(ref int, request float64) float64 {
	return s.piles[ref].Take(request)
}

// newTestColony builds a colony at the configured nest on a fresh field.
func newTestColony(t *testing.T, seed int64, mutate func(*config.Config)) (*Colony, *Field) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
		cfg.ComputeDerived()
	}

	field, err := NewField(cfg.World.Width, cfg.World.Height, cfg.World.EvaporateRate)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	pf := perception.New(cfg.Colony.SniffRadius, cfg.Perception.BaseWeight, cfg.Perception.Threshold)
	c, err := NewColony(0, r2.Vec{X: cfg.Colony.X, Y: cfg.Colony.Y}, field, pf, cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewColony: %v", err)
	}
	return c, field
}

// spawnOne admits a single ant and returns it.
func spawnOne(c *Colony) *Agent {
	c.Spawn(1, 0)
	c.Update(0)
	return c.Ants()[len(c.Ants())-1]
}

func TestNewColonyRequiresPerception(t *testing.T) {
	cfg := config.Cfg()
	field, _ := NewField(cfg.World.Width, cfg.World.Height, cfg.World.EvaporateRate)
	rng := rand.New(rand.NewSource(1))

	for _, pf := range []*perception.Field{nil, {}, {Wide: perception.NewKernel(4, 1)}} {
		_, err := NewColony(0, r2.Vec{X: 10, Y: 10}, field, pf, cfg, rng)
		if !errors.Is(err, ErrUninitializedPerception) {
			t.Errorf("expected ErrUninitializedPerception, got %v", err)
		}
	}
}

func TestNewColonyOutOfBounds(t *testing.T) {
	cfg := config.Cfg()
	field, _ := NewField(cfg.World.Width, cfg.World.Height, cfg.World.EvaporateRate)
	pf := perception.New(cfg.Colony.SniffRadius, cfg.Perception.BaseWeight, cfg.Perception.Threshold)

	_, err := NewColony(0, r2.Vec{X: -1, Y: 10}, field, pf, cfg, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestColonySpawnQueuedUntilUpdate(t *testing.T) {
	c, _ := newTestColony(t, 1, nil)

	c.Spawn(3, 7)
	if len(c.Ants()) != 0 {
		t.Fatalf("spawned ants joined before Update: %d", len(c.Ants()))
	}
	if c.Pending() != 3 {
		t.Fatalf("pending = %d, want 3", c.Pending())
	}

	c.Update(7)
	if len(c.Ants()) != 3 {
		t.Fatalf("roster = %d after Update, want 3", len(c.Ants()))
	}
	if c.Pending() != 0 {
		t.Errorf("pending = %d after Update, want 0", c.Pending())
	}

	seen := make(map[uint32]bool)
	for _, a := range c.Ants() {
		if seen[a.ID] {
			t.Errorf("duplicate ant id %d", a.ID)
		}
		seen[a.ID] = true
		if a.Position() != c.Position() {
			t.Errorf("ant %d spawned at %v, want nest %v", a.ID, a.Position(), c.Position())
		}
		if a.Mode() != Searching {
			t.Errorf("ant %d spawned in mode %v", a.ID, a.Mode())
		}
		if a.Heading() < 0 || a.Heading() >= 1 {
			t.Errorf("ant %d heading %v outside [0,1)", a.ID, a.Heading())
		}
		if a.Age(10) != 3 {
			t.Errorf("ant %d age = %d, want 3", a.ID, a.Age(10))
		}
	}
}

func TestColonyMaybeSpawn(t *testing.T) {
	c, _ := newTestColony(t, 1, func(cfg *config.Config) { cfg.Colony.SpawnChance = 1 })
	c.MaybeSpawn(0)
	if c.Pending() != 1 {
		t.Errorf("pending = %d with spawn chance 1, want 1", c.Pending())
	}

	c, _ = newTestColony(t, 1, nil)
	for i := int64(0); i < 100; i++ {
		c.MaybeSpawn(i)
	}
	if c.Pending() != 0 {
		t.Errorf("pending = %d with spawn chance 0, want 0", c.Pending())
	}
}

func TestColonyEvictsStrays(t *testing.T) {
	c, _ := newTestColony(t, 1, nil)
	c.Spawn(2, 0)
	c.Update(0)

	stray := c.Ants()[0]
	stray.Place(r2.Add(c.Position(), r2.Vec{X: c.EvictionDistance() + 10}))

	c.Update(1)
	if len(c.Ants()) != 1 {
		t.Fatalf("roster = %d after eviction, want 1", len(c.Ants()))
	}
	if c.Ants()[0] == stray {
		t.Error("stray ant still in roster")
	}

	got := c.DrainCounters()
	if got.Evictions != 1 {
		t.Errorf("evictions = %d, want 1", got.Evictions)
	}
	if again := c.DrainCounters(); again.Evictions != 0 {
		t.Errorf("counters not reset after drain: %+v", again)
	}
}

func TestColonyFoodCommittedOnUpdate(t *testing.T) {
	c, _ := newTestColony(t, 1, nil)

	c.addPendingFood(5)
	c.addPendingFood(2.5)
	if c.Collected() != 0 {
		t.Errorf("collected = %v before Update, want 0", c.Collected())
	}

	c.Update(0)
	if c.Collected() != 7.5 {
		t.Errorf("collected = %v after Update, want 7.5", c.Collected())
	}

	c.Update(1)
	if c.Collected() != 7.5 {
		t.Errorf("collected changed without deliveries: %v", c.Collected())
	}
}

func TestColonyPositions(t *testing.T) {
	c, _ := newTestColony(t, 1, nil)
	c.Spawn(4, 0)
	c.Update(0)

	ants, nest := c.Positions()
	if nest != c.Position() {
		t.Errorf("nest = %v, want %v", nest, c.Position())
	}
	if len(ants) != 4 {
		t.Fatalf("positions = %d, want 4", len(ants))
	}
	for i, p := range ants {
		if p != c.Ants()[i].Position() {
			t.Errorf("position %d = %v, want %v", i, p, c.Ants()[i].Position())
		}
	}
}
