// Package systems provides the foraging simulation: the pheromone field,
// colonies and their ants.
package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/antsim/components"
	"github.com/pthm-cable/antsim/perception"
	"github.com/pthm-cable/antsim/vecmath"
)

// Mode is an agent's foraging state.
type Mode uint8

const (
	Searching       Mode = iota // wandering, following trails, looking for food
	Returning                   // carrying food home and laying a trail
	ForcedReturning             // strayed too far, heading home without a trail
)

// String returns the display name for a Mode.
func (m Mode) String() string {
	switch m {
	case Searching:
		return "searching"
	case Returning:
		return "returning"
	case ForcedReturning:
		return "forced_returning"
	}
	return "unknown"
}

// agentState is the double-buffered, field-visible part of an agent.
type agentState struct {
	Position r2.Vec
	Carried  float64
}

// walkTrace records the signals behind the last walk, for overlays only.
type walkTrace struct {
	noise     float64
	target    perception.Reading
	sniffed   perception.Reading
	hasTarget bool
}

// Agent is one ant. Position and carried food are double-buffered: Do writes
// next, the owning colony's Update commits it. Heading, the chaotic iterate
// and the mode are the agent's private decision state and change immediately.
type Agent struct {
	ID        uint32
	BirthTick int64

	cur, next agentState

	heading float64
	turning float64
	mode    Mode

	colony *Colony
	rng    *rand.Rand

	trace walkTrace
}

// Position returns the committed position.
func (a *Agent) Position() r2.Vec { return a.cur.Position }

// Heading returns the current heading in [0,1).
func (a *Agent) Heading() float64 { return a.heading }

// Mode returns the current foraging mode.
func (a *Agent) Mode() Mode { return a.mode }

// Carried returns the committed amount of food carried.
func (a *Agent) Carried() float64 { return a.cur.Carried }

// Turning returns the chaotic iterate.
func (a *Agent) Turning() float64 { return a.turning }

// Age returns the number of ticks since the agent was spawned.
func (a *Agent) Age(tick int64) int64 { return tick - a.BirthTick }

// Place moves the agent immediately, bypassing the double buffer. Intended
// for scenario setup between ticks.
func (a *Agent) Place(p r2.Vec) {
	a.cur.Position = p
	a.next.Position = p
}

// SetHeading overrides the heading. Intended for scenario setup.
func (a *Agent) SetHeading(h float64) {
	a.heading = vecmath.Wrap(h)
}

// Do runs the agent's decision phase for one tick. It reads only committed
// state and writes its outcome to pending state.
func (a *Agent) Do(foods FoodSource) error {
	a.next = a.cur
	c := a.colony
	distHome := vecmath.Distance(a.cur.Position, c.position)

	switch a.mode {
	case Searching:
		if distHome > c.walk.TooFarAway {
			a.mode = ForcedReturning
			c.counters.forced.Add(1)
			return a.forcedReturn(foods, distHome)
		}
		return a.search(foods)

	case Returning:
		if distHome <= c.HomeRadius {
			a.drop()
			a.mode = Searching
			return nil
		}
		if err := c.field.Deposit(a.cur.Position, c.walk.DepositAmount); err != nil {
			return err
		}
		home := c.position
		return a.walk(&home)

	case ForcedReturning:
		return a.forcedReturn(foods, distHome)
	}
	return nil
}

func (a *Agent) search(foods FoodSource) error {
	c := a.colony
	s, ok := foods.Nearest(a.cur.Position, c.walk.FoodRange)
	if !ok {
		return a.walk(nil)
	}
	if s.Distance <= c.Tuning.FoodGrabRadius {
		if a.grab(foods, s) > 0 {
			a.mode = Returning
			return nil
		}
		// emptied by another ant this tick
		return a.walk(nil)
	}
	target := s.Position
	return a.walk(&target)
}

func (a *Agent) forcedReturn(foods FoodSource, distHome float64) error {
	c := a.colony
	if distHome <= c.HomeRadius {
		a.drop()
		a.mode = Searching
		return nil
	}
	if s, ok := foods.Nearest(a.cur.Position, c.Tuning.FoodGrabRadius); ok {
		if a.grab(foods, s) > 0 {
			a.mode = Returning
			return nil
		}
	}
	home := c.position
	return a.walk(&home)
}

// grab takes up to GrabAmount from the sighted pile into pending carried food.
func (a *Agent) grab(foods FoodSource, s FoodSighting) float64 {
	taken := foods.Take(s.Ref, a.colony.walk.GrabAmount)
	if taken > 0 {
		a.next.Carried += taken
		a.colony.counters.grabs.Add(1)
	}
	return taken
}

// drop hands carried food to the colony's pending accumulator.
func (a *Agent) drop() {
	if a.cur.Carried > 0 {
		a.colony.addPendingFood(a.cur.Carried)
		a.colony.counters.deliveries.Add(1)
	}
	a.next.Carried = 0
}

// DebugVectors reports the signals behind the last walk.
func (a *Agent) DebugVectors() map[string]components.DebugVector {
	out := map[string]components.DebugVector{
		"heading": {Heading: a.heading, Color: components.ColorHeading, Magnitude: 1},
		"noise": {
			Heading:   vecmath.Wrap(a.heading + a.trace.noise),
			Color:     components.ColorNoise,
			Magnitude: math.Abs(a.trace.noise) * a.colony.walk.TurnDivisor,
		},
	}
	if a.trace.hasTarget {
		out["target"] = components.DebugVector{Heading: a.trace.target.Heading, Color: components.ColorTarget, Magnitude: 1}
	}
	if a.trace.sniffed.Magnitude > 0 {
		out["sniff"] = components.DebugVector{
			Heading:   a.trace.sniffed.Heading,
			Color:     components.ColorSniff,
			Magnitude: a.trace.sniffed.Magnitude,
		}
	}
	return out
}

// commit promotes pending state.
func (a *Agent) commit() {
	a.cur = a.next
}

var _ components.DebugAnnotated = (*Agent)(nil)
