package systems

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/antsim/config"
	"github.com/pthm-cable/antsim/perception"
	"github.com/pthm-cable/antsim/vecmath"
)

// ErrUninitializedPerception is returned when a colony is built without a
// ready perception field.
var ErrUninitializedPerception = errors.New("perception field not initialized")

// Counters are colony events since the last drain.
type Counters struct {
	Grabs         int
	Deliveries    int
	ForcedReturns int
	Evictions     int
}

type colonyCounters struct {
	grabs      atomic.Int64
	deliveries atomic.Int64
	forced     atomic.Int64
	evictions  atomic.Int64
}

// Colony owns its ants and the food they bring home. Ants join the roster
// and leave it only in Update, never during a decision phase.
type Colony struct {
	ID         int
	Faction    int
	HomeRadius float64
	Tuning     Tuning

	position r2.Vec

	ants    []*Agent
	newAnts []*Agent

	collected float64

	foodMu      sync.Mutex
	pendingFood float64

	walk        WalkParams
	field       *Field
	percept     *perception.Field
	evictDist   float64
	spawnChance float64

	rng    *rand.Rand
	nextID uint32

	counters colonyCounters
}

// NewColony creates an empty colony at position. The perception field must be
// built; it is shared read-only by every ant of the colony.
func NewColony(id int, position r2.Vec, field *Field, percept *perception.Field, cfg *config.Config, rng *rand.Rand) (*Colony, error) {
	if !percept.Ready() {
		return nil, ErrUninitializedPerception
	}
	if !field.InBounds(position) {
		return nil, fmt.Errorf("%w: colony at (%.2f, %.2f)", ErrOutOfBounds, position.X, position.Y)
	}

	return &Colony{
		ID:          id,
		Faction:     id,
		HomeRadius:  cfg.Colony.HomeRadius,
		Tuning:      TuningFromConfig(cfg),
		position:    position,
		walk:        WalkParamsFromConfig(cfg),
		field:       field,
		percept:     percept,
		evictDist:   cfg.Derived.EvictionDistance,
		spawnChance: cfg.Colony.SpawnChance,
		rng:         rng,
	}, nil
}

// Position returns the nest position.
func (c *Colony) Position() r2.Vec { return c.position }

// Heading is always 0; nests do not turn.
func (c *Colony) Heading() float64 { return 0 }

// Ants returns the current roster. The slice is owned by the colony and must
// not be modified.
func (c *Colony) Ants() []*Agent { return c.ants }

// Pending returns the number of ants queued to join at the next Update.
func (c *Colony) Pending() int { return len(c.newAnts) }

// Collected returns the committed food total.
func (c *Colony) Collected() float64 { return c.collected }

// EvictionDistance returns the distance from the nest beyond which ants are
// removed at commit.
func (c *Colony) EvictionDistance() float64 { return c.evictDist }

// Positions returns every ant's committed position and the nest position.
func (c *Colony) Positions() ([]r2.Vec, r2.Vec) {
	out := make([]r2.Vec, len(c.ants))
	for i, a := range c.ants {
		out[i] = a.cur.Position
	}
	return out, c.position
}

// Spawn queues count new ants at the nest. They join the roster at the next
// Update and do not act this tick.
func (c *Colony) Spawn(count int, tick int64) {
	for i := 0; i < count; i++ {
		c.nextID++
		start := agentState{Position: c.position}
		a := &Agent{
			ID:        c.nextID,
			BirthTick: tick,
			cur:       start,
			next:      start,
			heading:   c.rng.Float64(),
			turning:   randomTurning(c.rng.Float64()),
			mode:      Searching,
			colony:    c,
			rng:       rand.New(rand.NewSource(c.rng.Int63())),
		}
		c.newAnts = append(c.newAnts, a)
	}
	if count > 0 {
		slog.Debug("ants spawned", "colony", c.ID, "count", count, "tick", tick)
	}
}

// MaybeSpawn queues one ant with the configured per-tick spawn chance.
func (c *Colony) MaybeSpawn(tick int64) {
	if c.spawnChance > 0 && c.rng.Float64() < c.spawnChance {
		c.Spawn(1, tick)
	}
}

// addPendingFood accumulates a delivery. Safe for concurrent use.
func (c *Colony) addPendingFood(amount float64) {
	c.foodMu.Lock()
	c.pendingFood += amount
	c.foodMu.Unlock()
}

// Update is the colony commit phase, run once per tick after every ant has
// decided: evict strays, commit the rest, admit queued ants, and fold pending
// food into the total.
func (c *Colony) Update(tick int64) {
	kept := c.ants[:0]
	for _, a := range c.ants {
		if dist := vecmath.Distance(a.next.Position, c.position); dist > c.evictDist {
			slog.Warn("evicting stray ant",
				"colony", c.ID,
				"ant", a.ID,
				"distance", dist,
				"mode", a.mode.String(),
				"tick", tick,
			)
			c.counters.evictions.Add(1)
			continue
		}
		a.commit()
		kept = append(kept, a)
	}
	clear(c.ants[len(kept):])

	c.ants = append(kept, c.newAnts...)
	clear(c.newAnts)
	c.newAnts = c.newAnts[:0]

	c.foodMu.Lock()
	c.collected += c.pendingFood
	c.pendingFood = 0
	c.foodMu.Unlock()
}

// DrainCounters returns the events since the previous drain and resets them.
func (c *Colony) DrainCounters() Counters {
	return Counters{
		Grabs:         int(c.counters.grabs.Swap(0)),
		Deliveries:    int(c.counters.deliveries.Swap(0)),
		ForcedReturns: int(c.counters.forced.Swap(0)),
		Evictions:     int(c.counters.evictions.Swap(0)),
	}
}
