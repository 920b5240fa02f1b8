package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/antsim/components"
	"github.com/pthm-cable/antsim/config"
	"github.com/pthm-cable/antsim/perception"
	"github.com/pthm-cable/antsim/systems"
	"github.com/pthm-cable/antsim/telemetry"
)

// Options configures a World beyond the YAML config.
type Options struct {
	Seed      int64  // RNG seed; 0 uses cfg.Simulation.Seed
	Workers   int    // decision-phase workers; 0 uses cfg.Simulation.Workers
	OutputDir string // CSV output directory; empty disables file output
	LogStats  bool   // log window and perf stats via slog

	// StatsCallback, if set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// foodEntry is a food pile as seen by agents during one decision phase.
type foodEntry struct {
	entity ecs.Entity
	pos    r2.Vec
}

// World owns the pheromone field, the colonies and the food piles, and
// advances them one tick at a time.
type World struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	field    *systems.Field
	percept  *perception.Field
	colonies []*systems.Colony

	// Food piles live in an ECS world.
	ecs        *ecs.World
	foodMapper *ecs.Map2[components.Position, components.Food]
	foodFilter *ecs.Filter2[components.Position, components.Food]
	foodMap    *ecs.Map1[components.Food]

	// sightings and foodGrid are rebuilt before every decision phase and are
	// read-only while agents decide. foodMu serializes Take.
	sightings []foodEntry
	foodGrid  *systems.SpatialGrid
	foodMu    sync.Mutex

	tick     int64
	parallel *parallelState

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	bookmarks     *telemetry.BookmarkDetector
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// NewWorld creates an empty world: a field sized from cfg and no colonies or
// food. Use AddColony, SpawnFood or SetupScenario to populate it.
func NewWorld(cfg *config.Config, opts Options) (*World, error) {
	field, err := systems.NewField(cfg.World.Width, cfg.World.Height, cfg.World.EvaporateRate)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	workers := opts.Workers
	if workers == 0 {
		workers = cfg.Simulation.Workers
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	world := ecs.NewWorld()
	w := &World{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
		seed:    seed,
		field:   field,
		percept: perception.New(cfg.Colony.SniffRadius, cfg.Perception.BaseWeight, cfg.Perception.Threshold),

		ecs:        world,
		foodMapper: ecs.NewMap2[components.Position, components.Food](world),
		foodFilter: ecs.NewFilter2[components.Position, components.Food](world),
		foodMap:    ecs.NewMap1[components.Food](world),
		foodGrid:   systems.NewSpatialGrid(cfg.World.Width, cfg.World.Height, cfg.Agent.FoodRange),

		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarks:     telemetry.NewBookmarkDetector(10),
		output:        output,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}
	if workers > 1 {
		w.parallel = newParallelState(workers)
	}
	return w, nil
}

// AddColony creates a colony at position. Its initial ants join the roster
// immediately and act from the next tick.
func (w *World) AddColony(position r2.Vec, ants int) (*systems.Colony, error) {
	rng := rand.New(rand.NewSource(w.rng.Int63()))
	c, err := systems.NewColony(len(w.colonies), position, w.field, w.percept, w.cfg, rng)
	if err != nil {
		return nil, err
	}
	c.Spawn(ants, w.tick)
	c.Update(w.tick)
	w.colonies = append(w.colonies, c)

	slog.Debug("colony added", "colony", c.ID, "x", position.X, "y", position.Y, "ants", ants)
	return c, nil
}

// SpawnFood places a food pile. Piles become visible to agents on the next
// decision phase.
func (w *World) SpawnFood(position r2.Vec, amount float64) error {
	if !w.field.InBounds(position) {
		return fmt.Errorf("%w: food at (%.2f, %.2f)", systems.ErrOutOfBounds, position.X, position.Y)
	}
	pos := components.PositionOf(position)
	food := components.Food{Amount: amount}
	w.foodMapper.NewEntity(&pos, &food)
	return nil
}

// Advance runs one tick: every colony decides and commits in turn, then the
// field commits, then depleted food is removed. The first decision error
// aborts the tick and is returned; the world is then partially advanced.
func (w *World) Advance() error {
	w.perf.StartTick()
	w.snapshotFood()

	for _, c := range w.colonies {
		w.perf.StartPhase(telemetry.PhaseDecide)
		if err := w.decide(c.Ants()); err != nil {
			w.perf.EndTick()
			return fmt.Errorf("tick %d colony %d: %w", w.tick, c.ID, err)
		}

		w.perf.StartPhase(telemetry.PhaseColonyCommit)
		c.MaybeSpawn(w.tick)
		c.Update(w.tick)
	}

	w.perf.StartPhase(telemetry.PhaseFieldCommit)
	w.field.Commit()

	w.perf.StartPhase(telemetry.PhaseFoodCleanup)
	w.removeDepletedFood()

	w.tick++

	w.perf.StartPhase(telemetry.PhaseTelemetry)
	w.recordTelemetry()

	w.perf.EndTick()
	return nil
}

// decide runs the decision phase for one colony's roster.
func (w *World) decide(ants []*systems.Agent) error {
	if w.parallel != nil && len(ants) >= parallelThreshold {
		return w.parallel.decide(ants, w)
	}
	for _, a := range ants {
		if err := a.Do(w); err != nil {
			return err
		}
	}
	return nil
}

// snapshotFood records the current piles for agents to search.
func (w *World) snapshotFood() {
	w.sightings = w.sightings[:0]
	w.foodGrid.Clear()
	query := w.foodFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		w.foodGrid.Insert(len(w.sightings), pos.Vec())
		w.sightings = append(w.sightings, foodEntry{entity: query.Entity(), pos: pos.Vec()})
	}
}

// Nearest returns the closest pile within radius of p. Piles emptied earlier
// in the same tick are still reported; Take on them returns 0.
func (w *World) Nearest(p r2.Vec, radius float64) (systems.FoodSighting, bool) {
	ref, pos, dist, ok := w.foodGrid.Nearest(p, radius)
	return systems.FoodSighting{Ref: ref, Position: pos, Distance: dist}, ok
}

// Take removes up to request from the sighted pile. Safe for concurrent use.
func (w *World) Take(ref int, request float64) float64 {
	if ref < 0 || ref >= len(w.sightings) {
		return 0
	}
	w.foodMu.Lock()
	defer w.foodMu.Unlock()
	return w.foodMap.Get(w.sightings[ref].entity).Take(request)
}

// removeDepletedFood deletes empty piles between decision phases.
func (w *World) removeDepletedFood() {
	eps := w.cfg.Food.DepletedEpsilon

	// First pass: collect (must complete before modifying)
	var toRemove []foodEntry
	query := w.foodFilter.Query()
	for query.Next() {
		pos, food := query.Get()
		if food.Depleted(eps) {
			toRemove = append(toRemove, foodEntry{entity: query.Entity(), pos: pos.Vec()})
		}
	}

	// Second pass: remove (query iteration complete)
	for _, f := range toRemove {
		slog.Info("food depleted", "x", f.pos.X, "y", f.pos.Y, "tick", w.tick)
		w.ecs.RemoveEntity(f.entity)
		w.collector.RecordDepletion()
	}
}

// FoodCount returns the number of piles left.
func (w *World) FoodCount() int {
	n := 0
	query := w.foodFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// FoodRemaining returns the total amount left across all piles.
func (w *World) FoodRemaining() float64 {
	var total float64
	query := w.foodFilter.Query()
	for query.Next() {
		_, food := query.Get()
		total += food.Amount
	}
	return total
}

// Foods returns the remaining piles for rendering.
func (w *World) Foods() []FoodView {
	var out []FoodView
	query := w.foodFilter.Query()
	for query.Next() {
		pos, food := query.Get()
		out = append(out, FoodView{At: pos.Vec(), Amount: food.Amount})
	}
	return out
}

// Done reports whether all food has been collected.
func (w *World) Done() bool {
	return w.FoodCount() == 0
}

// Tick returns the number of completed ticks.
func (w *World) Tick() int64 { return w.tick }

// Seed returns the seed the world was built with.
func (w *World) Seed() int64 { return w.seed }

// Field returns the pheromone field.
func (w *World) Field() *systems.Field { return w.field }

// Colonies returns the colonies in tick order.
func (w *World) Colonies() []*systems.Colony { return w.colonies }

// Drawables returns every colony, ant and food pile for a renderer.
func (w *World) Drawables() []components.Drawable {
	var out []components.Drawable
	for _, c := range w.colonies {
		out = append(out, c)
		for _, a := range c.Ants() {
			out = append(out, a)
		}
	}
	for _, f := range w.Foods() {
		out = append(out, f)
	}
	return out
}

// Close stops workers and flushes output files.
func (w *World) Close() error {
	if w.parallel != nil {
		w.parallel.stopWorkers()
	}
	return w.output.Close()
}

// FoodView is a read-only food pile for renderers.
type FoodView struct {
	At     r2.Vec
	Amount float64
}

// Position returns the pile position.
func (f FoodView) Position() r2.Vec { return f.At }

// Heading is always 0.
func (f FoodView) Heading() float64 { return 0 }

var (
	_ systems.FoodSource  = (*World)(nil)
	_ components.Drawable = FoodView{}
	_ components.Drawable = (*systems.Colony)(nil)
	_ components.Drawable = (*systems.Agent)(nil)
)
