// Package telemetry provides foraging statistics, perf timing, milestone
// bookmarks, snapshots and CSV output for simulation runs.
package telemetry

import "github.com/pthm-cable/antsim/systems"

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks int64

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	grabs         int
	deliveries    int
	forcedReturns int
	evictions     int
	depletedPiles int
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int64(windowTicks)}
}

// Record adds a colony's drained counters to the current window.
func (c *Collector) Record(counters systems.Counters) {
	c.grabs += counters.Grabs
	c.deliveries += counters.Deliveries
	c.forcedReturns += counters.ForcedReturns
	c.evictions += counters.Evictions
}

// RecordDepletion records a food pile removed from the world.
func (c *Collector) RecordDepletion() {
	c.depletedPiles++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// PopulationSnapshot is the world state sampled at the end of a window.
type PopulationSnapshot struct {
	Ants            int
	Searching       int
	Returning       int
	ForcedReturning int

	Collected     float64
	Carried       float64
	FoodRemaining float64
	FoodPiles     int
	FieldTotal    float64

	// HomeDistances holds each ant's distance from its nest.
	HomeDistances []float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, pop PopulationSnapshot) WindowStats {
	mean, std, p50, p90 := ComputeDistanceStats(pop.HomeDistances)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Ants:            pop.Ants,
		Searching:       pop.Searching,
		Returning:       pop.Returning,
		ForcedReturning: pop.ForcedReturning,

		Grabs:         c.grabs,
		Deliveries:    c.deliveries,
		ForcedReturns: c.forcedReturns,
		Evictions:     c.evictions,
		DepletedPiles: c.depletedPiles,

		Collected:     pop.Collected,
		Carried:       pop.Carried,
		FoodRemaining: pop.FoodRemaining,
		FoodPiles:     pop.FoodPiles,
		FieldTotal:    pop.FieldTotal,

		HomeDistMean: mean,
		HomeDistStd:  std,
		HomeDistP50:  p50,
		HomeDistP90:  p90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.grabs = 0
	c.deliveries = 0
	c.forcedReturns = 0
	c.evictions = 0
	c.depletedPiles = 0

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}
