package game

import (
	"log/slog"

	"github.com/pthm-cable/antsim/systems"
	"github.com/pthm-cable/antsim/telemetry"
	"github.com/pthm-cable/antsim/vecmath"
)

// recordTelemetry drains colony counters every tick and flushes a stats
// window when one is complete.
func (w *World) recordTelemetry() {
	for _, c := range w.colonies {
		w.collector.Record(c.DrainCounters())
	}
	if !w.collector.ShouldFlush(w.tick) {
		return
	}

	stats := w.collector.Flush(w.tick, w.samplePopulation())
	perfStats := w.perf.Stats()

	// Call stats callback if provided
	if w.statsCallback != nil {
		w.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if w.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := w.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := w.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range w.bookmarks.Check(stats) {
		if w.logStats {
			bm.LogBookmark()
		}
		if err := w.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if dir := w.output.Dir(); dir != "" {
			w.SaveSnapshot(dir, &bm)
		}
	}
}

// samplePopulation counts ants by mode and gathers their distances from home.
func (w *World) samplePopulation() telemetry.PopulationSnapshot {
	pop := telemetry.PopulationSnapshot{
		FoodRemaining: w.FoodRemaining(),
		FoodPiles:     w.FoodCount(),
		FieldTotal:    w.field.Sum(),
	}
	for _, c := range w.colonies {
		pop.Collected += c.Collected()
		home := c.Position()
		for _, a := range c.Ants() {
			pop.Ants++
			switch a.Mode() {
			case systems.Searching:
				pop.Searching++
			case systems.Returning:
				pop.Returning++
			case systems.ForcedReturning:
				pop.ForcedReturning++
			}
			pop.Carried += a.Carried()
			pop.HomeDistances = append(pop.HomeDistances, vecmath.Distance(a.Position(), home))
		}
	}
	return pop
}

// SaveSnapshot writes the current state to dir, logging any failure.
func (w *World) SaveSnapshot(dir string, bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(w.Snapshot(bookmark), dir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", w.tick)
}

// Snapshot builds a snapshot of the committed state.
func (w *World) Snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	width, height := w.field.GridSize()
	snapshot := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		Seed:        w.seed,
		FieldWidth:  width,
		FieldHeight: height,
		Tick:        w.tick,
		FieldTotal:  w.field.Sum(),
		Bookmark:    bookmark,
	}

	for _, c := range w.colonies {
		pos := c.Position()
		cs := telemetry.ColonyState{
			ID:        c.ID,
			X:         pos.X,
			Y:         pos.Y,
			Collected: c.Collected(),
			Ants:      make([]telemetry.AntState, 0, len(c.Ants())),
		}
		for _, a := range c.Ants() {
			p := a.Position()
			cs.Ants = append(cs.Ants, telemetry.AntState{
				ID:        a.ID,
				X:         p.X,
				Y:         p.Y,
				Heading:   a.Heading(),
				Carried:   a.Carried(),
				Mode:      a.Mode().String(),
				BirthTick: a.BirthTick,
			})
		}
		snapshot.Colonies = append(snapshot.Colonies, cs)
	}

	for _, f := range w.Foods() {
		snapshot.Food = append(snapshot.Food, telemetry.FoodState{X: f.At.X, Y: f.At.Y, Amount: f.Amount})
	}

	return snapshot
}
