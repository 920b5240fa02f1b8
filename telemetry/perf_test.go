package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseDecide)
		time.Sleep(200 * time.Microsecond)
		pc.StartPhase(PhaseFieldCommit)
		time.Sleep(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if _, ok := stats.PhaseAvg[PhaseDecide]; !ok {
		t.Error("expected decide phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseFieldCommit]; !ok {
		t.Error("expected field_commit phase to be tracked")
	}
}

func TestPerfCollector_RepeatedPhaseAccumulates(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.StartTick()
	pc.StartPhase(PhaseDecide)
	time.Sleep(100 * time.Microsecond)
	pc.StartPhase(PhaseColonyCommit)
	pc.StartPhase(PhaseDecide)
	time.Sleep(100 * time.Microsecond)
	pc.EndTick()

	stats := pc.Stats()
	if stats.PhaseAvg[PhaseDecide] < 200*time.Microsecond {
		t.Errorf("decide = %v, expected both entries to add up", stats.PhaseAvg[PhaseDecide])
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseDecide)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct["slow"] <= stats.PhasePct["fast"] {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", stats.PhasePct["slow"], stats.PhasePct["fast"])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}
	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		PhasePct: map[string]float64{
			PhaseDecide:      80,
			PhaseFieldCommit: 15,
		},
	}

	row := stats.ToCSV(1000)
	if row.WindowEnd != 1000 {
		t.Errorf("window_end = %d, want 1000", row.WindowEnd)
	}
	if row.AvgTickUS != 1500 {
		t.Errorf("avg_tick_us = %d, want 1500", row.AvgTickUS)
	}
	if row.DecidePct != 80 || row.FieldCommitPct != 15 || row.ColonyCommitPct != 0 {
		t.Errorf("unexpected phase columns: %+v", row)
	}
}
