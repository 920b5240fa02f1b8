package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/antsim/config"
)

func init() {
	config.MustInit("")
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// Methods are nil-safe.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("WriteTelemetry on nil: %v", err)
	}
	if err := om.WriteConfig(config.Cfg()); err != nil {
		t.Errorf("WriteConfig on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := int64(1); i <= 3; i++ {
		stats := WindowStats{WindowEndTick: i * 500, Ants: 30, Deliveries: int(i), Collected: float64(i) * 5}
		if err := om.WriteTelemetry(stats); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
		if err := om.WritePerf(PerfStats{PhasePct: map[string]float64{PhaseDecide: 90}}, i*500); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkFirstDelivery, Tick: 500, Description: "first"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.WriteConfig(config.Cfg()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	if n := strings.Count(string(data), "window_end"); n != 1 {
		t.Errorf("header written %d times, want 1", n)
	}

	var rows []*WindowStats
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		t.Fatalf("parsing telemetry.csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[2].WindowEndTick != 1500 || rows[2].Deliveries != 3 || rows[2].Collected != 15 {
		t.Errorf("last row = %+v", rows[2])
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}
	var perfRows []*PerfStatsCSV
	if err := gocsv.UnmarshalBytes(perf, &perfRows); err != nil {
		t.Fatalf("parsing perf.csv: %v", err)
	}
	if len(perfRows) != 3 || perfRows[0].DecidePct != 90 {
		t.Errorf("perf rows = %+v", perfRows)
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml does not load back: %v", err)
	}
}
