package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/antsim/config"
	"github.com/pthm-cable/antsim/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and snapshots")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, or time-based if that is 0 too)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = use config)")
	workers := flag.Int("workers", 0, "Decision-phase workers (0 = use config)")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Simulation.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	limit := *maxTicks
	if limit == 0 {
		limit = cfg.Simulation.MaxTicks
	}

	w, err := game.NewWorld(cfg, game.Options{
		Seed:      rngSeed,
		Workers:   *workers,
		OutputDir: *outputDir,
		LogStats:  *logStats,
	})
	if err != nil {
		slog.Error("failed to create world", "error", err)
		os.Exit(1)
	}
	if err := game.SetupScenario(w); err != nil {
		slog.Error("failed to set up scenario", "error", err)
		w.Close()
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"pattern", cfg.Food.Pattern,
		"ants", cfg.Colony.InitialAnts,
		"max_ticks", limit,
	)

	start := time.Now()
	code := 0
	for !w.Done() {
		if limit > 0 && w.Tick() >= int64(limit) {
			slog.Info("max ticks reached", "tick", w.Tick(), "food_remaining", w.FoodRemaining())
			break
		}
		if err := w.Advance(); err != nil {
			slog.Error("simulation aborted", "tick", w.Tick(), "error", err)
			code = 1
			break
		}
	}

	for _, c := range w.Colonies() {
		slog.Info("colony result",
			"colony", c.ID,
			"collected", c.Collected(),
			"ants", len(c.Ants()),
		)
	}
	slog.Info("simulation finished",
		"tick", w.Tick(),
		"done", w.Done(),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)

	if *outputDir != "" {
		w.SaveSnapshot(*outputDir, nil)
	}
	if err := w.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
		code = 1
	}
	os.Exit(code)
}
