package main

import (
	"log/slog"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/antsim/config"
	"github.com/pthm-cable/antsim/game"
)

// FitnessEvaluator runs headless foraging runs and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int64
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // mean fraction of food collected in the latest Evaluate
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the collected fraction from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	ticks     int64   // ticks until all food was gathered, or maxTicks
	collected float64 // fraction of the initial food delivered or carried
	err       error
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	fitness := make([]float64, len(results))
	quality := make([]float64, len(results))
	for i, r := range results {
		if r.err != nil {
			slog.Warn("run failed", "seed", fe.seeds[i], "error", r.err)
		}
		fitness[i] = fe.computeFitness(r)
		quality[i] = r.collected
	}

	fe.mu.Lock()
	fe.lastQuality = stat.Mean(quality, nil)
	fe.mu.Unlock()

	return stat.Mean(fitness, nil)
}

// runSimulation executes a single headless run of the configured scenario.
// Runs until all food is gathered or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	var result runResult
	w, err := game.NewWorld(cfg, game.Options{Seed: seed})
	if err != nil {
		result.err = err
		return result
	}
	defer w.Close()

	if err := game.SetupScenario(w); err != nil {
		result.err = err
		return result
	}
	initial := w.FoodRemaining()

	for !w.Done() && w.Tick() < fe.maxTicks {
		if err := w.Advance(); err != nil {
			result.err = err
			break
		}
	}

	result.ticks = w.Tick()
	if initial > 0 {
		result.collected = 1 - w.FoodRemaining()/initial
	}
	return result
}

// copyConfig creates a copy of the base config. Config holds only values.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// A run that gathers everything scores its tick count. Unfinished or failed
// runs score maxTicks plus a penalty for the food left behind.
func (fe *FitnessEvaluator) computeFitness(r runResult) float64 {
	if r.err != nil {
		return 2 * float64(fe.maxTicks)
	}
	if r.collected >= 1 {
		return float64(r.ticks)
	}
	return float64(fe.maxTicks) * (2 - r.collected)
}
