package main

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/antsim/config"
)

func TestParamVectorApplyExtract(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	defaults := pv.ExtractFromConfig(cfg)
	if len(defaults) != pv.Dim() {
		t.Fatalf("extracted %d values, want %d", len(defaults), pv.Dim())
	}
	for i, spec := range pv.Specs {
		if defaults[i] != spec.Default {
			t.Errorf("%s: config default %v, spec default %v", spec.Name, defaults[i], spec.Default)
		}
	}

	// Midpoint of every range.
	mid := make([]float64, pv.Dim())
	for i := range mid {
		mid[i] = 0.5
	}
	raw := pv.Denormalize(mid)
	pv.ApplyToConfig(cfg, raw)

	got := pv.ExtractFromConfig(cfg)
	for i := range raw {
		if math.Abs(got[i]-raw[i]) > 1e-12 {
			t.Errorf("%s: applied %v, extracted %v", pv.Specs[i].Name, raw[i], got[i])
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}
}

func TestParamVectorClamp(t *testing.T) {
	pv := NewParamVector()
	below := make([]float64, pv.Dim())
	above := make([]float64, pv.Dim())
	for i := range below {
		below[i] = -1
		above[i] = 2
	}

	lo := pv.Clamp(pv.Denormalize(below))
	hi := pv.Clamp(pv.Denormalize(above))
	for i, spec := range pv.Specs {
		if lo[i] != spec.Min || hi[i] != spec.Max {
			t.Errorf("%s: clamped to [%v, %v], want [%v, %v]", spec.Name, lo[i], hi[i], spec.Min, spec.Max)
		}
	}
}

func TestComputeFitnessOrdering(t *testing.T) {
	fe := &FitnessEvaluator{maxTicks: 1000}

	fast := fe.computeFitness(runResult{ticks: 200, collected: 1})
	slow := fe.computeFitness(runResult{ticks: 900, collected: 1})
	partial := fe.computeFitness(runResult{ticks: 1000, collected: 0.8})
	nothing := fe.computeFitness(runResult{ticks: 1000})
	failed := fe.computeFitness(runResult{ticks: 10, collected: 0.9, err: errors.New("boom")})

	if !(fast < slow && slow < partial && partial < nothing && nothing <= failed) {
		t.Errorf("fitness ordering broken: fast %v slow %v partial %v nothing %v failed %v",
			fast, slow, partial, nothing, failed)
	}
}
