package main

import (
	"github.com/pthm-cable/antsim/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Steering
			{Name: "target_weight", Path: "agent.target_weight", Min: 0.1, Max: 1.0, Default: 0.7},
			{Name: "sniff_weight", Path: "agent.sniff_weight", Min: 0.0, Max: 1.0, Default: 0.5},
			{Name: "max_turn", Path: "agent.max_turn", Min: 0.005, Max: 0.25, Default: 0.05},
			{Name: "turn_divisor", Path: "agent.turn_divisor", Min: 2, Max: 100, Default: 20},
			{Name: "noise_mix", Path: "colony.noise_mix", Min: 0.0, Max: 1.0, Default: 0.5},
			// Foraging
			{Name: "food_range", Path: "agent.food_range", Min: 5, Max: 80, Default: 20},
			// Pheromone
			{Name: "evaporate_rate", Path: "world.evaporate_rate", Min: 0.9, Max: 0.999, Default: 0.99},
			{Name: "threshold", Path: "perception.threshold", Min: 0.0, Max: 2.0, Default: 0.1},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Agent.TargetWeight = clamped[0]
	cfg.Agent.SniffWeight = clamped[1]
	cfg.Agent.MaxTurn = clamped[2]
	cfg.Agent.TurnDivisor = clamped[3]
	cfg.Colony.NoiseMix = clamped[4]
	cfg.Agent.FoodRange = clamped[5]
	cfg.World.EvaporateRate = clamped[6]
	cfg.Perception.Threshold = clamped[7]

	cfg.ComputeDerived()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Agent.TargetWeight,
		cfg.Agent.SniffWeight,
		cfg.Agent.MaxTurn,
		cfg.Agent.TurnDivisor,
		cfg.Colony.NoiseMix,
		cfg.Agent.FoodRange,
		cfg.World.EvaporateRate,
		cfg.Perception.Threshold,
	}
}
