// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Colony     ColonyConfig     `yaml:"colony"`
	Agent      AgentConfig      `yaml:"agent"`
	Perception PerceptionConfig `yaml:"perception"`
	Food       FoodConfig       `yaml:"food"`
	Simulation SimulationConfig `yaml:"simulation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the pheromone field dimensions and decay.
type WorldConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	EvaporateRate float64 `yaml:"evaporate_rate"` // current = current*rate + pending, in (0,1)
	DepositAmount float64 `yaml:"deposit_amount"` // pheromone laid per tick by a returning ant
}

// ColonyConfig holds nest placement and the per-colony tuning.
type ColonyConfig struct {
	X              float64 `yaml:"x"`
	Y              float64 `yaml:"y"`
	HomeRadius     float64 `yaml:"home_radius"`
	InitialAnts    int     `yaml:"initial_ants"`
	EvictionMargin float64 `yaml:"eviction_margin"` // evict beyond min(W,H)/2 - margin
	SpawnChance    float64 `yaml:"spawn_chance"`    // per-tick chance to enqueue one ant

	NoiseMix        float64 `yaml:"noise_mix"`        // weight of the chaotic term vs pure random
	ChaoticConstant float64 `yaml:"chaotic_constant"` // logistic map constant, only 4 is stable
	SniffRadius     int     `yaml:"sniff_radius"`     // wide sniff kernel radius in cells
	FoodGrabRadius  float64 `yaml:"food_grab_radius"`
}

// AgentConfig holds walk and foraging parameters.
type AgentConfig struct {
	WalkSpeed    float64 `yaml:"walk_speed"`
	TurnDivisor  float64 `yaml:"turn_divisor"`  // scales the noise delta down
	MaxTurn      float64 `yaml:"max_turn"`      // max bearing correction per tick, in turns
	TargetWeight float64 `yaml:"target_weight"` // blend toward food/home
	SniffWeight  float64 `yaml:"sniff_weight"`  // blend toward a sensed trail
	FoodRange    float64 `yaml:"food_range"`    // food detection distance
	GrabAmount   float64 `yaml:"grab_amount"`
	TooFarAway   float64 `yaml:"too_far_away"` // distance from home that forces a return
}

// PerceptionConfig holds sniff kernel and gating parameters.
type PerceptionConfig struct {
	BaseWeight       float64 `yaml:"base_weight"`
	Threshold        float64 `yaml:"threshold"`
	LogisticMidpoint float64 `yaml:"logistic_midpoint"`
	LogisticScale    float64 `yaml:"logistic_scale"`
	LogisticRate     float64 `yaml:"logistic_rate"`
}

// FoodConfig describes the initial food layout.
type FoodConfig struct {
	Pattern         string  `yaml:"pattern"` // "cross" or "random"
	Piles           int     `yaml:"piles"`
	Amount          float64 `yaml:"amount"`
	Distance        float64 `yaml:"distance"` // distance of piles from the nest
	DepletedEpsilon float64 `yaml:"depleted_epsilon"`
}

// SimulationConfig holds run parameters.
type SimulationConfig struct {
	Seed     int64 `yaml:"seed"`
	Workers  int   `yaml:"workers"` // >1 enables the parallel decision phase
	MaxTicks int   `yaml:"max_ticks"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // ticks per window
	PerfWindow  int `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	EvictionDistance float64 // min(W,H)/2 - eviction margin
	TrailRadius      int     // max(2, sniff_radius/5)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("%w: world size %dx%d", ErrInvalid, c.World.Width, c.World.Height)
	case c.World.EvaporateRate <= 0 || c.World.EvaporateRate >= 1:
		return fmt.Errorf("%w: evaporate_rate %v outside (0,1)", ErrInvalid, c.World.EvaporateRate)
	case c.Colony.ChaoticConstant != 4:
		// Larger constants let the iterate escape [0,1].
		return fmt.Errorf("%w: chaotic_constant %v, only 4 is supported", ErrInvalid, c.Colony.ChaoticConstant)
	case c.Colony.NoiseMix < 0 || c.Colony.NoiseMix > 1:
		return fmt.Errorf("%w: noise_mix %v outside [0,1]", ErrInvalid, c.Colony.NoiseMix)
	case c.Colony.SniffRadius < 1:
		return fmt.Errorf("%w: sniff_radius %d", ErrInvalid, c.Colony.SniffRadius)
	case c.Agent.TargetWeight < 0 || c.Agent.TargetWeight > 1:
		return fmt.Errorf("%w: target_weight %v outside [0,1]", ErrInvalid, c.Agent.TargetWeight)
	case c.Agent.SniffWeight < 0 || c.Agent.SniffWeight > 1:
		return fmt.Errorf("%w: sniff_weight %v outside [0,1]", ErrInvalid, c.Agent.SniffWeight)
	case c.Perception.LogisticScale <= 0 || c.Perception.LogisticScale > 1:
		return fmt.Errorf("%w: logistic_scale %v outside (0,1]", ErrInvalid, c.Perception.LogisticScale)
	case c.Agent.TurnDivisor <= 0:
		return fmt.Errorf("%w: turn_divisor %v", ErrInvalid, c.Agent.TurnDivisor)
	case c.Agent.WalkSpeed <= 0:
		return fmt.Errorf("%w: walk_speed %v", ErrInvalid, c.Agent.WalkSpeed)
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config.
func (c *Config) ComputeDerived() {
	minDim := math.Min(float64(c.World.Width), float64(c.World.Height))
	c.Derived.EvictionDistance = minDim/2 - c.Colony.EvictionMargin
	c.Derived.TrailRadius = max(2, c.Colony.SniffRadius/5)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
