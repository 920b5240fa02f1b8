package systems

import "github.com/pthm-cable/antsim/config"

// Tuning is the per-colony behavior tuning.
type Tuning struct {
	NoiseMix        float64 // weight of the chaotic term against pure random noise
	ChaoticConstant float64 // logistic map constant
	SniffRadius     int
	FoodGrabRadius  float64
}

// WalkParams holds the agent walk and foraging parameters shared by a colony.
type WalkParams struct {
	WalkSpeed     float64
	TurnDivisor   float64
	MaxTurn       float64
	TargetWeight  float64
	SniffWeight   float64
	FoodRange     float64
	GrabAmount    float64
	TooFarAway    float64
	DepositAmount float64

	LogisticMidpoint float64
	LogisticScale    float64
	LogisticRate     float64
}

// TuningFromConfig extracts the colony tuning from cfg.
func TuningFromConfig(cfg *config.Config) Tuning {
	return Tuning{
		NoiseMix:        cfg.Colony.NoiseMix,
		ChaoticConstant: cfg.Colony.ChaoticConstant,
		SniffRadius:     cfg.Colony.SniffRadius,
		FoodGrabRadius:  cfg.Colony.FoodGrabRadius,
	}
}

// WalkParamsFromConfig extracts the walk parameters from cfg.
func WalkParamsFromConfig(cfg *config.Config) WalkParams {
	return WalkParams{
		WalkSpeed:     cfg.Agent.WalkSpeed,
		TurnDivisor:   cfg.Agent.TurnDivisor,
		MaxTurn:       cfg.Agent.MaxTurn,
		TargetWeight:  cfg.Agent.TargetWeight,
		SniffWeight:   cfg.Agent.SniffWeight,
		FoodRange:     cfg.Agent.FoodRange,
		GrabAmount:    cfg.Agent.GrabAmount,
		TooFarAway:    cfg.Agent.TooFarAway,
		DepositAmount: cfg.World.DepositAmount,

		LogisticMidpoint: cfg.Perception.LogisticMidpoint,
		LogisticScale:    cfg.Perception.LogisticScale,
		LogisticRate:     cfg.Perception.LogisticRate,
	}
}
