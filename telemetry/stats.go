package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int64 `csv:"-"`
	WindowEndTick   int64 `csv:"window_end"`

	// Population at window end
	Ants            int `csv:"ants"`
	Searching       int `csv:"searching"`
	Returning       int `csv:"returning"`
	ForcedReturning int `csv:"forced_returning"`

	// Events during window
	Grabs         int `csv:"grabs"`
	Deliveries    int `csv:"deliveries"`
	ForcedReturns int `csv:"forced_returns"`
	Evictions     int `csv:"evictions"`
	DepletedPiles int `csv:"depleted_piles"`

	// Food accounting at window end
	Collected     float64 `csv:"collected"`
	Carried       float64 `csv:"carried"`
	FoodRemaining float64 `csv:"food_remaining"`
	FoodPiles     int     `csv:"food_piles"`

	// Pheromone field total
	FieldTotal float64 `csv:"field_total"`

	// Distance of ants from their nest
	HomeDistMean float64 `csv:"home_dist_mean"`
	HomeDistStd  float64 `csv:"home_dist_std"`
	HomeDistP50  float64 `csv:"home_dist_p50"`
	HomeDistP90  float64 `csv:"home_dist_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistanceStats calculates mean, standard deviation and percentiles
// of the given distances.
func ComputeDistanceStats(values []float64) (mean, std, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.PopStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int("ants", s.Ants),
		slog.Int("searching", s.Searching),
		slog.Int("returning", s.Returning),
		slog.Int("forced_returning", s.ForcedReturning),
		slog.Int("grabs", s.Grabs),
		slog.Int("deliveries", s.Deliveries),
		slog.Int("forced_returns", s.ForcedReturns),
		slog.Int("evictions", s.Evictions),
		slog.Int("depleted_piles", s.DepletedPiles),
		slog.Float64("collected", s.Collected),
		slog.Float64("carried", s.Carried),
		slog.Float64("food_remaining", s.FoodRemaining),
		slog.Int("food_piles", s.FoodPiles),
		slog.Float64("field_total", s.FieldTotal),
		slog.Float64("home_dist_mean", s.HomeDistMean),
		slog.Float64("home_dist_std", s.HomeDistStd),
		slog.Float64("home_dist_p50", s.HomeDistP50),
		slog.Float64("home_dist_p90", s.HomeDistP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"ants", s.Ants,
		"searching", s.Searching,
		"returning", s.Returning,
		"forced_returning", s.ForcedReturning,
		"grabs", s.Grabs,
		"deliveries", s.Deliveries,
		"forced_returns", s.ForcedReturns,
		"evictions", s.Evictions,
		"depleted_piles", s.DepletedPiles,
		"collected", s.Collected,
		"food_remaining", s.FoodRemaining,
		"food_piles", s.FoodPiles,
		"field_total", s.FieldTotal,
		"home_dist_p50", s.HomeDistP50,
	)
}
