package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated transition statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Target mode at window end
	Mode    string `csv:"mode"`
	Toggles int    `csv:"toggles"`

	// Progress distribution over the window's ticks
	LinearMin  float64 `csv:"linear_min"`
	LinearMax  float64 `csv:"linear_max"`
	LinearLast float64 `csv:"linear_last"`
	EasedMin   float64 `csv:"eased_min"`
	EasedMax   float64 `csv:"eased_max"`
	EasedMean  float64 `csv:"eased_mean"`

	// Spin energy proxy
	VelocityMean float64 `csv:"velocity_mean"`
	VelocityStd  float64 `csv:"velocity_std"`
	VelocityP50  float64 `csv:"velocity_p50"`
	VelocityP90  float64 `csv:"velocity_p90"`
	VelocityMax  float64 `csv:"velocity_max"`

	// Buffer writes
	Instances   int `csv:"instances"`
	DirtyWrites int `csv:"dirty_writes"` // population buffers that changed, summed over ticks
	SnowRespawn int `csv:"snow_respawns"`
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

// Summary is the distribution of one sampled series.
type Summary struct {
	Min, Max, Mean, Std float64
	P50, P90            float64
}

// Summarize computes min/max/mean/std and percentiles of values.
// values is not modified.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var std float64
	mean := stat.Mean(sorted, nil)
	if n > 1 {
		std = stat.StdDev(sorted, nil)
	}

	return Summary{
		Min:  floats.Min(sorted),
		Max:  floats.Max(sorted),
		Mean: mean,
		Std:  std,
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("mode", s.Mode),
		slog.Int("toggles", s.Toggles),
		slog.Float64("linear_min", s.LinearMin),
		slog.Float64("linear_max", s.LinearMax),
		slog.Float64("linear_last", s.LinearLast),
		slog.Float64("eased_min", s.EasedMin),
		slog.Float64("eased_max", s.EasedMax),
		slog.Float64("eased_mean", s.EasedMean),
		slog.Float64("velocity_mean", s.VelocityMean),
		slog.Float64("velocity_std", s.VelocityStd),
		slog.Float64("velocity_p50", s.VelocityP50),
		slog.Float64("velocity_p90", s.VelocityP90),
		slog.Float64("velocity_max", s.VelocityMax),
		slog.Int("instances", s.Instances),
		slog.Int("dirty_writes", s.DirtyWrites),
		slog.Int("snow_respawns", s.SnowRespawn),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"mode", s.Mode,
		"linear", s.LinearLast,
		"eased_min", s.EasedMin,
		"eased_max", s.EasedMax,
		"velocity_p90", s.VelocityP90,
		"dirty_writes", s.DirtyWrites,
	)
}
