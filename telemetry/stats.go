// Package telemetry records per-generation search statistics as CSV and
// structured logs.
package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// GenerationRecord summarizes one evaluated generation.
type GenerationRecord struct {
	Generation  int     `csv:"generation"`
	BestFitness float64 `csv:"best_fitness"`

	// Population fitness distribution
	MeanFitness float64 `csv:"mean_fitness"`
	StdFitness  float64 `csv:"std_fitness"`
	P10Fitness  float64 `csv:"p10_fitness"`
	P50Fitness  float64 `csv:"p50_fitness"`
	P90Fitness  float64 `csv:"p90_fitness"`

	BestDistance    int `csv:"best_distance"`
	BestCheckpoints int `csv:"best_checkpoints"`

	ReachedConfirmed      bool          `csv:"reached_confirmed"`
	ExposedHorizon        int           `csv:"exposed_horizon"`
	CumulativeEvaluations int64         `csv:"evaluations"`
	Elapsed               time.Duration `csv:"-"`
	ElapsedSec            float64       `csv:"elapsed_sec"`
}

// LogValue implements slog.LogValuer for structured logging.
func (r GenerationRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", r.Generation),
		slog.Float64("best_fitness", r.BestFitness),
		slog.Float64("mean_fitness", r.MeanFitness),
		slog.Float64("std_fitness", r.StdFitness),
		slog.Float64("p50_fitness", r.P50Fitness),
		slog.Int("best_distance", r.BestDistance),
		slog.Int("best_checkpoints", r.BestCheckpoints),
		slog.Bool("reached", r.ReachedConfirmed),
		slog.Int("horizon", r.ExposedHorizon),
		slog.Int64("evaluations", r.CumulativeEvaluations),
		slog.Duration("elapsed", r.Elapsed),
	)
}

// SetElapsed stores d in both duration fields.
func (r *GenerationRecord) SetElapsed(d time.Duration) {
	r.Elapsed = d
	r.ElapsedSec = d.Seconds()
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

// FitnessStats holds the distribution of one generation's fitness values.
type FitnessStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeFitnessStats calculates mean, sample standard deviation and
// percentiles. values is not modified.
func ComputeFitnessStats(values []float64) FitnessStats {
	n := len(values)
	if n == 0 {
		return FitnessStats{}
	}

	var fs FitnessStats
	if n == 1 {
		fs.Mean = values[0]
	} else {
		fs.Mean, fs.Std = stat.MeanStdDev(values, nil)
	}

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	fs.P10 = Percentile(sorted, 0.10)
	fs.P50 = Percentile(sorted, 0.50)
	fs.P90 = Percentile(sorted, 0.90)
	return fs
}
