package telemetry

import (
	"log/slog"
	"math"
	"testing"
	"time"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeFitnessStats(t *testing.T) {
	values := []float64{9, 2, 5, 4, 4, 7, 4, 5}
	fs := ComputeFitnessStats(values)

	if fs.Mean != 5 {
		t.Errorf("mean = %v, want 5", fs.Mean)
	}
	// Sample standard deviation: sqrt(32/7)
	if math.Abs(fs.Std-math.Sqrt(32.0/7)) > 1e-9 {
		t.Errorf("std = %v, want %v", fs.Std, math.Sqrt(32.0/7))
	}
	if fs.P50 != 4.5 {
		t.Errorf("p50 = %v, want 4.5", fs.P50)
	}
	if fs.P10 > fs.P50 || fs.P50 > fs.P90 {
		t.Errorf("percentiles out of order: %+v", fs)
	}
	if values[0] != 9 {
		t.Error("input slice was reordered")
	}
}

func TestComputeFitnessStatsSmall(t *testing.T) {
	if fs := ComputeFitnessStats(nil); fs != (FitnessStats{}) {
		t.Errorf("empty = %+v", fs)
	}
	fs := ComputeFitnessStats([]float64{-3})
	if fs.Mean != -3 || fs.Std != 0 || fs.P50 != -3 {
		t.Errorf("single = %+v", fs)
	}
}

func TestGenerationRecordLogValue(t *testing.T) {
	rec := GenerationRecord{Generation: 4, BestFitness: 12.5, ExposedHorizon: 300}
	rec.SetElapsed(1500 * time.Millisecond)
	if rec.ElapsedSec != 1.5 {
		t.Errorf("ElapsedSec = %v, want 1.5", rec.ElapsedSec)
	}

	v := rec.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("kind = %v, want group", v.Kind())
	}
	found := false
	for _, a := range v.Group() {
		if a.Key == "generation" && a.Value.Int64() == 4 {
			found = true
		}
	}
	if !found {
		t.Error("generation attribute missing")
	}
}
