package main

import (
	"math"
	"testing"
	"time"

	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
)

func TestParamVectorNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector(config.Default())
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("param %s: got %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestParamVectorClamp(t *testing.T) {
	pv := NewParamVector(config.Default())
	got := pv.Clamp([]float64{-5, 1e6})
	if got[0] != pv.Specs[0].Min || got[1] != pv.Specs[1].Max {
		t.Errorf("Clamp() = %v", got)
	}
}

func TestApplyToConfig(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)
	pv.ApplyToConfig(cfg, []float64{2.5, 40})
	if cfg.Fitness.ExplorationBonus != 2.5 || cfg.Fitness.CheckpointScale != 40 {
		t.Errorf("fitness = %+v", cfg.Fitness)
	}
}

func TestEvaluateTrivialLevel(t *testing.T) {
	lv, err := level.FromRows("trivial", []string{
		"........",
		"...SF...",
		"========",
	}, nil)
	if err != nil {
		t.Fatalf("FromRows() failed: %v", err)
	}
	cfg := config.Default()
	cfg.Training.PopulationSize = 10
	cfg.Training.TopK = 3
	cfg.Training.EliteCount = 1
	cfg.Training.MaxGenerations = 20

	pv := NewParamVector(cfg)
	fe := NewFitnessEvaluator(pv, []*level.Level{lv}, []int64{1, 2}, cfg)
	cost := fe.Evaluate(pv.DefaultVector())

	if cost > float64(cfg.Training.MaxGenerations) {
		t.Errorf("cost = %v on a trivial level, want a solve within %d generations", cost, cfg.Training.MaxGenerations)
	}
	if fe.LastSolved() != 1 {
		t.Errorf("LastSolved() = %v, want 1", fe.LastSolved())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 5*time.Second, "2h00m05s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
