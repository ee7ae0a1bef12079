package main

import (
	"strings"
	"testing"

	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/game"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
)

func TestMarkCheckpoints(t *testing.T) {
	lv, err := level.FromRows("corridor", []string{
		"..............................",
		"S............................F",
		"==============================",
	}, nil)
	if err != nil {
		t.Fatalf("FromRows() failed: %v", err)
	}
	c, err := game.NewCourse(lv.Grid, game.NewParams(config.Default()))
	if err != nil {
		t.Fatalf("NewCourse() failed: %v", err)
	}
	if !c.Reachable() {
		t.Fatal("corridor is not reachable")
	}

	rows := markCheckpoints(lv.Grid, c)
	if len(rows) != lv.Grid.Height() {
		t.Fatalf("got %d rows, want %d", len(rows), lv.Grid.Height())
	}
	joined := strings.Join(rows, "\n")
	if !strings.Contains(joined, "F") {
		t.Error("finish tile was overwritten")
	}
	if len(c.Checkpoints) > 1 && !strings.ContainsRune(joined, '0') {
		t.Errorf("first checkpoint not marked:\n%s", joined)
	}
}

func TestCheckpointGlyph(t *testing.T) {
	tests := []struct {
		i    int
		want rune
	}{
		{0, '0'},
		{9, '9'},
		{10, 'a'},
		{35, 'z'},
		{36, '0'},
	}
	for _, tt := range tests {
		if got := checkpointGlyph(tt.i); got != tt.want {
			t.Errorf("checkpointGlyph(%d) = %q, want %q", tt.i, got, tt.want)
		}
	}
}

func TestApplyTrainFlags(t *testing.T) {
	cfg := config.Default()
	flagRepresentation = "neural"
	flagPopulation = 12
	flagSeed = 5
	defer func() {
		flagRepresentation, flagPopulation, flagSeed = "", 0, 0
	}()

	before := cfg.Training.MaxGenerations
	applyTrainFlags(cfg)

	if cfg.Training.Representation != "neural" || cfg.Training.PopulationSize != 12 || cfg.Training.Seed != 5 {
		t.Errorf("flags not applied: %+v", cfg.Training)
	}
	if cfg.Training.MaxGenerations != before {
		t.Errorf("unset flag changed MaxGenerations to %d", cfg.Training.MaxGenerations)
	}
}

func TestSummaryIncludesFields(t *testing.T) {
	out := summary("Plan", []field{{"level", "gap"}, {"checkpoints", 3}})
	for _, want := range []string{"Plan", "level", "gap", "checkpoints", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
