package systems

import (
	"strings"
	"testing"

	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
)

func plannerParams() PlannerParams {
	return NewPlannerParams(config.Default())
}

// TestPlannerFlatCorridor verifies a straight walk and checkpoint sampling.
func TestPlannerFlatCorridor(t *testing.T) {
	g := mustGrid(t,
		strings.Repeat(".", 30),
		".S"+strings.Repeat(".", 26)+"F.",
		strings.Repeat("=", 30),
	)
	params := plannerParams()
	params.CheckpointStride = 3

	p := NewPlanner(g, params)
	start, _ := g.StartCell()
	finish, _ := g.FinishCell()
	path := p.FindPath(start, finish)
	if len(path) != 15 {
		t.Fatalf("path has %d nodes, want 15: %v", len(path), path)
	}
	for i, c := range path {
		if c.Y != 0 || c.X != i {
			t.Fatalf("node %d = %v, want walk along coarse row 0", i, c)
		}
	}

	cps := p.Checkpoints(path, finish)
	if len(cps) != 5 {
		t.Fatalf("got %d checkpoints, want 5", len(cps))
	}
	for i := 1; i < len(cps); i++ {
		if cps[i].X <= cps[i-1].X {
			t.Errorf("checkpoint %d x=%v not past previous x=%v", i, cps[i].X, cps[i-1].X)
		}
	}
	fx, fy := level.CellCenter(finish)
	if last := cps[len(cps)-1]; last.X != fx || last.Y != fy {
		t.Errorf("last checkpoint = %+v, want finish center (%v, %v)", last, fx, fy)
	}
}

// TestPlannerJumpsOntoLedge verifies jump edges climb to a raised platform.
func TestPlannerJumpsOntoLedge(t *testing.T) {
	g := mustGrid(t,
		"............",
		"............",
		"........F...",
		"......======",
		".S....######",
		"============",
	)
	cps := PlanCheckpoints(g, plannerParams())
	if cps == nil {
		t.Fatal("expected a path onto the ledge")
	}
	finish, _ := g.FinishCell()
	fx, fy := level.CellCenter(finish)
	if last := cps[len(cps)-1]; last.X != fx || last.Y != fy {
		t.Errorf("last checkpoint = %+v, want finish center", last)
	}
}

// TestPlannerUnreachable verifies a sealed finish yields no checkpoints.
func TestPlannerUnreachable(t *testing.T) {
	g := mustGrid(t,
		"....##..",
		".S..##F.",
		"========",
	)
	if cps := PlanCheckpoints(g, plannerParams()); cps != nil {
		t.Errorf("expected no checkpoints, got %v", cps)
	}
}

func TestPlannerSameCoarseCell(t *testing.T) {
	g := mustGrid(t,
		"....",
		"SF..",
		"====",
	)
	cps := PlanCheckpoints(g, plannerParams())
	if len(cps) != 1 {
		t.Fatalf("got %d checkpoints, want only the finish", len(cps))
	}
}

func TestNavGridTraversable(t *testing.T) {
	g := mustGrid(t,
		"......",
		"......",
		"......",
		"......",
		"~~..##",
		"~~..##",
	)
	nav := NewNavGrid(g, 2, 1)
	tests := []struct {
		name         string
		gx, gy       int
		wantOpen     bool
		wantTraverse bool
	}{
		{"above lava", 0, 1, true, false},
		{"above pit floor", 1, 1, true, false},
		{"on top of wall", 2, 1, true, true},
		{"inside wall", 2, 2, false, false},
		{"pit bottom uses level floor", 1, 2, true, true},
		{"outside", -1, 0, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := nav.IsOpen(tc.gx, tc.gy); got != tc.wantOpen {
				t.Errorf("IsOpen(%d,%d) = %v, want %v", tc.gx, tc.gy, got, tc.wantOpen)
			}
			if got := nav.IsTraversable(tc.gx, tc.gy); got != tc.wantTraverse {
				t.Errorf("IsTraversable(%d,%d) = %v, want %v", tc.gx, tc.gy, got, tc.wantTraverse)
			}
		})
	}
}
