package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartGeneration()
		pc.StartPhase(PhaseEvaluate)
		time.Sleep(200 * time.Microsecond)
		pc.StartPhase(PhaseVerify)
		time.Sleep(100 * time.Microsecond)
		pc.EndGeneration()
	}

	stats := pc.Stats()
	if stats.AvgGeneration <= 0 {
		t.Error("expected positive average generation duration")
	}
	if _, ok := stats.PhaseAvg[PhaseEvaluate]; !ok {
		t.Error("expected evaluate phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseVerify]; !ok {
		t.Error("expected verify phase to be tracked")
	}
	if stats.MinGeneration > stats.AvgGeneration || stats.AvgGeneration > stats.MaxGeneration {
		t.Errorf("min/avg/max out of order: %v %v %v", stats.MinGeneration, stats.AvgGeneration, stats.MaxGeneration)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)
	for i := 0; i < 10; i++ {
		pc.StartGeneration()
		pc.StartPhase(PhaseBreed)
		time.Sleep(10 * time.Microsecond)
		pc.EndGeneration()
	}

	stats := pc.Stats()
	if stats.GenerationsPerSecond <= 0 {
		t.Error("expected positive generations per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)
	for i := 0; i < 5; i++ {
		pc.StartGeneration()
		pc.StartPhase(PhaseBreed)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseEvaluate)
		time.Sleep(2 * time.Millisecond)
		pc.EndGeneration()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseEvaluate] <= stats.PhasePct[PhaseBreed] {
		t.Errorf("evaluate %.1f%% should exceed breed %.1f%%", stats.PhasePct[PhaseEvaluate], stats.PhasePct[PhaseBreed])
	}

	row := stats.ToCSV(7)
	if row.Generation != 7 || row.EvaluatePct != stats.PhasePct[PhaseEvaluate] {
		t.Errorf("ToCSV = %+v", row)
	}
}

func TestPerfCollector_Empty(t *testing.T) {
	stats := NewPerfCollector(0).Stats()
	if stats.AvgGeneration != 0 || stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Errorf("empty stats = %+v", stats)
	}
}
