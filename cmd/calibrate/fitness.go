package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/evolve"
	"github.com/landonWcummings/landoncummings.com-sub000/game"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
)

// failurePenalty is added to the generation budget for a run that never
// solved its level, so unsolved runs always cost more than slow ones.
const failurePenalty = 1.0

// FitnessEvaluator trains on every level and seed with candidate weights
// and scores the result (lower = better).
type FitnessEvaluator struct {
	params     *ParamVector
	levels     []*level.Level
	seeds      []int64
	baseConfig *config.Config

	mu         sync.Mutex
	lastSolved float64 // solved fraction from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, levels []*level.Level, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		levels:     levels,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastSolved returns the solved fraction from the most recent evaluation.
func (fe *FitnessEvaluator) LastSolved() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSolved
}

// runResult holds the result of one training run.
type runResult struct {
	generations int
	solved      bool
	err         error
}

// Evaluate returns the mean generation count to a verified solution over
// every level and seed. Runs that hit the budget cost
// MaxGenerations * (1 + failurePenalty).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	params := game.NewParams(cfg)

	// Run every level and seed in parallel
	results := make([]runResult, len(fe.levels)*len(fe.seeds))
	var wg sync.WaitGroup
	for li, lv := range fe.levels {
		for si, seed := range fe.seeds {
			wg.Add(1)
			go func(idx int, g *level.Grid, s int64) {
				defer wg.Done()
				results[idx] = fe.runTraining(cfg, params, g, s)
			}(li*len(fe.seeds)+si, lv.Grid, seed)
		}
	}
	wg.Wait()

	budget := float64(cfg.Training.MaxGenerations)
	var total float64
	solved := 0
	for _, r := range results {
		switch {
		case r.err != nil:
			slog.Warn("training run failed", "error", r.err)
			total += budget * (1 + failurePenalty)
		case r.solved:
			total += float64(r.generations)
			solved++
		default:
			total += budget * (1 + failurePenalty)
		}
	}

	n := float64(len(results))
	fe.mu.Lock()
	fe.lastSolved = float64(solved) / n
	fe.mu.Unlock()

	if n == 0 {
		return math.Inf(1)
	}
	return total / n
}

// runTraining runs one engine to completion on a single worker. Parallelism
// comes from running seeds side by side.
func (fe *FitnessEvaluator) runTraining(cfg *config.Config, params game.Params, g *level.Grid, seed int64) runResult {
	settings, err := evolve.NewSettings(cfg)
	if err != nil {
		return runResult{err: err}
	}
	settings.Seed = seed
	settings.Workers = 1

	eng, err := evolve.New(g, params, settings)
	if err != nil {
		return runResult{err: err}
	}
	defer eng.Close()

	for {
		if _, done := eng.Step(); done {
			break
		}
	}
	res := eng.Result()
	return runResult{generations: res.Generations, solved: res.Outcome == evolve.Success}
}
