// Package evolve searches for a genome that solves a level with a
// generational evolutionary loop.
package evolve

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/game"
	"github.com/landonWcummings/landoncummings.com-sub000/genome"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
	"github.com/landonWcummings/landoncummings.com-sub000/telemetry"
)

// State is the engine's lifecycle state.
type State uint8

const (
	Initialized State = iota
	Evaluating
	Selecting
	Terminated
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Evaluating:
		return "evaluating"
	case Selecting:
		return "selecting"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Outcome says why a terminated engine stopped.
type Outcome uint8

const (
	Pending Outcome = iota
	Success
	Infeasible
	Stopped
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Infeasible:
		return "infeasible"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// Settings controls the search.
type Settings struct {
	Representation    genome.Representation
	PopulationSize    int
	HorizonTicks      int
	SequenceLength    int // actions per ActionSequence genome
	MacroTicks        int
	MutationRate      float64
	MutationMagnitude float64
	EliteCount        int
	TopK              int
	MaxGenerations    int
	CurriculumStart   int
	CurriculumGrowth  int
	Workers           int
	Seed              int64
}

// NewSettings extracts search settings from the config.
func NewSettings(cfg *config.Config) (Settings, error) {
	kind, err := genome.ParseRepresentation(cfg.Training.Representation)
	if err != nil {
		return Settings{}, err
	}
	tr := cfg.Training
	return Settings{
		Representation:    kind,
		PopulationSize:    tr.PopulationSize,
		HorizonTicks:      tr.HorizonTicks,
		SequenceLength:    cfg.Derived.SequenceLength,
		MacroTicks:        tr.MacroTicks,
		MutationRate:      tr.MutationRate,
		MutationMagnitude: tr.MutationMagnitude,
		EliteCount:        tr.EliteCount,
		TopK:              tr.TopK,
		MaxGenerations:    tr.MaxGenerations,
		CurriculumStart:   tr.CurriculumStart,
		CurriculumGrowth:  tr.CurriculumGrowth,
		Workers:           tr.Workers,
		Seed:              tr.Seed,
	}, nil
}

func (s Settings) validate() error {
	switch {
	case s.PopulationSize < 1:
		return fmt.Errorf("evolve: population size %d < 1", s.PopulationSize)
	case s.HorizonTicks < 1:
		return fmt.Errorf("evolve: horizon %d < 1", s.HorizonTicks)
	case s.EliteCount < 0 || s.EliteCount > s.PopulationSize:
		return fmt.Errorf("evolve: elite count %d outside [0, %d]", s.EliteCount, s.PopulationSize)
	case s.TopK < 1 || s.TopK > s.PopulationSize:
		return fmt.Errorf("evolve: top-k %d outside [1, %d]", s.TopK, s.PopulationSize)
	case s.MaxGenerations < 1:
		return fmt.Errorf("evolve: max generations %d < 1", s.MaxGenerations)
	case s.Representation == genome.ActionSequence && s.SequenceLength < 1:
		return fmt.Errorf("evolve: sequence length %d < 1", s.SequenceLength)
	}
	return nil
}

// Result is the terminal report of a search.
type Result struct {
	Outcome     Outcome
	Solution    *genome.Genome // set on Success
	Generations int
	Evaluations int64
	Elapsed     time.Duration
}

// Engine owns one search. Step and Run must be called from one goroutine;
// Stop may be called from any.
type Engine struct {
	course    *game.Course
	evaluator *game.Evaluator
	oracle    *game.Oracle
	settings  Settings
	rng       *rand.Rand
	pool      *game.Pool
	perf      *telemetry.PerfCollector

	population []*genome.Genome
	scores     []game.Evaluation
	order      []int // population indices by descending fitness

	state       State
	result      Result
	generation  int
	evaluations int64
	started     time.Time

	stop atomic.Bool
}

// New creates an engine for g. The level must validate.
func New(g *level.Grid, params game.Params, s Settings) (*Engine, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	course, err := game.NewCourse(g, params)
	if err != nil {
		return nil, err
	}
	if s.MacroTicks < 1 {
		s.MacroTicks = 1
	}
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		course:    course,
		evaluator: game.NewEvaluator(course),
		oracle:    game.NewOracle(course),
		settings:  s,
		rng:       rand.New(rand.NewSource(seed)),
		pool:      game.NewPool(s.Workers),
		perf:      telemetry.NewPerfCollector(10),
		scores:    make([]game.Evaluation, s.PopulationSize),
		order:     make([]int, s.PopulationSize),
	}
	e.population = make([]*genome.Genome, s.PopulationSize)
	for i := range e.population {
		e.population[i] = genome.Random(e.rng, s.Representation, s.SequenceLength, s.MacroTicks)
	}

	slog.Debug("evolve: engine created",
		"course", course.String(),
		"representation", s.Representation.String(),
		"population", s.PopulationSize,
		"seed", seed,
		"reachable", course.Reachable(),
	)
	return e, nil
}

// Course returns the course being searched.
func (e *Engine) Course() *game.Course { return e.course }

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Result returns the terminal report. Outcome is Pending until the engine
// terminates.
func (e *Engine) Result() Result { return e.result }

// Generation returns the number of completed generations.
func (e *Engine) Generation() int { return e.generation }

// Population returns a copy of the current population slice. Genomes are
// immutable and shared.
func (e *Engine) Population() []*genome.Genome {
	out := make([]*genome.Genome, len(e.population))
	copy(out, e.population)
	return out
}

// Perf returns generation timing over the last ten generations.
func (e *Engine) Perf() telemetry.PerfStats { return e.perf.Stats() }

// Stop asks the engine to terminate at the next generation boundary.
func (e *Engine) Stop() { e.stop.Store(true) }

// Close releases the worker pool.
func (e *Engine) Close() { e.pool.Close() }

// Step runs one full generation: evaluate, verify the best, and either
// terminate or breed the next population. Returns the generation record
// and whether the engine has terminated. Step is the yield point for
// callers that schedule the search themselves.
func (e *Engine) Step() (telemetry.GenerationRecord, bool) {
	if e.state == Terminated {
		return telemetry.GenerationRecord{}, true
	}
	if e.started.IsZero() {
		e.started = time.Now()
	}
	if e.stop.Load() {
		e.terminate(Stopped, nil)
		return telemetry.GenerationRecord{}, true
	}

	s := e.settings
	horizon := game.CurriculumHorizon(e.generation, s.CurriculumStart, s.CurriculumGrowth, s.HorizonTicks)

	e.perf.StartGeneration()
	defer e.perf.EndGeneration()

	// Evaluate (barrier)
	e.perf.StartPhase(telemetry.PhaseEvaluate)
	e.state = Evaluating
	pop := e.population
	e.pool.Run(len(pop), func(i int) {
		e.scores[i] = e.evaluator.Evaluate(pop[i], horizon)
	})
	e.evaluations += int64(len(pop))

	e.state = Selecting
	for i := range e.order {
		e.order[i] = i
	}
	sort.SliceStable(e.order, func(a, b int) bool {
		return e.scores[e.order[a]].Fitness > e.scores[e.order[b]].Fitness
	})

	rec := e.record(horizon)

	// Verify the top-K in order; the first that passes wins
	e.perf.StartPhase(telemetry.PhaseVerify)
	for _, idx := range e.order[:s.TopK] {
		e.evaluations++
		if e.oracle.Verify(pop[idx], s.HorizonTicks) {
			e.generation++
			rec.ReachedConfirmed = true
			rec.CumulativeEvaluations = e.evaluations
			rec.SetElapsed(time.Since(e.started))
			e.terminate(Success, pop[idx])
			return rec, true
		}
	}

	e.perf.StartPhase(telemetry.PhaseBreed)
	e.population = e.breed()
	e.generation++
	rec.CumulativeEvaluations = e.evaluations
	rec.SetElapsed(time.Since(e.started))

	if e.generation >= s.MaxGenerations {
		e.terminate(Infeasible, nil)
		return rec, true
	}
	return rec, false
}

// breed builds the next population: elites copied verbatim, the rest
// mutated from parents drawn uniformly from the top-K.
func (e *Engine) breed() []*genome.Genome {
	s := e.settings
	next := make([]*genome.Genome, 0, s.PopulationSize)
	for _, idx := range e.order[:s.EliteCount] {
		next = append(next, e.population[idx])
	}
	for len(next) < s.PopulationSize {
		parent := e.population[e.order[e.rng.Intn(s.TopK)]]
		next = append(next, parent.Mutate(e.rng, s.MutationRate, s.MutationMagnitude))
	}
	return next
}

func (e *Engine) record(horizon int) telemetry.GenerationRecord {
	fitness := make([]float64, len(e.scores))
	for i, sc := range e.scores {
		fitness[i] = sc.Fitness
	}
	fs := telemetry.ComputeFitnessStats(fitness)
	best := e.scores[e.order[0]]
	return telemetry.GenerationRecord{
		Generation:      e.generation,
		BestFitness:     best.Fitness,
		MeanFitness:     fs.Mean,
		StdFitness:      fs.Std,
		P10Fitness:      fs.P10,
		P50Fitness:      fs.P50,
		P90Fitness:      fs.P90,
		BestDistance:    best.MinDistance,
		BestCheckpoints: best.CheckpointsReached,
		ExposedHorizon:  horizon,
	}
}

func (e *Engine) terminate(o Outcome, solution *genome.Genome) {
	e.state = Terminated
	e.result = Result{
		Outcome:     o,
		Solution:    solution,
		Generations: e.generation,
		Evaluations: e.evaluations,
	}
	if !e.started.IsZero() {
		e.result.Elapsed = time.Since(e.started)
	}
}

// Run steps until the engine terminates, Stop is called or ctx is done,
// passing every generation record to onRecord (which may be nil).
// Cancellation is checked between generations. An infeasible search
// returns an *InfeasibleLevelError; a cancelled one returns ctx.Err().
func (e *Engine) Run(ctx context.Context, onRecord func(telemetry.GenerationRecord)) (Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			if e.state != Terminated {
				e.terminate(Stopped, nil)
			}
			return e.result, err
		}

		rec, done := e.Step()
		if rec.ExposedHorizon > 0 {
			slog.Debug("generation", "record", rec)
			if onRecord != nil {
				onRecord(rec)
			}
		}
		if !done {
			continue
		}

		switch e.result.Outcome {
		case Infeasible:
			return e.result, &InfeasibleLevelError{
				Generations: e.result.Generations,
				Evaluations: e.result.Evaluations,
			}
		default:
			return e.result, nil
		}
	}
}
