package game

import (
	"log/slog"
	"slices"

	"github.com/landonWcummings/landoncummings.com-sub000/components"
	"github.com/landonWcummings/landoncummings.com-sub000/genome"
)

// Evaluation is the result of one fitness rollout.
type Evaluation struct {
	Fitness            float64
	MinDistance        int // Manhattan coarse distance to the current target, minimum over the rollout
	Exploration        float64
	CheckpointBonus    float64
	CheckpointsReached int
	Outcome            Outcome
	Ticks              int
}

// LogValue implements slog.LogValuer for structured logging.
func (ev Evaluation) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("fitness", ev.Fitness),
		slog.Int("min_distance", ev.MinDistance),
		slog.Float64("exploration", ev.Exploration),
		slog.Float64("checkpoint_bonus", ev.CheckpointBonus),
		slog.Int("checkpoints", ev.CheckpointsReached),
		slog.String("outcome", ev.Outcome.String()),
		slog.Int("ticks", ev.Ticks),
	)
}

// Evaluator scores genomes on a course. It holds no mutable state, so one
// Evaluator may serve every worker at once.
type Evaluator struct {
	course *Course
}

// NewEvaluator returns an evaluator for c.
func NewEvaluator(c *Course) *Evaluator {
	return &Evaluator{course: c}
}

// Evaluate rolls gen out for at most horizon ticks and scores it:
//
//	fitness = -minDistance + exploration + checkpoint bonus
//
// The rollout ends early on death or finish. Reaching the finish is not
// treated as success here; only the Oracle decides that. Checkpoints
// already within reach at spawn pay out only if the rollout finishes, and
// a finishing rollout is credited with every checkpoint and distance zero.
func (ev *Evaluator) Evaluate(gen *genome.Genome, horizon int) Evaluation {
	c := ev.course
	fp := c.Params.Fitness

	w, h := c.Nav.Size()
	visited := make([]bool, w*h)
	markVisited := func(s components.ActorState) bool {
		gx, gy := c.Nav.WorldToGrid(s.X, s.Y)
		if gx < 0 || gx >= w || gy < 0 || gy >= h {
			return false
		}
		i := gy*w + gx
		if visited[i] {
			return false
		}
		visited[i] = true
		return true
	}

	var res Evaluation
	credit := func(reached []int) {
		for _, i := range reached {
			res.CheckpointBonus += fp.CheckpointScale * float64(i+1)
			res.CheckpointsReached++
		}
	}

	r := newRollout(c)
	markVisited(r.ep.Actor())
	atSpawn := slices.Clone(r.reached)
	res.MinDistance = ev.distance(r.ep.Actor(), r.tracker.Target())

	for r.ep.TickCount() < horizon {
		out := r.step(gen)
		s := r.ep.Actor()

		if markVisited(s) {
			res.Exploration += fp.ExplorationBonus
		}
		credit(r.reached)

		// A new target restarts the distance term
		d := ev.distance(s, r.tracker.Target())
		if len(r.reached) > 0 || d < res.MinDistance {
			res.MinDistance = d
		}

		if out != Running {
			break
		}
	}

	res.Outcome = r.ep.Outcome()
	if res.Outcome == Running {
		res.Outcome = TimedOut
	}
	if res.Outcome == Finished {
		// Checkpoints still ahead of the tracker count as reached
		for i := r.tracker.next; i < len(c.Checkpoints); i++ {
			atSpawn = append(atSpawn, i)
		}
		credit(atSpawn)
		res.MinDistance = 0
	}
	res.Ticks = r.ep.TickCount()
	res.Fitness = -float64(res.MinDistance) + res.Exploration + res.CheckpointBonus
	return res
}

// distance is the Manhattan distance in coarse cells.
func (ev *Evaluator) distance(s components.ActorState, target components.Position) int {
	nav := ev.course.Nav
	ax, ay := nav.WorldToGrid(s.X, s.Y)
	tx, ty := nav.WorldToGrid(target.X, target.Y)
	return absInt(tx-ax) + absInt(ty-ay)
}

// CurriculumHorizon returns the rollout length exposed at generation gen:
// start plus growth per generation, capped at horizon. A non-positive
// start exposes the full horizon from the first generation.
func CurriculumHorizon(gen, start, growth, horizon int) int {
	if start <= 0 {
		return horizon
	}
	return min(horizon, start+gen*growth)
}
