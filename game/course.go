// Package game runs episodes of the platformer simulation: rollouts for
// fitness and verification, and the real-time replay session.
package game

import (
	"fmt"

	"github.com/landonWcummings/landoncummings.com-sub000/components"
	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
	"github.com/landonWcummings/landoncummings.com-sub000/systems"
)

// FitnessParams weights the reward terms.
type FitnessParams struct {
	ExplorationBonus float64 // per newly visited coarse cell
	CheckpointScale  float64 // checkpoint i pays CheckpointScale*(i+1)
}

// Params bundles every constant an episode needs.
type Params struct {
	Physics     systems.PhysicsParams
	Projectiles systems.ProjectileParams
	Planner     systems.PlannerParams
	Fitness     FitnessParams
}

// NewParams extracts episode settings from the config.
func NewParams(cfg *config.Config) Params {
	return Params{
		Physics:     systems.NewPhysicsParams(cfg),
		Projectiles: systems.NewProjectileParams(cfg),
		Planner:     systems.NewPlannerParams(cfg),
		Fitness: FitnessParams{
			ExplorationBonus: cfg.Fitness.ExplorationBonus,
			CheckpointScale:  cfg.Fitness.CheckpointScale,
		},
	}
}

// Course is the per-grid data shared read-only by every rollout on that
// grid: the coarse navigation grid and the planned checkpoints. Build a new
// Course whenever the grid changes.
type Course struct {
	Grid        *level.Grid
	Params      Params
	Nav         *systems.NavGrid
	Checkpoints []components.Position
	Start       level.Coord
	Finish      components.Position
}

// NewCourse validates g and plans its checkpoints. An unreachable finish is
// not an error; the course then has no checkpoints and fitness falls back
// to the distance to the finish.
func NewCourse(g *level.Grid, params Params) (*Course, error) {
	if err := level.Validate(g); err != nil {
		return nil, err
	}
	start, _ := g.StartCell()
	finish, _ := g.FinishCell()

	planner := systems.NewPlanner(g, params.Planner)
	path := planner.FindPath(start, finish)
	fx, fy := level.CellCenter(finish)

	c := &Course{
		Grid:        g,
		Params:      params,
		Nav:         planner.Nav(),
		Checkpoints: planner.Checkpoints(path, finish),
		Start:       start,
		Finish:      components.Position{X: fx, Y: fy},
	}
	return c, nil
}

// Reachable reports whether the planner found a coarse route to the finish.
func (c *Course) Reachable() bool {
	return len(c.Checkpoints) > 0
}

// String summarizes the course for logs.
func (c *Course) String() string {
	w, h := c.Nav.Size()
	return fmt.Sprintf("course %dx%d (coarse %dx%d), %d checkpoints", c.Grid.Width(), c.Grid.Height(), w, h, len(c.Checkpoints))
}

// targetTracker walks the checkpoint list as the actor reaches each one.
// Rollouts, verification and replay all use it so a policy sees the same
// target in every mode.
type targetTracker struct {
	course *Course
	next   int
}

// Target returns the current target: the next unreached checkpoint, or the
// finish once every checkpoint has been reached.
func (t *targetTracker) Target() components.Position {
	if t.next < len(t.course.Checkpoints) {
		return t.course.Checkpoints[t.next]
	}
	return t.course.Finish
}

// Advance marks every consecutive checkpoint within one coarse cell
// (Chebyshev) of the actor as reached and returns the indices reached.
func (t *targetTracker) Advance(s components.ActorState, reached []int) []int {
	gx, gy := t.course.Nav.WorldToGrid(s.X, s.Y)
	for t.next < len(t.course.Checkpoints) {
		cp := t.course.Checkpoints[t.next]
		cx, cy := t.course.Nav.WorldToGrid(cp.X, cp.Y)
		if max(absInt(cx-gx), absInt(cy-gy)) > 1 {
			break
		}
		reached = append(reached, t.next)
		t.next++
	}
	return reached
}

// Reset returns to the first checkpoint.
func (t *targetTracker) Reset() { t.next = 0 }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
