package game

import (
	"github.com/landonWcummings/landoncummings.com-sub000/components"
	"github.com/landonWcummings/landoncummings.com-sub000/genome"
	"github.com/landonWcummings/landoncummings.com-sub000/systems"
)

// Outcome is the terminal state of an episode.
type Outcome uint8

const (
	Running Outcome = iota
	Died
	Finished
	TimedOut
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Died:
		return "died"
	case Finished:
		return "finished"
	case TimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Episode is one actor on one course with its own projectile world.
// An Episode is not safe for concurrent use; each rollout owns one.
type Episode struct {
	course      *Course
	actor       components.ActorState
	projectiles *systems.ProjectileSystem
	tick        int
	outcome     Outcome
}

// NewEpisode spawns a fresh actor at the course start.
func NewEpisode(c *Course) *Episode {
	e := &Episode{
		course:      c,
		projectiles: systems.NewProjectileSystem(c.Grid, c.Params.Projectiles),
	}
	e.Reset()
	return e
}

// Reset respawns the actor, clears projectiles and restarts the tick count
// so the turret cadence replays identically.
func (e *Episode) Reset() {
	p := e.course.Params.Physics
	e.actor = components.SpawnActor(e.course.Start, p.HalfW, p.HalfH)
	e.projectiles.Reset()
	e.tick = 0
	e.outcome = Running
}

// Tick advances the episode by one fixed step. Projectiles move first and
// are tested against the actor's box from before its own move; a hit ends
// the episode without running physics. A step that touches a hazard and
// the finish together counts as a death.
func (e *Episode) Tick(a components.Action) Outcome {
	if e.outcome != Running {
		return e.outcome
	}
	p := e.course.Params.Physics

	pre := e.actor.Box().Inset(p.CollisionInset)
	if e.projectiles.Update(e.tick, pre) {
		e.actor.TouchedHazard = true
		e.outcome = Died
		e.tick++
		return e.outcome
	}

	e.actor = systems.Step(e.course.Grid, e.actor, a, p)
	e.tick++

	switch {
	case e.actor.TouchedHazard:
		e.outcome = Died
	case e.actor.ReachedFinish:
		e.outcome = Finished
	}
	return e.outcome
}

// Actor returns a copy of the actor state.
func (e *Episode) Actor() components.ActorState { return e.actor }

// TickCount returns the number of ticks run since the last reset.
func (e *Episode) TickCount() int { return e.tick }

// Outcome returns Running until a terminal tick.
func (e *Episode) Outcome() Outcome { return e.outcome }

// Projectiles appends a copy of the live projectiles to dst.
func (e *Episode) Projectiles(dst []components.Projectile) []components.Projectile {
	return e.projectiles.Snapshot(dst)
}

// rollout drives a genome through an episode, keeping the checkpoint target
// in step with the actor. Fitness, verification, tracing and replay share
// it so a policy sees identical inputs in every mode.
type rollout struct {
	ep      *Episode
	tracker targetTracker
	reached []int // checkpoints reached by the last step
}

func newRollout(c *Course) *rollout {
	r := &rollout{ep: NewEpisode(c), tracker: targetTracker{course: c}}
	r.reached = r.tracker.Advance(r.ep.Actor(), r.reached)
	return r
}

// step asks gen for an action and runs one tick.
func (r *rollout) step(gen *genome.Genome) Outcome {
	obs := r.ep.Observe(r.tracker.Target())
	return r.stepAction(gen.Decide(&obs))
}

// stepAction runs one tick with a given action.
func (r *rollout) stepAction(a components.Action) Outcome {
	out := r.ep.Tick(a)
	r.reached = r.tracker.Advance(r.ep.Actor(), r.reached[:0])
	return out
}

func (r *rollout) reset() {
	r.ep.Reset()
	r.tracker.Reset()
	r.reached = r.tracker.Advance(r.ep.Actor(), r.reached[:0])
}
