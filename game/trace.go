package game

import (
	"github.com/landonWcummings/landoncummings.com-sub000/components"
	"github.com/landonWcummings/landoncummings.com-sub000/genome"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
)

// TraceResult is the per-tick actor history of one rollout.
type TraceResult struct {
	States  []components.ActorState // States[0] is the spawn state
	Outcome Outcome
}

// Trace replays gen on g for up to ticks ticks and records the actor after
// every tick. It stops at the first terminal tick.
func Trace(g *level.Grid, gen *genome.Genome, params Params, ticks int) (TraceResult, error) {
	c, err := NewCourse(g, params)
	if err != nil {
		return TraceResult{}, err
	}
	r := newRollout(c)
	res := TraceResult{States: make([]components.ActorState, 0, ticks+1)}
	res.States = append(res.States, r.ep.Actor())
	for r.ep.TickCount() < ticks {
		out := r.step(gen)
		res.States = append(res.States, r.ep.Actor())
		if out != Running {
			break
		}
	}
	res.Outcome = r.ep.Outcome()
	if res.Outcome == Running {
		res.Outcome = TimedOut
	}
	return res, nil
}

// TicksToFinish replays gen and returns the tick on which it finished.
// ok is false if it died or ran out of ticks.
func TicksToFinish(g *level.Grid, gen *genome.Genome, params Params, ticks int) (n int, ok bool, err error) {
	res, err := Trace(g, gen, params, ticks)
	if err != nil {
		return 0, false, err
	}
	if res.Outcome != Finished {
		return 0, false, nil
	}
	return len(res.States) - 1, true, nil
}
