package game

import (
	"github.com/landonWcummings/landoncummings.com-sub000/components"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
	"github.com/landonWcummings/landoncummings.com-sub000/neural"
)

// obstacleLookahead is how many cells ahead the obstacle signal scans.
const obstacleLookahead = 3

// Observe builds the policy inputs for the actor's current state.
func (e *Episode) Observe(target components.Position) neural.Observation {
	return observe(e.course, e.actor, e.tick, target)
}

func observe(c *Course, s components.ActorState, tick int, target components.Position) neural.Observation {
	g := c.Grid
	p := c.Params.Physics
	ww, wh := g.WorldWidth(), g.WorldHeight()

	obs := neural.Observation{
		Tick:     tick,
		PosX:     neural.Clamp(2*s.X/ww - 1),
		PosY:     neural.Clamp(2*s.Y/wh - 1),
		TargetDX: neural.Clamp((target.X - s.X) / ww),
		TargetDY: neural.Clamp((target.Y - s.Y) / wh),
	}
	if p.MoveSpeed > 0 {
		obs.VelX = neural.Clamp(s.VX / p.MoveSpeed)
	}
	if p.MaxFallSpeed > 0 {
		obs.VelY = neural.Clamp(s.VY / p.MaxFallSpeed)
	}
	if s.OnGround {
		obs.OnGround = 1
	}

	// Face the direction of travel, or the target when standing still
	dir := 1
	switch {
	case s.VX < 0:
		dir = -1
	case s.VX == 0 && target.X < s.X:
		dir = -1
	}
	obs.Obstacle = obstacleAhead(g, level.CellAt(s.X, s.Y), dir)
	return obs
}

// obstacleAhead scans the actor's row and the row beneath it. A wall
// yields a positive signal, a hazard or a missing floor a negative one,
// stronger the closer it is.
func obstacleAhead(g *level.Grid, from level.Coord, dir int) float64 {
	for d := 1; d <= obstacleLookahead; d++ {
		x := from.X + dir*d
		body := g.At(x, from.Y)
		floor := g.At(x, from.Y+1)
		strength := 1 / float64(d)
		switch {
		case body.IsHazard() || floor.IsHazard():
			return -strength
		case body.IsBlocking():
			return strength
		case !floor.IsBlocking():
			return -strength
		}
	}
	return 0
}
