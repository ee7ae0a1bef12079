// Package systems contains the per-tick simulation systems: actor physics,
// turret projectiles and the coarse path planner.
package systems

import (
	"math"

	"github.com/landonWcummings/landoncummings.com-sub000/components"
	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
)

// edgeEps keeps a box edge that sits exactly on a cell boundary from
// counting as inside the next cell.
const edgeEps = 1e-9

// PhysicsParams holds the kinematics constants used by Step.
type PhysicsParams struct {
	DT                 float64
	Gravity            float64
	MaxFallSpeed       float64
	MoveSpeed          float64
	JumpSpeed          float64
	BounceSpeed        float64
	PinchMaxNudge      float64
	WallPushIterations int
	CollisionInset     float64
	HalfW, HalfH       float64
}

// NewPhysicsParams extracts physics constants from the config.
func NewPhysicsParams(cfg *config.Config) PhysicsParams {
	return PhysicsParams{
		DT:                 cfg.Physics.DT,
		Gravity:            cfg.Physics.Gravity,
		MaxFallSpeed:       cfg.Physics.MaxFallSpeed,
		MoveSpeed:          cfg.Physics.MoveSpeed,
		JumpSpeed:          cfg.Physics.JumpSpeed,
		BounceSpeed:        cfg.Physics.BounceSpeed,
		PinchMaxNudge:      cfg.Physics.PinchMaxNudge,
		WallPushIterations: cfg.Physics.WallPushIterations,
		CollisionInset:     cfg.Actor.CollisionInset,
		HalfW:              cfg.Actor.HalfWidth,
		HalfH:              cfg.Actor.HalfHeight,
	}
}

// Step advances the actor by one fixed tick. It never mutates the grid and
// has no state besides its arguments, so identical inputs always produce
// identical outputs.
//
// Order: gravity, horizontal velocity and jump, horizontal sweep, vertical
// sweep, pinch resolution, wall pushback, terminal flags.
func Step(g *level.Grid, s components.ActorState, a components.Action, p PhysicsParams) components.ActorState {
	prevX, prevY := s.X, s.Y

	s.VY += p.Gravity * p.DT
	if s.VY > p.MaxFallSpeed {
		s.VY = p.MaxFallSpeed
	}

	s.VX = 0
	if a.MovesLeft() {
		s.VX -= p.MoveSpeed
	}
	if a.MovesRight() {
		s.VX += p.MoveSpeed
	}
	if a.Jumps() && s.OnGround {
		s.VY = -p.JumpSpeed
	}
	s.OnGround = false

	dx := s.VX * p.DT
	dy := s.VY * p.DT

	s = sweepX(g, s, dx, p.CollisionInset)
	s = sweepY(g, s, dy, p)
	s = resolvePinch(g, s, dx, dy, prevX, prevY, p)
	s = pushOutOfWalls(g, s, prevX, prevY, p)

	reduced := s.Box().Inset(p.CollisionInset)
	s.TouchedHazard = boxTouches(g, reduced, level.TileKind.IsHazard)
	s.ReachedFinish = boxTouches(g, reduced, level.TileKind.IsFinish)
	return s
}

// sweepX moves the actor horizontally by dx, stopping the leading edge at
// the first blocking column it would enter. Scanning starts at the column
// just past the reduced box, so a full box resting inside a wall by less
// than the inset is pulled back to the boundary.
func sweepX(g *level.Grid, s components.ActorState, dx, inset float64) components.ActorState {
	if dx == 0 {
		return s
	}
	rowTop := cellIndex(s.Y - s.HalfH + inset)
	rowBot := cellIndex(s.Y + s.HalfH - inset)

	if dx > 0 {
		edge := s.X + s.HalfW
		target := edge + dx
		for col := cellIndex(edge-inset-edgeEps) + 1; col <= cellIndex(target-edgeEps); col++ {
			if columnBlocked(g, col, rowTop, rowBot) {
				target = float64(col) * level.CellSize
				s.VX = 0
				break
			}
		}
		s.X = target - s.HalfW
		return s
	}

	edge := s.X - s.HalfW
	target := edge + dx
	for col := cellIndex(edge+inset+edgeEps) - 1; col >= cellIndex(target+edgeEps); col-- {
		if columnBlocked(g, col, rowTop, rowBot) {
			target = float64(col+1) * level.CellSize
			s.VX = 0
			break
		}
	}
	s.X = target + s.HalfW
	return s
}

// sweepY moves the actor vertically by dy. Landing on a bounce tile launches
// the actor instead of grounding it.
func sweepY(g *level.Grid, s components.ActorState, dy float64, p PhysicsParams) components.ActorState {
	if dy == 0 {
		return s
	}
	colL := cellIndex(s.X - s.HalfW + p.CollisionInset)
	colR := cellIndex(s.X + s.HalfW - p.CollisionInset)

	if dy > 0 {
		edge := s.Y + s.HalfH
		target := edge + dy
		for row := cellIndex(edge-p.CollisionInset-edgeEps) + 1; row <= cellIndex(target-edgeEps); row++ {
			blocked, bounce := rowContact(g, row, colL, colR)
			if !blocked {
				continue
			}
			target = float64(row) * level.CellSize
			if bounce {
				s.VY = -p.BounceSpeed
			} else {
				s.VY = 0
				s.OnGround = true
			}
			break
		}
		s.Y = target - s.HalfH
		return s
	}

	edge := s.Y - s.HalfH
	target := edge + dy
	for row := cellIndex(edge+p.CollisionInset+edgeEps) - 1; row >= cellIndex(target+edgeEps); row-- {
		if blocked, _ := rowContact(g, row, colL, colR); blocked {
			target = float64(row+1) * level.CellSize
			s.VY = 0
			break
		}
	}
	s.Y = target + s.HalfH
	return s
}

// resolvePinch nudges an actor left overlapping a solid tile along the
// dominant axis of its attempted motion, trying the direction opposite to
// that motion first. If nothing within PinchMaxNudge is free the actor
// returns to its pre-step position with zero velocity.
func resolvePinch(g *level.Grid, s components.ActorState, dx, dy, prevX, prevY float64, p PhysicsParams) components.ActorState {
	if !overlapsSolid(g, s, p.CollisionInset) {
		return s
	}

	vertical := math.Abs(dy) >= math.Abs(dx)
	back := -1.0
	if (vertical && dy < 0) || (!vertical && dx < 0) {
		back = 1
	}

	for d := 1.0; d <= p.PinchMaxNudge; d++ {
		for _, sign := range [2]float64{back, -back} {
			c := s
			if vertical {
				c.Y += sign * d
			} else {
				c.X += sign * d
			}
			if !overlapsSolid(g, c, p.CollisionInset) {
				if vertical {
					c.VY = 0
				} else {
					c.VX = 0
				}
				return c
			}
		}
	}

	s.X, s.Y = prevX, prevY
	s.VX, s.VY = 0, 0
	return s
}

// pushOutOfWalls resolves residual overlap by pushing the actor horizontally
// away from the first overlapping cell, a bounded number of times. An actor
// still overlapping afterwards is restored to its pre-step position.
func pushOutOfWalls(g *level.Grid, s components.ActorState, prevX, prevY float64, p PhysicsParams) components.ActorState {
	for i := 0; i < p.WallPushIterations; i++ {
		c, ok := firstSolidOverlap(g, s, p.CollisionInset)
		if !ok {
			return s
		}
		cx, _ := level.CellCenter(c)
		if s.X < cx {
			s.X = float64(c.X)*level.CellSize - s.HalfW
		} else {
			s.X = float64(c.X+1)*level.CellSize + s.HalfW
		}
		s.VX = 0
	}
	if overlapsSolid(g, s, p.CollisionInset) {
		s.X, s.Y = prevX, prevY
		s.VX, s.VY = 0, 0
		s.OnGround = false
	}
	return s
}

// OverlapsSolid reports whether the actor's reduced box overlaps any
// blocking tile.
func OverlapsSolid(g *level.Grid, s components.ActorState, inset float64) bool {
	return overlapsSolid(g, s, inset)
}

func overlapsSolid(g *level.Grid, s components.ActorState, inset float64) bool {
	_, ok := firstSolidOverlap(g, s, inset)
	return ok
}

func firstSolidOverlap(g *level.Grid, s components.ActorState, inset float64) (level.Coord, bool) {
	b := s.Box().Inset(inset)
	x0, y0, x1, y1 := coveredCells(b)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if g.At(x, y).IsBlocking() {
				return level.C(x, y), true
			}
		}
	}
	return level.Coord{}, false
}

// boxTouches reports whether any cell under b satisfies pred.
func boxTouches(g *level.Grid, b components.Box, pred func(level.TileKind) bool) bool {
	x0, y0, x1, y1 := coveredCells(b)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if pred(g.At(x, y)) {
				return true
			}
		}
	}
	return false
}

// coveredCells returns the inclusive cell range whose interiors b overlaps.
func coveredCells(b components.Box) (x0, y0, x1, y1 int) {
	return cellIndex(b.MinX + edgeEps), cellIndex(b.MinY + edgeEps),
		cellIndex(b.MaxX - edgeEps), cellIndex(b.MaxY - edgeEps)
}

func columnBlocked(g *level.Grid, col, rowTop, rowBot int) bool {
	for row := rowTop; row <= rowBot; row++ {
		if g.At(col, row).IsBlocking() {
			return true
		}
	}
	return false
}

// rowContact reports whether any cell in the span blocks, and whether any
// blocking cell is a bounce pad.
func rowContact(g *level.Grid, row, colL, colR int) (blocked, bounce bool) {
	for col := colL; col <= colR; col++ {
		k := g.At(col, row)
		if k.IsBlocking() {
			blocked = true
			if k.IsBounce() {
				bounce = true
			}
		}
	}
	return blocked, bounce
}

func cellIndex(v float64) int {
	return int(math.Floor(v / level.CellSize))
}
