package components

import "github.com/landonWcummings/landoncummings.com-sub000/level"

// ActorState is the full kinematic state of the player or agent.
// X and Y are the box center.
type ActorState struct {
	X, Y   float64
	VX, VY float64

	HalfW, HalfH float64

	OnGround bool

	// Terminal flags, written at the end of every step. The caller decides
	// whether to end the episode.
	TouchedHazard bool
	ReachedFinish bool
}

// Box returns the actor's full collision box.
func (s ActorState) Box() Box {
	return BoxAround(s.X, s.Y, s.HalfW, s.HalfH)
}

// Terminal reports whether either terminal flag is set.
func (s ActorState) Terminal() bool {
	return s.TouchedHazard || s.ReachedFinish
}

// SpawnActor places a fresh actor at the center of cell c.
func SpawnActor(c level.Coord, halfW, halfH float64) ActorState {
	x, y := level.CellCenter(c)
	return ActorState{X: x, Y: y, HalfW: halfW, HalfH: halfH}
}

// ProjectileBody is the oriented bounding box of a projectile. Half-extents
// are already rotated into world axes for its firing direction.
type ProjectileBody struct {
	HalfW, HalfH float64
	Dir          level.Direction
}

// Box returns the projectile box at pos.
func (b ProjectileBody) Box(pos Position) Box {
	return BoxAround(pos.X, pos.Y, b.HalfW, b.HalfH)
}

// Projectile is a read-only copy of a live projectile handed to renderers.
type Projectile struct {
	Pos  Position
	Vel  Velocity
	Body ProjectileBody
}
