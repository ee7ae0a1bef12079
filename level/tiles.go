// Package level holds the tile grid a level is painted on.
package level

import "fmt"

// TileKind identifies what occupies a single grid cell.
type TileKind uint8

const (
	Empty TileKind = iota
	Ground
	Block
	Lava
	Bounce
	Turret
	Start
	Finish
	NumTileKinds
)

// String returns the lower-case tile name.
func (k TileKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Ground:
		return "ground"
	case Block:
		return "block"
	case Lava:
		return "lava"
	case Bounce:
		return "bounce"
	case Turret:
		return "turret"
	case Start:
		return "start"
	case Finish:
		return "finish"
	default:
		return fmt.Sprintf("tile(%d)", uint8(k))
	}
}

// IsBlocking reports whether the actor and projectiles collide with the tile.
func (k TileKind) IsBlocking() bool {
	switch k {
	case Ground, Block, Bounce, Turret:
		return true
	case Empty, Lava, Start, Finish:
		return false
	default:
		panic(fmt.Sprintf("level: unknown tile kind %d", uint8(k)))
	}
}

// IsHazard reports whether touching the tile ends the episode.
func (k TileKind) IsHazard() bool {
	switch k {
	case Lava:
		return true
	case Empty, Ground, Block, Bounce, Turret, Start, Finish:
		return false
	default:
		panic(fmt.Sprintf("level: unknown tile kind %d", uint8(k)))
	}
}

// IsFinish reports whether touching the tile completes the level.
func (k TileKind) IsFinish() bool {
	switch k {
	case Finish:
		return true
	case Empty, Ground, Block, Lava, Bounce, Turret, Start:
		return false
	default:
		panic(fmt.Sprintf("level: unknown tile kind %d", uint8(k)))
	}
}

// IsBounce reports whether landing on the tile launches the actor upward.
func (k TileKind) IsBounce() bool {
	switch k {
	case Bounce:
		return true
	case Empty, Ground, Block, Lava, Turret, Start, Finish:
		return false
	default:
		panic(fmt.Sprintf("level: unknown tile kind %d", uint8(k)))
	}
}

// IsSolidGround reports whether the tile is safe footing the planner may route over.
func (k TileKind) IsSolidGround() bool {
	return k.IsBlocking() && !k.IsHazard()
}

// Direction is one of the four turret firing directions.
type Direction uint8

const (
	DirRight Direction = iota
	DirLeft
	DirUp
	DirDown
)

// Vector returns the unit step for the direction in grid space (y grows downward).
func (d Direction) Vector() (dx, dy float64) {
	switch d {
	case DirRight:
		return 1, 0
	case DirLeft:
		return -1, 0
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	default:
		panic(fmt.Sprintf("level: unknown direction %d", uint8(d)))
	}
}

// Horizontal reports whether the direction lies on the x axis.
func (d Direction) Horizontal() bool {
	return d == DirRight || d == DirLeft
}

func (d Direction) String() string {
	switch d {
	case DirRight:
		return "right"
	case DirLeft:
		return "left"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// ParseDirection converts a name such as "left" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "right", "r", "":
		return DirRight, nil
	case "left", "l":
		return DirLeft, nil
	case "up", "u":
		return DirUp, nil
	case "down", "d":
		return DirDown, nil
	}
	return 0, fmt.Errorf("level: unknown turret direction %q", s)
}
