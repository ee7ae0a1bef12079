package level

import (
	"math"
	"sort"
)

// CellSize is the edge length of one tile in world units.
const CellSize = 32.0

// Coord addresses a cell by column and row. Row 0 is the top of the level.
type Coord struct {
	X, Y int
}

// C is shorthand for Coord{X: x, Y: y}.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// TurretSpec pairs a turret cell with its firing direction.
type TurretSpec struct {
	Cell Coord
	Dir  Direction
}

// Grid is a fixed-size tile matrix plus the turret direction table.
// The editor mutates it between runs; simulations only read it.
type Grid struct {
	width, height int
	cells         []TileKind
	turrets       map[Coord]Direction
}

// NewGrid returns an empty grid of the given dimensions.
func NewGrid(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic("level: grid dimensions must be positive")
	}
	return &Grid{
		width:   width,
		height:  height,
		cells:   make([]TileKind, width*height),
		turrets: make(map[Coord]Direction),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// WorldWidth returns the grid width in world units.
func (g *Grid) WorldWidth() float64 { return float64(g.width) * CellSize }

// WorldHeight returns the grid height in world units.
func (g *Grid) WorldHeight() float64 { return float64(g.height) * CellSize }

// InBounds reports whether the cell lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the tile at (x, y). Cells outside the grid read as Block so the
// level is always enclosed.
func (g *Grid) At(x, y int) TileKind {
	if !g.InBounds(x, y) {
		return Block
	}
	return g.cells[y*g.width+x]
}

// Set paints a tile. Painting over a turret drops its direction entry.
func (g *Grid) Set(x, y int, k TileKind) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.width+x] = k
	if k == Turret {
		if _, ok := g.turrets[C(x, y)]; !ok {
			g.turrets[C(x, y)] = DirLeft
		}
	} else {
		delete(g.turrets, C(x, y))
	}
}

// SetTurret paints a turret facing dir.
func (g *Grid) SetTurret(x, y int, dir Direction) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.width+x] = Turret
	g.turrets[C(x, y)] = dir
}

// TurretDirection returns the firing direction of the turret at c.
func (g *Grid) TurretDirection(c Coord) (Direction, bool) {
	d, ok := g.turrets[c]
	return d, ok
}

// Turrets returns every turret in row-major order so spawn order is stable.
func (g *Grid) Turrets() []TurretSpec {
	out := make([]TurretSpec, 0, len(g.turrets))
	for c, d := range g.turrets {
		out = append(out, TurretSpec{Cell: c, Dir: d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cell.Y != out[j].Cell.Y {
			return out[i].Cell.Y < out[j].Cell.Y
		}
		return out[i].Cell.X < out[j].Cell.X
	})
	return out
}

// Find returns the cells holding kind, in row-major order.
func (g *Grid) Find(kind TileKind) []Coord {
	var out []Coord
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y*g.width+x] == kind {
				out = append(out, C(x, y))
			}
		}
	}
	return out
}

// StartCell returns the first Start tile. Callers validate the grid first.
func (g *Grid) StartCell() (Coord, bool) {
	cells := g.Find(Start)
	if len(cells) == 0 {
		return Coord{}, false
	}
	return cells[0], true
}

// FinishCell returns the first Finish tile.
func (g *Grid) FinishCell() (Coord, bool) {
	cells := g.Find(Finish)
	if len(cells) == 0 {
		return Coord{}, false
	}
	return cells[0], true
}

// CellCenter returns the world-space center of a cell.
func CellCenter(c Coord) (x, y float64) {
	return (float64(c.X) + 0.5) * CellSize, (float64(c.Y) + 0.5) * CellSize
}

// CellAt returns the cell containing a world-space point.
func CellAt(x, y float64) Coord {
	return C(int(math.Floor(x/CellSize)), int(math.Floor(y/CellSize)))
}

// Clone returns a deep copy, so the editor can keep painting while a run
// holds the original.
func (g *Grid) Clone() *Grid {
	out := &Grid{
		width:   g.width,
		height:  g.height,
		cells:   make([]TileKind, len(g.cells)),
		turrets: make(map[Coord]Direction, len(g.turrets)),
	}
	copy(out.cells, g.cells)
	for c, d := range g.turrets {
		out.turrets[c] = d
	}
	return out
}
