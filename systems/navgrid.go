package systems

import (
	"math"

	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
)

// PlannerParams holds coarse planning settings.
type PlannerParams struct {
	Stride           int // tiles per coarse cell edge
	StandDepth       int // how far below a coarse cell footing may be
	MaxJumpRise      int // coarse rows one jump step may climb
	CheckpointStride int // path nodes between checkpoints
}

// NewPlannerParams extracts planner settings from the config.
func NewPlannerParams(cfg *config.Config) PlannerParams {
	return PlannerParams{
		Stride:           cfg.Planner.Stride,
		StandDepth:       cfg.Planner.StandDepth,
		MaxJumpRise:      cfg.Planner.MaxJumpRise,
		CheckpointStride: cfg.Planner.CheckpointStride,
	}
}

// NavGrid is a coarsened view of a level used by the planner and by the
// fitness evaluator's distance and exploration terms.
type NavGrid struct {
	stride        int
	width, height int    // in coarse cells
	open          []bool // at least one fine cell is not blocking
	traversable   []bool // open, with footing at or shortly below
}

// NewNavGrid coarsens g by stride. The coarse cells holding the start and
// finish tiles are always traversable.
func NewNavGrid(g *level.Grid, stride, standDepth int) *NavGrid {
	if stride < 1 {
		stride = 1
	}
	w := (g.Width() + stride - 1) / stride
	h := (g.Height() + stride - 1) / stride

	nav := &NavGrid{
		stride:      stride,
		width:       w,
		height:      h,
		open:        make([]bool, w*h),
		traversable: make([]bool, w*h),
	}

	for gy := 0; gy < h; gy++ {
		for gx := 0; gx < w; gx++ {
			x0, y0 := gx*stride, gy*stride
			x1, y1 := x0+stride-1, y0+stride-1

			open := false
			for y := y0; y <= y1 && !open; y++ {
				for x := x0; x <= x1; x++ {
					if g.InBounds(x, y) && !g.At(x, y).IsBlocking() {
						open = true
						break
					}
				}
			}

			// Footing: a standable tile with a free cell above it, no deeper
			// than standDepth rows below the coarse cell. Rows below the
			// level read as Block, so the bottom edge counts as floor.
			footing := false
			if open {
				for x := x0; x <= x1 && !footing; x++ {
					if !g.InBounds(x, y0) {
						continue
					}
					for y := y0 + 1; y <= y1+standDepth; y++ {
						if g.At(x, y).IsSolidGround() && !g.At(x, y-1).IsBlocking() {
							footing = true
							break
						}
					}
				}
			}

			nav.open[gy*w+gx] = open
			nav.traversable[gy*w+gx] = open && footing
		}
	}

	for _, k := range []level.TileKind{level.Start, level.Finish} {
		for _, c := range g.Find(k) {
			gx, gy := nav.CellOf(c)
			nav.open[gy*w+gx] = true
			nav.traversable[gy*w+gx] = true
		}
	}

	return nav
}

// Size returns the coarse dimensions.
func (n *NavGrid) Size() (w, h int) { return n.width, n.height }

// Stride returns the number of tiles per coarse cell edge.
func (n *NavGrid) Stride() int { return n.stride }

// IsOpen reports whether the coarse cell has room for the actor.
// Out of bounds is closed.
func (n *NavGrid) IsOpen(gx, gy int) bool {
	if gx < 0 || gx >= n.width || gy < 0 || gy >= n.height {
		return false
	}
	return n.open[gy*n.width+gx]
}

// IsTraversable reports whether the actor can stand in, or drop onto
// footing from, the coarse cell.
func (n *NavGrid) IsTraversable(gx, gy int) bool {
	if gx < 0 || gx >= n.width || gy < 0 || gy >= n.height {
		return false
	}
	return n.traversable[gy*n.width+gx]
}

// CellOf returns the coarse cell containing tile c.
func (n *NavGrid) CellOf(c level.Coord) (gx, gy int) {
	return floorDiv(c.X, n.stride), floorDiv(c.Y, n.stride)
}

// WorldToGrid converts world coordinates to coarse coordinates.
func (n *NavGrid) WorldToGrid(x, y float64) (gx, gy int) {
	size := level.CellSize * float64(n.stride)
	return int(math.Floor(x / size)), int(math.Floor(y / size))
}

// GridToWorld returns the world-space center of a coarse cell.
func (n *NavGrid) GridToWorld(gx, gy int) (x, y float64) {
	size := level.CellSize * float64(n.stride)
	return (float64(gx) + 0.5) * size, (float64(gy) + 0.5) * size
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
