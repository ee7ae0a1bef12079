package systems

import (
	"container/heap"

	"github.com/landonWcummings/landoncummings.com-sub000/components"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
)

// Planner runs A* over a NavGrid with platformer moves: walk, jump, fall.
type Planner struct {
	nav    *NavGrid
	params PlannerParams

	// Reusable data structures (cleared between searches)
	openHeap  *nodeHeap
	closedSet map[int]struct{}
	cameFrom  map[int]int
	gScore    map[int]float64
}

// astarNode is a node in the A* search.
type astarNode struct {
	gx, gy int     // Coarse coordinates
	f      float64 // f = g + h (priority)
	index  int     // Heap index
}

// nodeHeap implements heap.Interface for A* open set.
type nodeHeap []*astarNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	// Stable tie-break keeps plans identical across runs
	if h[i].gy != h[j].gy {
		return h[i].gy < h[j].gy
	}
	return h[i].gx < h[j].gx
}
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

// move is a candidate edge out of a coarse cell.
type move struct {
	dx, dy int
	cost   float64
}

// NewPlanner builds the coarse grid for g and returns a planner over it.
func NewPlanner(g *level.Grid, params PlannerParams) *Planner {
	return &Planner{
		nav:       NewNavGrid(g, params.Stride, params.StandDepth),
		params:    params,
		openHeap:  &nodeHeap{},
		closedSet: make(map[int]struct{}, 256),
		cameFrom:  make(map[int]int, 256),
		gScore:    make(map[int]float64, 256),
	}
}

// Nav returns the coarse grid the planner searches.
func (a *Planner) Nav() *NavGrid { return a.nav }

// FindPath returns the coarse cells from start to goal inclusive, or nil
// if the goal is unreachable.
func (a *Planner) FindPath(start, goal level.Coord) []level.Coord {
	nav := a.nav
	startGX, startGY := nav.CellOf(start)
	goalGX, goalGY := nav.CellOf(goal)

	if startGX == goalGX && startGY == goalGY {
		return []level.Coord{level.C(goalGX, goalGY)}
	}

	// Clear reusable data structures
	*a.openHeap = (*a.openHeap)[:0]
	clear(a.closedSet)
	clear(a.cameFrom)
	clear(a.gScore)

	startID := startGY*nav.width + startGX
	goalID := goalGY*nav.width + goalGX

	a.gScore[startID] = 0
	heap.Push(a.openHeap, &astarNode{gx: startGX, gy: startGY, f: heuristic(startGX, startGY, goalGX, goalGY)})

	moves := a.moves()

	for a.openHeap.Len() > 0 {
		current := heap.Pop(a.openHeap).(*astarNode)
		currentID := current.gy*nav.width + current.gx

		if currentID == goalID {
			return a.reconstructPath(startID, goalID)
		}
		if _, done := a.closedSet[currentID]; done {
			continue // stale heap entry
		}
		a.closedSet[currentID] = struct{}{}

		standing := nav.IsTraversable(current.gx, current.gy)
		for _, m := range moves {
			ngx, ngy := current.gx+m.dx, current.gy+m.dy
			if !a.canMove(current.gx, current.gy, m, standing) {
				continue
			}

			neighborID := ngy*nav.width + ngx
			if _, ok := a.closedSet[neighborID]; ok {
				continue
			}

			tentativeG := a.gScore[currentID] + m.cost
			if existingG, exists := a.gScore[neighborID]; exists && tentativeG >= existingG {
				continue
			}

			a.cameFrom[neighborID] = currentID
			a.gScore[neighborID] = tentativeG
			heap.Push(a.openHeap, &astarNode{gx: ngx, gy: ngy, f: tentativeG + heuristic(ngx, ngy, goalGX, goalGY)})
		}
	}

	return nil
}

// moves lists walk, jump and fall edges in a fixed order.
func (a *Planner) moves() []move {
	out := []move{
		{dx: -1, dy: 0, cost: 1},
		{dx: 1, dy: 0, cost: 1},
	}
	for rise := 1; rise <= a.params.MaxJumpRise; rise++ {
		for dx := -1; dx <= 1; dx++ {
			out = append(out, move{dx: dx, dy: -rise, cost: 1 + float64(rise)})
		}
	}
	for dx := -1; dx <= 1; dx++ {
		out = append(out, move{dx: dx, dy: 1, cost: 1})
	}
	return out
}

// canMove applies the platformer rules: walking and jumping need footing
// at both ends, falling only needs room.
func (a *Planner) canMove(gx, gy int, m move, standing bool) bool {
	nav := a.nav
	ngx, ngy := gx+m.dx, gy+m.dy
	if !nav.IsOpen(ngx, ngy) {
		return false
	}
	switch {
	case m.dy == 0:
		return standing && nav.IsTraversable(ngx, ngy)
	case m.dy < 0:
		if !standing || !nav.IsTraversable(ngx, ngy) {
			return false
		}
		// The column above the take-off cell must be clear to the apex
		for y := gy - 1; y >= ngy; y-- {
			if !nav.IsOpen(gx, y) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// heuristic is the Chebyshev distance, which never overestimates any of
// the move costs above.
func heuristic(gx1, gy1, gx2, gy2 int) float64 {
	return float64(max(abs(gx2-gx1), abs(gy2-gy1)))
}

// reconstructPath builds the path from the cameFrom map.
func (a *Planner) reconstructPath(startID, goalID int) []level.Coord {
	var pathIDs []int
	current := goalID
	for current != startID {
		pathIDs = append(pathIDs, current)
		var ok bool
		current, ok = a.cameFrom[current]
		if !ok {
			break
		}
	}
	pathIDs = append(pathIDs, startID)

	path := make([]level.Coord, len(pathIDs))
	for i := range pathIDs {
		id := pathIDs[len(pathIDs)-1-i]
		path[i] = level.C(id%a.nav.width, id/a.nav.width)
	}
	return path
}

// Checkpoints samples a coarse path every CheckpointStride nodes, skipping
// the start, and always ends with the exact center of the finish tile.
// An empty path yields no checkpoints.
func (a *Planner) Checkpoints(path []level.Coord, finish level.Coord) []components.Position {
	if len(path) == 0 {
		return nil
	}
	stride := a.params.CheckpointStride
	if stride < 1 {
		stride = 1
	}
	var out []components.Position
	for i := stride; i < len(path)-1; i += stride {
		x, y := a.nav.GridToWorld(path[i].X, path[i].Y)
		out = append(out, components.Position{X: x, Y: y})
	}
	fx, fy := level.CellCenter(finish)
	return append(out, components.Position{X: fx, Y: fy})
}

// PlanCheckpoints is the one-shot entry point: plan from the start tile to
// the finish tile and return the checkpoint list, or nil if the finish is
// unreachable on the coarse grid.
func PlanCheckpoints(g *level.Grid, params PlannerParams) []components.Position {
	start, ok := g.StartCell()
	if !ok {
		return nil
	}
	finish, ok := g.FinishCell()
	if !ok {
		return nil
	}
	p := NewPlanner(g, params)
	return p.Checkpoints(p.FindPath(start, finish), finish)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
