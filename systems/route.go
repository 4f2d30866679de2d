package systems

import (
	"container/heap"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/components"
)

// RoutePlanner finds routes across the terrain grid with A*. Tiles an agent
// would block on or steer away from are both treated as closed, so routes
// keep clear of the shore.
type RoutePlanner struct {
	terrain *TerrainField

	// Reusable data structures (cleared between searches)
	open     *nodeHeap
	closed   map[int]struct{}
	cameFrom map[int]int
	gScore   map[int]float64
}

// Route is a planned list of waypoints in viewport coordinates.
type Route struct {
	Waypoints []r2.Vec
	Index     int
	Target    r2.Vec // goal when the route was planned
	Gen       uint64 // terrain generation the route was planned on
}

// astarNode is a node in the A* search.
type astarNode struct {
	col, row int
	f        float64 // f = g + h (priority)
	index    int     // heap index
}

// nodeHeap implements heap.Interface for the A* open set.
type nodeHeap []*astarNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
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

// NewRoutePlanner creates a planner over the given field.
func NewRoutePlanner(terrain *TerrainField) *RoutePlanner {
	return &RoutePlanner{
		terrain:  terrain,
		open:     &nodeHeap{},
		closed:   make(map[int]struct{}, 256),
		cameFrom: make(map[int]int, 256),
		gScore:   make(map[int]float64, 256),
	}
}

// Passable reports whether an agent of the category may route through a tile.
func (p *RoutePlanner) Passable(col, row int, cat components.Category) bool {
	if !p.terrain.InBounds(col, row) {
		return false
	}
	t := p.terrain.At(col, row)
	return !blocks(cat, t) && t != avoidedTerrain(cat)
}

// FindRoute computes a route from start to goal. Returns nil if the goal
// is unreachable. The first waypoint is the start tile centre and the last
// the goal tile centre; waypoints the route can see past are dropped.
func (p *RoutePlanner) FindRoute(start, goal r2.Vec, cat components.Category) *Route {
	t := p.terrain
	startCol, startRow := t.WorldToTile(start.X, start.Y)
	goalCol, goalRow := t.WorldToTile(goal.X, goal.Y)

	var ok bool
	if startCol, startRow, ok = p.nearestOpen(startCol, startRow, cat); !ok {
		return nil
	}
	if goalCol, goalRow, ok = p.nearestOpen(goalCol, goalRow, cat); !ok {
		return nil
	}

	route := &Route{Target: goal, Gen: t.Generation()}
	if startCol == goalCol && startRow == goalRow {
		x, y := t.TileCentre(goalCol, goalRow)
		route.Waypoints = []r2.Vec{{X: x, Y: y}}
		return route
	}

	*p.open = (*p.open)[:0]
	clear(p.closed)
	clear(p.cameFrom)
	clear(p.gScore)

	w := t.Width()
	startID := startRow*w + startCol
	goalID := goalRow*w + goalCol

	p.gScore[startID] = 0
	heap.Push(p.open, &astarNode{col: startCol, row: startRow, f: heuristic(startCol, startRow, goalCol, goalRow)})

	maxIterations := w * t.Height()
	for iterations := 0; p.open.Len() > 0 && iterations < maxIterations; iterations++ {
		current := heap.Pop(p.open).(*astarNode)
		currentID := current.row*w + current.col

		if currentID == goalID {
			route.Waypoints = p.reconstruct(startID, goalID, cat)
			return route
		}
		if _, done := p.closed[currentID]; done {
			continue
		}
		p.closed[currentID] = struct{}{}

		for i, d := range neighbourOffsets {
			nc, nr := current.col+d[0], current.row+d[1]
			if !p.Passable(nc, nr, cat) {
				continue
			}
			// Diagonals may not cut corners
			if i >= 4 && (!p.Passable(current.col+d[0], current.row, cat) || !p.Passable(current.col, current.row+d[1], cat)) {
				continue
			}

			nID := nr*w + nc
			if _, done := p.closed[nID]; done {
				continue
			}

			cost := 1.0
			if i >= 4 {
				cost = math.Sqrt2
			}
			g := p.gScore[currentID] + cost
			if existing, seen := p.gScore[nID]; seen && g >= existing {
				continue
			}
			p.cameFrom[nID] = currentID
			p.gScore[nID] = g
			heap.Push(p.open, &astarNode{col: nc, row: nr, f: g + heuristic(nc, nr, goalCol, goalRow)})
		}
	}

	return nil
}

// neighbourOffsets lists the four cardinal moves before the four diagonals.
var neighbourOffsets = [8][2]int{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}

func heuristic(fromCol, fromRow, toCol, toRow int) float64 {
	return math.Hypot(float64(toCol-fromCol), float64(toRow-fromRow))
}

// reconstruct walks cameFrom back from the goal and simplifies the result.
func (p *RoutePlanner) reconstruct(startID, goalID int, cat components.Category) []r2.Vec {
	w := p.terrain.Width()

	var ids []int
	for current := goalID; ; {
		ids = append(ids, current)
		if current == startID {
			break
		}
		prev, ok := p.cameFrom[current]
		if !ok {
			break
		}
		current = prev
	}

	path := make([]r2.Vec, len(ids))
	for i := range ids {
		id := ids[len(ids)-1-i]
		x, y := p.terrain.TileCentre(id%w, id/w)
		path[i] = r2.Vec{X: x, Y: y}
	}
	return p.simplify(path, cat)
}

// simplify drops waypoints that the neighbours on either side can see past.
func (p *RoutePlanner) simplify(path []r2.Vec, cat components.Category) []r2.Vec {
	if len(path) <= 2 {
		return path
	}

	out := make([]r2.Vec, 0, len(path))
	out = append(out, path[0])
	for i := 1; i < len(path)-1; i++ {
		if !p.LineOfSight(out[len(out)-1], path[i+1], cat) {
			out = append(out, path[i])
		}
	}
	return append(out, path[len(path)-1])
}

// LineOfSight reports whether a straight run between two points crosses only
// passable tiles.
func (p *RoutePlanner) LineOfSight(a, b r2.Vec, cat components.Category) bool {
	d := r2.Sub(b, a)
	dist := r2.Norm(d)
	if dist < 0.01 {
		return true
	}

	step := p.terrain.TileSize() * 0.5
	steps := int(dist/step) + 1
	dir := r2.Scale(1/dist, d)
	for i := 0; i <= steps; i++ {
		q := r2.Add(a, r2.Scale(math.Min(float64(i)*step, dist), dir))
		col, row := p.terrain.WorldToTile(q.X, q.Y)
		if !p.Passable(col, row, cat) {
			return false
		}
	}
	return true
}

// nearestOpen spirals out from a tile to the closest passable one.
func (p *RoutePlanner) nearestOpen(col, row int, cat components.Category) (int, int, bool) {
	if p.Passable(col, row, cat) {
		return col, row, true
	}
	for radius := 1; radius < 10; radius++ {
		for dr := -radius; dr <= radius; dr++ {
			for dc := -radius; dc <= radius; dc++ {
				if absInt(dc) != radius && absInt(dr) != radius {
					continue
				}
				if p.Passable(col+dc, row+dr, cat) {
					return col + dc, row + dr, true
				}
			}
		}
	}
	return 0, 0, false
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Shift moves every waypoint and the target by the negative camera pan.
func (r *Route) Shift(dx, dy float64) {
	d := r2.Vec{X: dx, Y: dy}
	for i := range r.Waypoints {
		r.Waypoints[i] = r2.Sub(r.Waypoints[i], d)
	}
	r.Target = r2.Sub(r.Target, d)
}

// Valid reports whether the route still leads to target on the current
// terrain. A target that moved more than tolerance invalidates it.
func (r *Route) Valid(target r2.Vec, gen uint64, tolerance float64) bool {
	if r == nil || r.Index >= len(r.Waypoints) || r.Gen != gen {
		return false
	}
	return Dist(target, r.Target) <= tolerance
}

// Next returns the waypoint to steer for from pos, advancing past waypoints
// closer than arrival. The second result is false once the last waypoint is
// reached.
func (r *Route) Next(pos r2.Vec, arrival float64) (r2.Vec, bool) {
	if r == nil || r.Index >= len(r.Waypoints) {
		return pos, false
	}
	for r.Index < len(r.Waypoints) && Dist(pos, r.Waypoints[r.Index]) < arrival {
		r.Index++
	}
	if r.Index >= len(r.Waypoints) {
		return r.Waypoints[len(r.Waypoints)-1], false
	}
	return r.Waypoints[r.Index], true
}
