package bramble

import (
	"container/heap"
	"math"
)

// DefaultDiagonalCost is the cost of a diagonal step when none is given.
var DefaultDiagonalCost = math.Sqrt2

// neighbor offsets: orthogonal first, then diagonal.
var stepDirs = [8]Point{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

// openItem is an entry in the search frontier.
type openItem struct {
	idx   int
	prio  float64
	order int
}

// openSet is a min-heap on prio, FIFO among equal priorities so results
// are deterministic.
type openSet []openItem

func (h openSet) Len() int { return len(h) }
func (h openSet) Less(i, j int) bool {
	if h[i].prio != h[j].prio {
		return h[i].prio < h[j].prio
	}
	return h[i].order < h[j].order
}
func (h openSet) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *openSet) Push(x any)   { *h = append(*h, x.(openItem)) }
func (h *openSet) Pop() any {
	old := *h
	it := old[len(old)-1]
	*h = old[:len(old)-1]
	return it
}

// stepCount returns how many directions to expand: 4 without diagonals.
func stepCount(diagonal float64) int {
	if diagonal <= 0 {
		return 4
	}
	return 8
}

// octile is an admissible distance estimate for the given diagonal cost.
func octile(dx, dy int, diagonal float64) float64 {
	dx, dy = abs(dx), abs(dy)
	if diagonal <= 0 {
		return float64(dx + dy)
	}
	lo, hi := min(dx, dy), max(dx, dy)
	return float64(hi-lo) + float64(lo)*math.Min(diagonal, 2)
}

// FindPath returns the cheapest path from start to end, both included,
// using cell walkability at call time. Orthogonal steps cost 1; diagonal
// steps cost diagonal, and diagonal <= 0 disables them. It returns nil when
// either point is out of bounds, end is not walkable, or no path exists.
// FindPath(a, a) is [a].
func (g *Grid) FindPath(start, end Point, diagonal float64) []Point {
	if !g.InBounds(start.X, start.Y) || !g.InBounds(end.X, end.Y) {
		return nil
	}
	if start == end {
		return []Point{start}
	}
	if !g.walkable(end.X, end.Y) {
		return nil
	}

	n := g.gridW * g.gridH
	cost := make([]float64, n)
	from := make([]int32, n)
	closed := make([]bool, n)
	for i := range cost {
		cost[i] = math.Inf(1)
		from[i] = -1
	}
	si := start.Y*g.gridW + start.X
	ei := end.Y*g.gridW + end.X
	cost[si] = 0

	open := &openSet{}
	order := 0
	heap.Push(open, openItem{idx: si, prio: octile(end.X-start.X, end.Y-start.Y, diagonal)})
	dirs := stepCount(diagonal)

	for open.Len() > 0 {
		cur := heap.Pop(open).(openItem)
		if closed[cur.idx] {
			continue
		}
		if cur.idx == ei {
			break
		}
		closed[cur.idx] = true
		cx, cy := cur.idx%g.gridW, cur.idx/g.gridW
		for d := 0; d < dirs; d++ {
			nx, ny := cx+stepDirs[d].X, cy+stepDirs[d].Y
			if !g.InBounds(nx, ny) || !g.walkable(nx, ny) {
				continue
			}
			ni := ny*g.gridW + nx
			if closed[ni] {
				continue
			}
			step := 1.0
			if d >= 4 {
				step = diagonal
			}
			nc := cost[cur.idx] + step
			if nc < cost[ni] {
				cost[ni] = nc
				from[ni] = int32(cur.idx)
				order++
				heap.Push(open, openItem{idx: ni, prio: nc + octile(end.X-nx, end.Y-ny, diagonal), order: order})
			}
		}
	}
	if from[ei] < 0 {
		return nil
	}
	var rev []Point
	for i := ei; i != si; i = int(from[i]) {
		rev = append(rev, Point{i % g.gridW, i / g.gridW})
	}
	rev = append(rev, start)
	for l, r := 0, len(rev)-1; l < r; l, r = l+1, r-1 {
		rev[l], rev[r] = rev[r], rev[l]
	}
	return rev
}

type dijkstraKey struct {
	root     Point
	diagonal float64
}

// DijkstraMap holds the distance from every cell to a root cell over
// walkable cells, computed once when the map is built.
type DijkstraMap struct {
	grid     *Grid
	root     Point
	diagonal float64
	w, h     int
	dist     []float64
}

// DijkstraMap returns the cached distance map rooted at root, building it
// on first use. The cache is keyed by root and diagonal cost and is dropped
// by ClearDijkstraMaps; walkability changes do not invalidate it.
func (g *Grid) DijkstraMap(root Point, diagonal float64) (*DijkstraMap, error) {
	if !g.InBounds(root.X, root.Y) {
		return nil, indexErrorf("dijkstra root (%d, %d) outside grid", root.X, root.Y)
	}
	key := dijkstraKey{root, diagonal}
	if dm, ok := g.dijkstra[key]; ok {
		return dm, nil
	}
	dm := &DijkstraMap{grid: g, root: root, diagonal: diagonal, w: g.gridW, h: g.gridH}
	dm.compute()
	if g.dijkstra == nil {
		g.dijkstra = make(map[dijkstraKey]*DijkstraMap)
	}
	g.dijkstra[key] = dm
	return dm, nil
}

// ClearDijkstraMaps drops every cached distance map.
func (g *Grid) ClearDijkstraMaps() {
	clear(g.dijkstra)
}

// DijkstraMapCount reports how many distance maps are cached.
func (g *Grid) DijkstraMapCount() int { return len(g.dijkstra) }

func (dm *DijkstraMap) compute() {
	g := dm.grid
	n := dm.w * dm.h
	dm.dist = make([]float64, n)
	for i := range dm.dist {
		dm.dist[i] = math.Inf(1)
	}
	ri := dm.root.Y*dm.w + dm.root.X
	dm.dist[ri] = 0
	open := &openSet{}
	heap.Push(open, openItem{idx: ri})
	order := 0
	dirs := stepCount(dm.diagonal)
	for open.Len() > 0 {
		cur := heap.Pop(open).(openItem)
		if cur.prio > dm.dist[cur.idx] {
			continue
		}
		cx, cy := cur.idx%dm.w, cur.idx/dm.w
		for d := 0; d < dirs; d++ {
			nx, ny := cx+stepDirs[d].X, cy+stepDirs[d].Y
			if !g.InBounds(nx, ny) || !g.walkable(nx, ny) {
				continue
			}
			step := 1.0
			if d >= 4 {
				step = dm.diagonal
			}
			ni := ny*dm.w + nx
			if nd := dm.dist[cur.idx] + step; nd < dm.dist[ni] {
				dm.dist[ni] = nd
				order++
				heap.Push(open, openItem{idx: ni, prio: nd, order: order})
			}
		}
	}
}

// Root returns the map's root cell.
func (dm *DijkstraMap) Root() Point { return dm.root }

// Distance returns the path cost from the root to cell. It reports false
// for cells out of bounds or unreachable.
func (dm *DijkstraMap) Distance(cell Point) (float64, bool) {
	if cell.X < 0 || cell.Y < 0 || cell.X >= dm.w || cell.Y >= dm.h {
		return 0, false
	}
	d := dm.dist[cell.Y*dm.w+cell.X]
	if math.IsInf(d, 1) {
		return 0, false
	}
	return d, true
}

// PathFrom returns the path from cell down to the root, both included, by
// following decreasing distance. nil when cell is unreachable.
func (dm *DijkstraMap) PathFrom(cell Point) []Point {
	if _, ok := dm.Distance(cell); !ok {
		return nil
	}
	path := []Point{cell}
	cur := cell
	dirs := stepCount(dm.diagonal)
	for cur != dm.root {
		best := cur
		bestD := dm.dist[cur.Y*dm.w+cur.X]
		for d := 0; d < dirs; d++ {
			nx, ny := cur.X+stepDirs[d].X, cur.Y+stepDirs[d].Y
			if nx < 0 || ny < 0 || nx >= dm.w || ny >= dm.h {
				continue
			}
			if nd := dm.dist[ny*dm.w+nx]; nd < bestD {
				best, bestD = Point{nx, ny}, nd
			}
		}
		if best == cur {
			return nil
		}
		cur = best
		path = append(path, cur)
	}
	return path
}

// PathTo returns the path from the root to cell, both included.
func (dm *DijkstraMap) PathTo(cell Point) []Point {
	p := dm.PathFrom(cell)
	for l, r := 0, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}
	return p
}
