package nav

import (
	"container/heap"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FindPath returns world waypoints from start to goal, one per cell center,
// starting with start's cell. Blocked endpoints snap to the nearest open
// cell. Waypoint heights are the sampled floor heights.
func (g *Grid) FindPath(start, goal mgl64.Vec3) ([]mgl64.Vec3, error) {
	if g.width == 0 || g.height == 0 {
		return nil, ErrNoPath
	}
	sc, ok := g.cellAt(start)
	if !ok {
		return nil, ErrNoPath
	}
	gc, ok := g.cellAt(goal)
	if !ok {
		return nil, ErrNoPath
	}
	if sc, ok = g.nearestWalkable(sc); !ok {
		return nil, ErrNoPath
	}
	if gc, ok = g.nearestWalkable(gc); !ok {
		return nil, ErrNoPath
	}

	cells := g.astar(sc, gc)
	if len(cells) == 0 {
		return nil, ErrNoPath
	}
	out := make([]mgl64.Vec3, 0, len(cells))
	for _, c := range cells {
		p := g.center(c)
		p[1] = g.surfaceY[g.index(c)]
		out = append(out, p)
	}
	return out, nil
}

func (g *Grid) astar(start, goal cell) []cell {
	open := &openSet{}
	heap.Init(open)

	n := g.width * g.height
	cameFrom := make([]int, n)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	gScore := make([]float64, n)
	for i := range gScore {
		gScore[i] = math.Inf(1)
	}
	closed := make([]bool, n)

	startIdx := g.index(start)
	goalIdx := g.index(goal)
	gScore[startIdx] = 0
	heap.Push(open, &openItem{pos: start, f: heuristic(start, goal), seq: 0})
	seq := 1

	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		cur := current.pos
		curIdx := g.index(cur)
		if closed[curIdx] {
			continue
		}
		closed[curIdx] = true

		if curIdx == goalIdx {
			return g.reconstructPath(cameFrom, startIdx, goalIdx)
		}

		for _, nb := range g.neighbors(cur) {
			idx := g.index(nb)
			if g.blocked[idx] || closed[idx] {
				continue
			}
			tentativeG := gScore[curIdx] + 1
			if tentativeG < gScore[idx] {
				cameFrom[idx] = curIdx
				gScore[idx] = tentativeG
				heap.Push(open, &openItem{pos: nb, f: tentativeG + heuristic(nb, goal), seq: seq})
				seq++
			}
		}
	}
	return nil
}

func (g *Grid) reconstructPath(cameFrom []int, startIdx, goalIdx int) []cell {
	if startIdx == goalIdx {
		return []cell{{startIdx % g.width, startIdx / g.width}}
	}
	if cameFrom[goalIdx] == -1 {
		return nil
	}

	path := make([]cell, 0, 32)
	for cur := goalIdx; cur != -1; cur = cameFrom[cur] {
		path = append(path, cell{cur % g.width, cur / g.width})
		if cur == startIdx {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func (g *Grid) neighbors(c cell) []cell {
	out := make([]cell, 0, 4)
	if c.x > 0 {
		out = append(out, cell{c.x - 1, c.z})
	}
	if c.x < g.width-1 {
		out = append(out, cell{c.x + 1, c.z})
	}
	if c.z > 0 {
		out = append(out, cell{c.x, c.z - 1})
	}
	if c.z < g.height-1 {
		out = append(out, cell{c.x, c.z + 1})
	}
	return out
}

func heuristic(a, b cell) float64 {
	return math.Abs(float64(a.x-b.x)) + math.Abs(float64(a.z-b.z))
}

type openItem struct {
	pos cell
	f   float64
	seq int
}

type openSet []*openItem

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].seq < o[j].seq
}
func (o openSet) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o *openSet) Push(x any)   { *o = append(*o, x.(*openItem)) }
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
