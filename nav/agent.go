package nav

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	defaultAgentSpeed    = 3.5
	defaultStoppingRange = 0.1
)

// Agent follows grid paths toward a destination. It only plans; the caller
// moves its body by the difference Advance returns.
type Agent struct {
	Speed            float64
	StoppingDistance float64

	grid     *Grid
	dest     mgl64.Vec3
	hasDest  bool
	destCell cell
	repath   bool
	path     []mgl64.Vec3
	next     int
	stuck    bool
}

func NewAgent(g *Grid, speed, stoppingDistance float64) *Agent {
	if speed <= 0 {
		speed = defaultAgentSpeed
	}
	if stoppingDistance < 0 {
		stoppingDistance = defaultStoppingRange
	}
	return &Agent{Speed: speed, StoppingDistance: stoppingDistance, grid: g}
}

// SetDestination retargets the agent. A new path is planned only when p falls
// in a different cell than the current destination.
func (a *Agent) SetDestination(p mgl64.Vec3) {
	c, _ := a.grid.cellAt(p)
	if !a.hasDest || c != a.destCell {
		a.repath = true
	} else if n := len(a.path); n > 0 && a.grid.Walkable(p) {
		a.path[n-1] = p
	}
	a.dest = p
	a.destCell = c
	a.hasDest = true
}

func (a *Agent) Destination() (mgl64.Vec3, bool) {
	return a.dest, a.hasDest
}

// Stop clears the destination.
func (a *Agent) Stop() {
	a.hasDest = false
	a.path = nil
	a.stuck = false
}

// Stuck reports whether the last plan could not bring the agent to its
// destination.
func (a *Agent) Stuck() bool {
	return a.stuck
}

// Path returns the waypoints still ahead of the agent.
func (a *Agent) Path() []mgl64.Vec3 {
	if a.next >= len(a.path) {
		return nil
	}
	return a.path[a.next:]
}

// Advance returns where an agent standing at from should be after dt. Only
// X and Z change.
func (a *Agent) Advance(from mgl64.Vec3, dt float64) mgl64.Vec3 {
	if !a.hasDest || dt <= 0 {
		return from
	}
	if planarDist(from, a.dest) <= a.StoppingDistance {
		a.path = nil
		a.stuck = false
		return from
	}

	if a.repath || a.next >= len(a.path) {
		a.plan(from)
	}
	if len(a.path) == 0 {
		return from
	}

	pos := from
	budget := a.Speed * dt
	for budget > 0 && a.next < len(a.path) {
		target := a.path[a.next]
		target[1] = pos.Y()
		last := a.next == len(a.path)-1

		d := planarDist(pos, target)
		if last {
			d -= a.StoppingDistance
			if d <= 0 {
				a.next++
				break
			}
		}
		if d <= budget {
			if last {
				pos = pos.Add(target.Sub(pos).Normalize().Mul(d))
			} else {
				pos = target
			}
			budget -= d
			a.next++
			continue
		}
		pos = pos.Add(target.Sub(pos).Normalize().Mul(budget))
		budget = 0
	}
	return pos
}

func (a *Agent) plan(from mgl64.Vec3) {
	a.repath = false
	a.stuck = false
	path, err := a.grid.FindPath(from, a.dest)
	if err != nil {
		a.path = nil
		a.next = 0
		a.stuck = true
		return
	}

	// Steer straight at the destination once its own cell is reached.
	if a.grid.Walkable(a.dest) {
		path[len(path)-1] = a.dest
	} else if planarDist(path[len(path)-1], a.dest) > a.StoppingDistance {
		a.stuck = true
	}
	a.path = path
	a.next = 0
	if len(path) > 1 {
		a.next = 1
	}
}

func planarDist(a, b mgl64.Vec3) float64 {
	dx := a.X() - b.X()
	dz := a.Z() - b.Z()
	return mgl64.Vec2{dx, dz}.Len()
}
