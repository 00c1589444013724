// Package nav plans paths for ground actors over a grid sampled from the
// physics scene and steers agents along them.
package nav

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sentry/physics"
)

var ErrNoPath = errors.New("nav: no path")

const (
	defaultCellSize    = 1.0
	defaultAgentRadius = 0.5
	defaultAgentHeight = 2.0
	defaultMaxStep     = 0.3
	snapSearchRadius   = 4
)

// Querier is the part of the physics scene the grid samples.
type Querier interface {
	CastDown(origin mgl64.Vec3, maxDist float64, mask uint32) (physics.Hit, bool)
	CheckSphere(center mgl64.Vec3, radius float64, mask uint32) bool
}

type GridConfig struct {
	Min         mgl64.Vec3
	Max         mgl64.Vec3
	CellSize    float64
	AgentRadius float64
	AgentHeight float64
	// MaxStep is the highest floor, above Min.Y, still counted as walkable.
	MaxStep    float64
	GroundMask uint32
	SolidMask  uint32
}

// Grid is a walkability map over the XZ plane.
type Grid struct {
	cfg      GridConfig
	width    int
	height   int
	blocked  []bool
	surfaceY []float64
}

type cell struct {
	x int
	z int
}

// NewGrid samples q once per cell. A cell is walkable when a downward cast
// from its center finds ground no higher than MaxStep and an agent standing
// there would not overlap anything solid.
func NewGrid(q Querier, cfg GridConfig) *Grid {
	if cfg.CellSize <= 0 {
		cfg.CellSize = defaultCellSize
	}
	if cfg.AgentRadius <= 0 {
		cfg.AgentRadius = defaultAgentRadius
	}
	if cfg.AgentHeight <= 0 {
		cfg.AgentHeight = defaultAgentHeight
	}
	if cfg.MaxStep <= 0 {
		cfg.MaxStep = defaultMaxStep
	}
	if cfg.GroundMask == 0 {
		cfg.GroundMask = uint32(physics.LayerGround)
	}
	if cfg.SolidMask == 0 {
		cfg.SolidMask = uint32(physics.LayerSolid)
	}

	g := &Grid{
		cfg:    cfg,
		width:  int(math.Ceil((cfg.Max.X() - cfg.Min.X()) / cfg.CellSize)),
		height: int(math.Ceil((cfg.Max.Z() - cfg.Min.Z()) / cfg.CellSize)),
	}
	if g.width <= 0 || g.height <= 0 {
		g.width, g.height = 0, 0
		return g
	}
	g.blocked = make([]bool, g.width*g.height)
	g.surfaceY = make([]float64, g.width*g.height)

	top := cfg.Max.Y() + 1
	span := top - cfg.Min.Y() + 1
	for z := 0; z < g.height; z++ {
		for x := 0; x < g.width; x++ {
			idx := z*g.width + x
			center := g.center(cell{x, z})
			hit, ok := q.CastDown(mgl64.Vec3{center.X(), top, center.Z()}, span, cfg.GroundMask)
			if !ok || hit.Point.Y() > cfg.Min.Y()+cfg.MaxStep {
				g.blocked[idx] = true
				continue
			}
			g.surfaceY[idx] = hit.Point.Y()
			body := mgl64.Vec3{center.X(), hit.Point.Y() + cfg.AgentHeight/2, center.Z()}
			if q.CheckSphere(body, cfg.AgentRadius, cfg.SolidMask) {
				g.blocked[idx] = true
			}
		}
	}
	return g
}

func (g *Grid) Size() (width, height int) {
	return g.width, g.height
}

func (g *Grid) CellSize() float64 {
	return g.cfg.CellSize
}

// Walkable reports whether the cell under p can be stood on.
func (g *Grid) Walkable(p mgl64.Vec3) bool {
	c, ok := g.cellAt(p)
	return ok && !g.blocked[g.index(c)]
}

// Blocked returns the world centers of every blocked cell.
func (g *Grid) Blocked() []mgl64.Vec3 {
	var out []mgl64.Vec3
	for i, b := range g.blocked {
		if b {
			out = append(out, g.center(cell{i % g.width, i / g.width}))
		}
	}
	return out
}

func (g *Grid) cellAt(p mgl64.Vec3) (cell, bool) {
	x := int(math.Floor((p.X() - g.cfg.Min.X()) / g.cfg.CellSize))
	z := int(math.Floor((p.Z() - g.cfg.Min.Z()) / g.cfg.CellSize))
	if x < 0 || z < 0 || x >= g.width || z >= g.height {
		return cell{}, false
	}
	return cell{x, z}, true
}

func (g *Grid) index(c cell) int {
	return c.z*g.width + c.x
}

func (g *Grid) center(c cell) mgl64.Vec3 {
	half := g.cfg.CellSize * 0.5
	return mgl64.Vec3{
		g.cfg.Min.X() + float64(c.x)*g.cfg.CellSize + half,
		0,
		g.cfg.Min.Z() + float64(c.z)*g.cfg.CellSize + half,
	}
}

// nearestWalkable looks for the closest open cell in growing rings around c.
func (g *Grid) nearestWalkable(c cell) (cell, bool) {
	if !g.blocked[g.index(c)] {
		return c, true
	}
	for r := 1; r <= snapSearchRadius; r++ {
		best := cell{}
		bestDist := math.Inf(1)
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				if abs(dx) != r && abs(dz) != r {
					continue
				}
				n := cell{c.x + dx, c.z + dz}
				if n.x < 0 || n.z < 0 || n.x >= g.width || n.z >= g.height || g.blocked[g.index(n)] {
					continue
				}
				d := float64(dx*dx + dz*dz)
				if d < bestDist {
					best, bestDist = n, d
				}
			}
		}
		if !math.IsInf(bestDist, 1) {
			return best, true
		}
	}
	return cell{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
