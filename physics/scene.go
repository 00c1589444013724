// Package physics is a 2.5D collision scene over chipmunk. Every collider is a
// shape in the horizontal XZ plane (cp X is world X, cp Y is world Z) plus a
// vertical span [MinY, MaxY] kept alongside it.
package physics

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeProjectile
)

const (
	defaultGravity   = -9.81
	defaultKillY     = -50.0
	defaultStepLimit = 0.3
	pushIterations   = 4
	heightEpsilon    = 1e-6
)

// Collider is the data attached to every cp shape in the scene.
type Collider struct {
	Layer Layer
	MinY  float64
	MaxY  float64
	// Owner is whatever the host wants back from a query, usually an entity.
	Owner any

	shape *cp.Shape
	// moving colliders are matched directly instead of through the space's
	// index, which chipmunk only refits inside Space.Step.
	moving bool
}

// Bounds returns the collider's world box.
func (c *Collider) Bounds() (min, max mgl64.Vec3) {
	bb := c.shape.BB()
	return mgl64.Vec3{bb.L, c.MinY, bb.B}, mgl64.Vec3{bb.R, c.MaxY, bb.T}
}

// Hit is the result of a downward cast.
type Hit struct {
	Point    mgl64.Vec3
	Distance float64
	Collider *Collider
}

type Scene struct {
	// Gravity drives the vertical motion of projectiles.
	Gravity float64
	// KillY removes projectiles that fall out of the level.
	KillY float64
	// StepLimit is the tallest ledge an actor walks onto without jumping.
	StepLimit float64

	space            *cp.Space
	actors           []*Actor
	projectiles      []*Projectile
	projectileShapes map[*cp.Shape]*Projectile
}

func NewScene() *Scene {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})

	s := &Scene{
		Gravity:          defaultGravity,
		KillY:            defaultKillY,
		StepLimit:        defaultStepLimit,
		space:            space,
		projectileShapes: make(map[*cp.Shape]*Projectile),
	}
	s.ensureHandlers()
	return s
}

func (s *Scene) Space() *cp.Space {
	if s == nil {
		return nil
	}
	return s.space
}

func (s *Scene) ensureHandlers() {
	handler := s.space.NewCollisionHandler(collisionTypeProjectile, collisionTypeSolid)
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		shapeA, shapeB := arb.Shapes()
		proj, ok := s.projectileShapes[shapeA]
		if !ok {
			proj, ok = s.projectileShapes[shapeB]
			shapeB = shapeA
		}
		if !ok {
			return true
		}
		w, ok := shapeB.UserData.(*Collider)
		if !ok {
			return true
		}
		// A wall only stops projectiles passing at its height.
		if proj.y+proj.Radius < w.MinY || proj.y-proj.Radius > w.MaxY {
			return false
		}
		proj.markHit(w)
		return true
	}
}

// AddBox adds a static axis-aligned box.
func (s *Scene) AddBox(min, max mgl64.Vec3, layer Layer) *Collider {
	lo := mgl64.Vec3{math.Min(min.X(), max.X()), math.Min(min.Y(), max.Y()), math.Min(min.Z(), max.Z())}
	hi := mgl64.Vec3{math.Max(min.X(), max.X()), math.Max(min.Y(), max.Y()), math.Max(min.Z(), max.Z())}

	shape := cp.NewBox2(s.space.StaticBody, cp.BB{L: lo.X(), B: lo.Z(), R: hi.X(), T: hi.Z()}, 0)
	shape.SetFilter(shapeFilter(layer))
	shape.SetFriction(0.8)
	if layer.Has(LayerSolid) {
		shape.SetCollisionType(collisionTypeSolid)
	}
	c := &Collider{Layer: layer, MinY: lo.Y(), MaxY: hi.Y(), shape: shape}
	shape.UserData = c
	s.space.AddShape(shape)
	return c
}

// RemoveBox takes a static collider out of the scene.
func (s *Scene) RemoveBox(c *Collider) {
	if c == nil || c.shape == nil {
		return
	}
	s.space.RemoveShape(c.shape)
	c.shape = nil
}

// CheckSphere reports whether any collider in mask overlaps the sphere.
func (s *Scene) CheckSphere(center mgl64.Vec3, radius float64, mask uint32) bool {
	found := false
	s.pointQuery(planar(center), radius, mask, func(c *Collider, info cp.PointQueryInfo) {
		if !found {
			found = sphereTouches(c, center, radius, info.Distance)
		}
	})
	return found
}

// Overlaps lists every collider in mask that overlaps the sphere.
func (s *Scene) Overlaps(center mgl64.Vec3, radius float64, mask uint32) []*Collider {
	var out []*Collider
	s.pointQuery(planar(center), radius, mask, func(c *Collider, info cp.PointQueryInfo) {
		if sphereTouches(c, center, radius, info.Distance) {
			out = append(out, c)
		}
	})
	return out
}

// CastDown casts a ray straight down from origin and returns the nearest
// collider top in mask within maxDist. Colliders that already contain the
// origin are ignored, the way a ray starting inside a collider misses it.
func (s *Scene) CastDown(origin mgl64.Vec3, maxDist float64, mask uint32) (Hit, bool) {
	best := Hit{Distance: math.Inf(1)}
	found := false
	s.pointQuery(planar(origin), heightEpsilon, mask, func(c *Collider, _ cp.PointQueryInfo) {
		if c.MaxY > origin.Y()+heightEpsilon {
			return
		}
		d := origin.Y() - c.MaxY
		if d > maxDist || d >= best.Distance {
			return
		}
		best = Hit{
			Point:    mgl64.Vec3{origin.X(), c.MaxY, origin.Z()},
			Distance: d,
			Collider: c,
		}
		found = true
	})
	return best, found
}

// pointQuery calls fn for every collider in mask whose footprint lies within
// maxDist of p. Static boxes come from the space's bounding box index; actors
// and projectiles are tested against their current position.
func (s *Scene) pointQuery(p cp.Vector, maxDist float64, mask uint32, fn func(*Collider, cp.PointQueryInfo)) {
	filter := queryFilter(mask)
	visit := func(shape *cp.Shape) {
		c, ok := shape.UserData.(*Collider)
		if !ok {
			return
		}
		info := shape.PointQuery(p)
		if info.Distance > maxDist {
			return
		}
		fn(c, info)
	}

	s.space.BBQuery(cp.NewBBForCircle(p, maxDist), filter, func(shape *cp.Shape, _ interface{}) {
		if c, ok := shape.UserData.(*Collider); ok && !c.moving {
			visit(shape)
		}
	}, nil)

	for _, a := range s.actors {
		s.visitMoving(a.collider, filter, visit)
	}
	for _, pr := range s.projectiles {
		s.visitMoving(pr.collider, filter, visit)
	}
}

func (s *Scene) visitMoving(c *Collider, filter cp.ShapeFilter, visit func(*cp.Shape)) {
	if c == nil || c.shape == nil || c.shape.Filter.Reject(filter) {
		return
	}
	c.shape.CacheBB()
	visit(c.shape)
}

// Step advances projectiles by dt and collects their hits.
func (s *Scene) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for _, p := range s.projectiles {
		p.prevY = p.y
		p.vy += s.Gravity * dt
		p.y += p.vy * dt
	}

	s.space.Step(dt)

	for _, p := range s.projectiles {
		p.syncSpan()
		if p.Hit {
			continue
		}
		s.landProjectile(p)
		if p.Hit {
			continue
		}
		if p.HitMask != 0 {
			for _, c := range s.Overlaps(p.Position(), p.Radius, uint32(p.HitMask)) {
				if c == p.collider || (p.Ignore != nil && c.Owner == p.Ignore) {
					continue
				}
				p.markHit(c)
				break
			}
		}
		if !p.Hit && p.y < s.KillY {
			p.Hit = true
			p.OutOfBounds = true
		}
	}
}

func (s *Scene) landProjectile(p *Projectile) {
	if p.vy >= 0 {
		return
	}
	origin := p.Position()
	origin[1] = p.prevY - p.Radius
	hit, ok := s.CastDown(origin, p.prevY-p.y, uint32(LayerGround|LayerSolid))
	if !ok {
		return
	}
	p.y = hit.Point.Y() + p.Radius
	p.vy = 0
	p.syncSpan()
	p.markHit(hit.Collider)
}

// sphereTouches refines a planar hit with the collider's vertical span. The
// planar distance is negative when the center lies inside the footprint.
func sphereTouches(c *Collider, center mgl64.Vec3, radius, planarDist float64) bool {
	dxz := math.Max(planarDist, 0)
	dy := 0.0
	switch y := center.Y(); {
	case y < c.MinY:
		dy = c.MinY - y
	case y > c.MaxY:
		dy = y - c.MaxY
	}
	return dxz*dxz+dy*dy <= radius*radius
}

func removeItem[T comparable](items []T, item T) []T {
	if i := slices.Index(items, item); i >= 0 {
		return slices.Delete(items, i, i+1)
	}
	return items
}

func planar(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Z()}
}

func shapeFilter(layer Layer) cp.ShapeFilter {
	return cp.ShapeFilter{Group: cp.NO_GROUP, Categories: uint(layer), Mask: cp.ALL_CATEGORIES}
}

func queryFilter(mask uint32) cp.ShapeFilter {
	return cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: uint(mask)}
}
