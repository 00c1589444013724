package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Actor is a kinematic upright cylinder moved only through MoveActor. Its
// position is the center of the cylinder.
type Actor struct {
	Radius float64
	Height float64
	// SolidMask lists the layers that block horizontal movement.
	SolidMask Layer
	// FloorMask lists the layers the actor can stand on.
	FloorMask Layer

	scene    *Scene
	body     *cp.Body
	collider *Collider
	y        float64
}

// AddActor adds a kinematic actor centered at pos.
func (s *Scene) AddActor(pos mgl64.Vec3, radius, height float64, layer Layer) *Actor {
	body := cp.NewKinematicBody()
	body.SetPosition(planar(pos))
	s.space.AddBody(body)

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFilter(shapeFilter(layer))

	a := &Actor{
		Radius:    radius,
		Height:    height,
		SolidMask: LayerSolid,
		FloorMask: LayerGround | LayerSolid,
		scene:     s,
		body:      body,
		y:         pos.Y(),
	}
	a.collider = &Collider{Layer: layer, shape: shape, moving: true}
	shape.UserData = a.collider
	a.syncSpan()
	s.space.AddShape(shape)
	s.actors = append(s.actors, a)
	return a
}

func (a *Actor) Collider() *Collider {
	return a.collider
}

func (a *Actor) Position() mgl64.Vec3 {
	p := a.body.Position()
	return mgl64.Vec3{p.X, a.y, p.Y}
}

func (a *Actor) Feet() float64 {
	return a.y - a.Height/2
}

// Move lets an actor serve as a character body for the player controller.
func (a *Actor) Move(delta mgl64.Vec3) {
	a.scene.MoveActor(a, delta)
}

// Teleport places the actor without collision.
func (a *Actor) Teleport(pos mgl64.Vec3) {
	a.body.SetPosition(planar(pos))
	a.y = pos.Y()
	a.syncSpan()
	a.collider.shape.CacheBB()
}

func (a *Actor) syncSpan() {
	a.collider.MinY = a.Feet()
	a.collider.MaxY = a.Feet() + a.Height
}

// MoveActor applies delta in two parts. The horizontal part is pushed back
// out of solid colliders that overlap the actor's height; the vertical part
// stops on the highest floor top the actor was standing above.
func (s *Scene) MoveActor(a *Actor, delta mgl64.Vec3) {
	if a == nil || a.scene != s {
		return
	}
	if delta.X() != 0 || delta.Z() != 0 {
		s.moveHorizontal(a, delta.X(), delta.Z())
	}
	if delta.Y() != 0 {
		s.moveVertical(a, delta.Y())
	}
	a.syncSpan()
	a.collider.shape.CacheBB()
}

func (s *Scene) moveHorizontal(a *Actor, dx, dz float64) {
	p := a.body.Position().Add(cp.Vector{X: dx, Y: dz})
	feet := a.Feet()
	head := feet + a.Height

	for i := 0; i < pushIterations; i++ {
		push := cp.Vector{}
		blocked := false
		s.pointQuery(p, a.Radius, uint32(a.SolidMask), func(c *Collider, info cp.PointQueryInfo) {
			if c == a.collider {
				return
			}
			if c.MaxY <= feet+s.StepLimit || c.MinY >= head {
				return
			}
			depth := a.Radius - info.Distance
			if depth <= 0 {
				return
			}
			push = push.Add(info.Gradient.Mult(depth))
			blocked = true
		})
		if !blocked {
			break
		}
		p = p.Add(push)
	}
	a.body.SetPosition(p)
}

func (s *Scene) moveVertical(a *Actor, dy float64) {
	feet := a.Feet()
	target := feet + dy
	if dy < 0 {
		if top, ok := s.floorBelow(a, feet); ok && target < top {
			target = top
		}
	}
	a.y = target + a.Height/2
}

// floorBelow finds the highest floor top under the actor's footprint that is
// not above its feet, allowing a ledge up to StepLimit.
func (s *Scene) floorBelow(a *Actor, feet float64) (float64, bool) {
	top := math.Inf(-1)
	found := false
	s.pointQuery(a.body.Position(), a.Radius*0.5, uint32(a.FloorMask), func(c *Collider, _ cp.PointQueryInfo) {
		if c == a.collider {
			return
		}
		if c.MaxY > feet+s.StepLimit {
			return
		}
		if c.MaxY > top {
			top = c.MaxY
			found = true
		}
	})
	return top, found
}

// RemoveActor takes an actor out of the scene.
func (s *Scene) RemoveActor(a *Actor) {
	if a == nil || a.body == nil {
		return
	}
	s.space.RemoveShape(a.collider.shape)
	s.space.RemoveBody(a.body)
	s.actors = removeItem(s.actors, a)
	a.body = nil
}
