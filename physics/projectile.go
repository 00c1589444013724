package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Projectile is a dynamic ball. Chipmunk integrates its planar motion and
// wall bounces; the scene integrates its height under Scene.Gravity.
type Projectile struct {
	Radius float64
	Mass   float64
	// HitMask lists layers reported as hits besides ground and walls.
	HitMask Layer
	// Ignore is a collider owner never reported as a hit, usually the shooter.
	Ignore any

	Hit         bool
	HitCollider *Collider
	OutOfBounds bool

	body     *cp.Body
	collider *Collider
	y        float64
	vy       float64
	prevY    float64
}

// AddProjectile adds a dynamic ball at rest centered at pos.
func (s *Scene) AddProjectile(pos mgl64.Vec3, radius, mass float64, layer Layer) *Projectile {
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(planar(pos))
	s.space.AddBody(body)

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFilter(cp.ShapeFilter{Group: cp.NO_GROUP, Categories: uint(layer), Mask: uint(LayerSolid)})
	shape.SetCollisionType(collisionTypeProjectile)
	shape.SetElasticity(0.3)
	shape.SetFriction(0.2)

	p := &Projectile{
		Radius: radius,
		Mass:   mass,
		body:   body,
		y:      pos.Y(),
		prevY:  pos.Y(),
	}
	p.collider = &Collider{Layer: layer, shape: shape, moving: true}
	shape.UserData = p.collider
	p.syncSpan()
	s.space.AddShape(shape)
	s.projectiles = append(s.projectiles, p)
	s.projectileShapes[shape] = p
	return p
}

func (p *Projectile) Collider() *Collider {
	return p.collider
}

func (p *Projectile) Position() mgl64.Vec3 {
	pos := p.body.Position()
	return mgl64.Vec3{pos.X, p.y, pos.Y}
}

func (p *Projectile) Velocity() mgl64.Vec3 {
	v := p.body.Velocity()
	return mgl64.Vec3{v.X, p.vy, v.Y}
}

// ApplyImpulse changes the projectile's momentum by impulse.
func (s *Scene) ApplyImpulse(p *Projectile, impulse mgl64.Vec3) {
	if p == nil || p.body == nil {
		return
	}
	p.body.ApplyImpulseAtWorldPoint(planar(impulse), p.body.Position())
	p.vy += impulse.Y() / p.Mass
}

func (p *Projectile) markHit(c *Collider) {
	if p.Hit {
		return
	}
	p.Hit = true
	p.HitCollider = c
}

func (p *Projectile) syncSpan() {
	p.collider.MinY = p.y - p.Radius
	p.collider.MaxY = p.y + p.Radius
}

// RemoveProjectile takes a projectile out of the scene.
func (s *Scene) RemoveProjectile(p *Projectile) {
	if p == nil || p.body == nil {
		return
	}
	shape := p.collider.shape
	s.space.RemoveShape(shape)
	s.space.RemoveBody(p.body)
	delete(s.projectileShapes, shape)
	s.projectiles = removeItem(s.projectiles, p)
	p.body = nil
}

// Sensors adapts a scene to the query interface the controllers use.
type Sensors struct {
	Scene *Scene
}

func (q Sensors) CheckSphere(center mgl64.Vec3, radius float64, mask uint32) bool {
	return q.Scene.CheckSphere(center, radius, mask)
}

func (q Sensors) CastDown(origin mgl64.Vec3, maxDist float64, mask uint32) bool {
	_, ok := q.Scene.CastDown(origin, maxDist, mask)
	return ok
}
