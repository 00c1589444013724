package system

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sentry/controller"
	"github.com/milk9111/sentry/ecs"
)

// BehaviourChange is the payload of ecs.EventBehaviourChanged.
type BehaviourChange struct {
	From controller.Behaviour
	To   controller.Behaviour
}

// ProjectileFired is the payload of ecs.EventProjectileFired. The event's
// entity is the shooter.
type ProjectileFired struct {
	Projectile ecs.Entity
	Position   mgl64.Vec3
	Impulse    mgl64.Vec3
}

// ProjectileHit is the payload of ecs.EventProjectileHit. Target is the
// owner of the collider that was hit: an entity, a level box name, or nil
// when the projectile fell out of the level.
type ProjectileHit struct {
	Shooter     ecs.Entity
	Target      any
	Position    mgl64.Vec3
	OutOfBounds bool
}

// PlayerJumped is the payload of ecs.EventPlayerJumped.
type PlayerJumped struct {
	Position mgl64.Vec3
}

func pushEvent(w *ecs.World, kind ecs.EventKind, e ecs.Entity, data any) {
	w.Events().Push(ecs.Event{Kind: kind, Entity: e, Frame: w.Frame(), Data: data})
}
