package component

import "github.com/milk9111/sentry/physics"

// Body ties an entity to its kinematic actor in the scene.
type Body struct {
	Actor *physics.Actor
}

var BodyComponent = NewComponent[Body]()

// Projectile ties an entity to its dynamic ball in the scene.
type Projectile struct {
	Ball *physics.Projectile
	// Shooter is the raw id of the entity that fired it.
	Shooter uint64
}

var ProjectileComponent = NewComponent[Projectile]()
