package entity

import (
	"fmt"

	"github.com/milk9111/sentry/controller"
	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/component"
)

const DefaultProjectilePrefab = "projectile.yaml"

// BuildProjectile spawns a projectile prefab where spawn says, pushes it with
// the spawn impulse once and keeps it from hitting its shooter.
func BuildProjectile(w *ecs.World, prefab string, spawn controller.ProjectileSpawn, shooter ecs.Entity) (ecs.Entity, error) {
	if prefab == "" {
		prefab = DefaultProjectilePrefab
	}
	e, err := BuildEntity(w, prefab, &Placement{Position: spawn.Position, Yaw: spawn.Yaw, Pitch: spawn.Pitch})
	if err != nil {
		return 0, fmt.Errorf("projectile: %w", err)
	}
	p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
	if !ok || p.Ball == nil {
		Destroy(w, e)
		return 0, fmt.Errorf("projectile: prefab %q has no projectile", prefab)
	}
	services, err := Services(w)
	if err != nil {
		Destroy(w, e)
		return 0, fmt.Errorf("projectile: %w", err)
	}

	p.Shooter = uint64(shooter)
	p.Ball.Ignore = shooter
	services.Scene.ApplyImpulse(p.Ball, spawn.Impulse)
	return e, nil
}
