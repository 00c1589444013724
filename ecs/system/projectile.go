package system

import (
	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/component"
	"github.com/milk9111/sentry/ecs/entity"
	"github.com/milk9111/sentry/logger"
)

// ProjectileSystem steps the collision scene, mirrors projectile positions
// into their transforms and removes projectiles that hit something.
type ProjectileSystem struct{}

func NewProjectileSystem() *ProjectileSystem {
	return &ProjectileSystem{}
}

func (s *ProjectileSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	services, err := entity.Services(w)
	if err != nil {
		return
	}
	services.Scene.Step(w.Delta())

	var spent []ecs.Entity
	ecs.ForEach(w, component.ProjectileComponent.Kind(), func(e ecs.Entity, p *component.Projectile) {
		if p.Ball == nil {
			return
		}
		pos := p.Ball.Position()
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.Position = pos
		}
		if !p.Ball.Hit {
			return
		}

		hit := ProjectileHit{
			Shooter:     ecs.Entity(p.Shooter),
			Position:    pos,
			OutOfBounds: p.Ball.OutOfBounds,
		}
		if p.Ball.HitCollider != nil {
			hit.Target = p.Ball.HitCollider.Owner
		}
		pushEvent(w, ecs.EventProjectileHit, e, hit)
		services.Log.Debug("projectile hit",
			logger.F("projectile", e),
			logger.F("target", hit.Target),
			logger.F("out_of_bounds", hit.OutOfBounds),
			logger.F("frame", w.Frame()),
		)
		spent = append(spent, e)
	})
	for _, e := range spent {
		entity.Destroy(w, e)
	}
}
