package entity

import (
	"fmt"

	"github.com/milk9111/sentry/controller"
	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/component"
)

const DefaultEnemyPrefab = "enemy.yaml"

func BuildEnemy(w *ecs.World, prefab string, at Placement) (ecs.Entity, error) {
	if prefab == "" {
		prefab = DefaultEnemyPrefab
	}
	e, err := BuildEntity(w, prefab, &at)
	if err != nil {
		return 0, fmt.Errorf("enemy: %w", err)
	}
	if !ecs.Has(w, e, component.EnemyBrainComponent.Kind()) {
		Destroy(w, e)
		return 0, fmt.Errorf("enemy: prefab %q has no enemy_brain", prefab)
	}
	return e, nil
}

// RefreshEnemies rebuilds every enemy built from prefab in place, keeping
// each one's position, facing and controller state (behaviour, walk target,
// attack cooldown). Enemies whose rebuild fails keep running on their old
// configuration.
func RefreshEnemies(w *ecs.World, prefab string) (int, error) {
	type placed struct {
		e      ecs.Entity
		prefab string
		at     Placement
	}
	var targets []placed
	ecs.ForEach2(w, component.EnemyBrainComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, brain *component.EnemyBrain, t *component.Transform) {
		if prefab != "" && brain.Prefab != prefab {
			return
		}
		targets = append(targets, placed{e: e, prefab: brain.Prefab, at: Placement{Position: t.Position, Yaw: t.Yaw, Pitch: t.Pitch}})
	})

	rebuilt := 0
	var firstErr error
	for _, target := range targets {
		// The old body must leave the scene first or the new one spawns
		// overlapping it.
		body, hasBody := ecs.Get(w, target.e, component.BodyComponent.Kind())
		var saved *component.Body
		if hasBody {
			saved = &component.Body{Actor: body.Actor}
			if services, err := Services(w); err == nil && body.Actor != nil {
				services.Scene.RemoveActor(body.Actor)
			}
			ecs.Remove(w, target.e, component.BodyComponent.Kind())
		}

		var prev *controller.EnemyController
		if brain, ok := ecs.Get(w, target.e, component.EnemyBrainComponent.Kind()); ok {
			prev = brain.Controller
		}

		e, err := BuildEnemy(w, target.prefab, target.at)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if saved != nil && saved.Actor != nil {
				restoreBody(w, target.e, saved, target.at)
			}
			continue
		}
		if brain, ok := ecs.Get(w, e, component.EnemyBrainComponent.Kind()); ok && brain.Controller != nil {
			brain.Controller.ResumeFrom(prev)
		}
		Destroy(w, target.e)
		rebuilt++
	}
	return rebuilt, firstErr
}

func restoreBody(w *ecs.World, e ecs.Entity, saved *component.Body, at Placement) {
	services, err := Services(w)
	if err != nil {
		return
	}
	a := saved.Actor
	actor := services.Scene.AddActor(at.Position, a.Radius, a.Height, a.Collider().Layer)
	actor.Collider().Owner = e
	_ = ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Actor: actor})
}
