package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sentry/controller"
	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/component"
	"github.com/milk9111/sentry/ecs/entity"
)

// stopDistance keeps the pilot just inside the default attack radius.
const stopDistance = 1.5

// pilot is scripted player input: turn toward the nearest enemy and walk up
// to it. Disabled, it stands still.
type pilot struct {
	world   *ecs.World
	enabled bool
	dt      float64
}

func (p *pilot) Read() component.Input {
	var in component.Input
	if !p.enabled {
		return in
	}
	player, ok := entity.Player(p.world)
	if !ok {
		return in
	}
	t, _ := ecs.Get(p.world, player, component.TransformComponent.Kind())
	motor, _ := ecs.Get(p.world, player, component.PlayerMotorComponent.Kind())
	if t == nil || motor == nil || motor.Controller == nil {
		return in
	}

	target, found := nearestEnemy(p.world, t.Position)
	if !found {
		return in
	}
	yaw, _, ok := controller.LookAt(t.Position, target)
	if !ok {
		return in
	}

	// One frame of mouse X turns by MouseX * sensitivity * dt degrees.
	turn := wrap(yaw - t.Yaw)
	if scale := motor.Controller.Config.MouseSensitivity * p.dt; scale > 0 {
		in.MouseX = turn / scale
	}
	if controller.PlanarDistance(t.Position, target) > stopDistance && math.Abs(turn) < 45 {
		in.Forward = 1
	}
	return in
}

func nearestEnemy(w *ecs.World, from mgl64.Vec3) (mgl64.Vec3, bool) {
	best := math.Inf(1)
	var pos mgl64.Vec3
	found := false
	ecs.ForEach2(w, component.EnemyTagComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.EnemyTag, t *component.Transform) {
		if d := controller.PlanarDistance(from, t.Position); d < best {
			best = d
			pos = t.Position
			found = true
		}
	})
	return pos, found
}

func wrap(deg float64) float64 {
	deg = math.Mod(deg+180, 360)
	if deg < 0 {
		deg += 360
	}
	return deg - 180
}
