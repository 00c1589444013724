package system

import (
	"github.com/milk9111/sentry/controller"
	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/component"
	"github.com/milk9111/sentry/ecs/entity"
	"github.com/milk9111/sentry/logger"
	"github.com/milk9111/sentry/physics"
)

// PlayerControllerSystem drives the first-person player: the body yaws and
// moves, the camera pitches.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	services, err := entity.Services(w)
	if err != nil {
		return
	}
	sensors := physics.Sensors{Scene: services.Scene}

	entities := w.Query(
		component.PlayerMotorComponent.Kind(),
		component.InputComponent.Kind(),
		component.TransformComponent.Kind(),
		component.BodyComponent.Kind(),
	)
	for _, e := range entities {
		motor, _ := ecs.Get(w, e, component.PlayerMotorComponent.Kind())
		input, _ := ecs.Get(w, e, component.InputComponent.Kind())
		transform, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		body, _ := ecs.Get(w, e, component.BodyComponent.Kind())
		if motor.Controller == nil || body.Actor == nil {
			continue
		}

		res := motor.Controller.Step(controller.PlayerFrame{
			Dt: w.Delta(),
			Input: controller.PlayerInput{
				Strafe:      input.Strafe,
				Forward:     input.Forward,
				MouseX:      input.MouseX,
				MouseY:      input.MouseY,
				JumpPressed: input.JumpPressed,
			},
			Yaw:     transform.Yaw,
			Body:    body.Actor,
			Sensors: sensors,
		})

		transform.Position = body.Actor.Position()
		transform.Yaw = res.Yaw
		transform.Pitch = 0
		if cam, ok := ecs.Get(w, e, component.CameraComponent.Kind()); ok {
			cam.Pitch = res.CameraPitch
		}
		if res.Jumped {
			pushEvent(w, ecs.EventPlayerJumped, e, PlayerJumped{Position: transform.Position})
			services.Log.Debug("player jumped", logger.F("entity", e), logger.F("frame", w.Frame()))
		}
	}
}
