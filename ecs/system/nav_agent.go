package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/component"
	"github.com/milk9111/sentry/ecs/entity"
)

const (
	agentStickVelocity = -2.0
	groundedProbe      = 0.05
	facingEpsilon      = 1e-6
)

// NavAgentSystem moves agent bodies toward their destinations, keeps them on
// the floor and turns them to face where they walk.
type NavAgentSystem struct{}

func NewNavAgentSystem() *NavAgentSystem {
	return &NavAgentSystem{}
}

func (s *NavAgentSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	services, err := entity.Services(w)
	if err != nil {
		return
	}
	dt := w.Delta()
	if dt <= 0 {
		return
	}

	ecs.ForEach3(w,
		component.NavAgentComponent.Kind(),
		component.BodyComponent.Kind(),
		component.TransformComponent.Kind(),
		func(e ecs.Entity, agent *component.NavAgent, body *component.Body, transform *component.Transform) {
			if agent.Agent == nil || body.Actor == nil {
				return
			}
			actor := body.Actor
			from := actor.Position()
			to := agent.Agent.Advance(from, dt)

			feet := mgl64.Vec3{from.X(), actor.Feet() + groundedProbe, from.Z()}
			if _, grounded := services.Scene.CastDown(feet, groundedProbe*2, uint32(actor.FloorMask)); grounded && agent.VerticalVelocity < 0 {
				agent.VerticalVelocity = agentStickVelocity
			}
			agent.VerticalVelocity += services.Scene.Gravity * dt

			delta := to.Sub(from)
			delta[1] = agent.VerticalVelocity * dt
			actor.Move(delta)
			transform.Position = actor.Position()

			if math.Hypot(delta.X(), delta.Z()) > facingEpsilon {
				transform.Yaw = mgl64.RadToDeg(math.Atan2(delta.X(), delta.Z()))
			}
		})
}
