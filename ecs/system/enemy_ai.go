package system

import (
	"github.com/milk9111/sentry/controller"
	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/component"
	"github.com/milk9111/sentry/ecs/entity"
	"github.com/milk9111/sentry/logger"
	"github.com/milk9111/sentry/physics"
)

// EnemyAISystem runs every enemy brain once per frame and carries out its
// commands: nav destinations, facing and projectile spawns.
type EnemyAISystem struct {
	missingPlayer bool
}

func NewEnemyAISystem() *EnemyAISystem {
	return &EnemyAISystem{}
}

func (s *EnemyAISystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	services, err := entity.Services(w)
	if err != nil {
		return
	}
	sensors := physics.Sensors{Scene: services.Scene}

	frame := controller.EnemyFrame{Now: w.Now(), Sensors: sensors}
	if player, ok := entity.Player(w); ok {
		if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
			frame.Player = t.Position
			frame.PlayerFound = true
		}
	}
	if !frame.PlayerFound {
		if !s.missingPlayer {
			services.Log.Error("enemy ai: no player in the world; chase and attack will hold position")
		}
		s.missingPlayer = true
	} else {
		s.missingPlayer = false
	}

	type shot struct {
		shooter ecs.Entity
		prefab  string
		spawn   controller.ProjectileSpawn
	}
	var shots []shot

	entities := w.Query(
		component.EnemyBrainComponent.Kind(),
		component.TransformComponent.Kind(),
	)
	for _, e := range entities {
		brain, _ := ecs.Get(w, e, component.EnemyBrainComponent.Kind())
		transform, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		if brain.Controller == nil {
			continue
		}
		agent, hasAgent := ecs.Get(w, e, component.NavAgentComponent.Kind())

		// A walk point the grid cannot reach is given up so patrol picks
		// another one.
		if hasAgent && agent.Agent != nil && agent.Agent.Stuck() && brain.Controller.State.Behaviour == controller.Patrol {
			brain.Controller.State.HasWalkTarget = false
			agent.Agent.Stop()
		}

		f := frame
		f.Position = transform.Position
		f.Yaw = transform.Yaw
		f.Pitch = transform.Pitch
		cmd := brain.Controller.Step(f)

		if cmd.Changed {
			pushEvent(w, ecs.EventBehaviourChanged, e, BehaviourChange{From: cmd.Previous, To: cmd.Behaviour})
			services.Log.Info("enemy behaviour changed",
				logger.F("entity", e),
				logger.F("from", cmd.Previous.String()),
				logger.F("to", cmd.Behaviour.String()),
				logger.F("frame", w.Frame()),
			)
		}
		if cmd.HasDestination && hasAgent && agent.Agent != nil {
			agent.Agent.SetDestination(cmd.Destination)
		}
		if cmd.Face {
			transform.Yaw = cmd.Yaw
			transform.Pitch = cmd.Pitch
		} else {
			transform.Pitch = 0
		}
		if cmd.Projectile != nil {
			shots = append(shots, shot{shooter: e, prefab: brain.Projectile, spawn: *cmd.Projectile})
		}
	}

	// Spawning adds to the stores the query above walked.
	for _, sh := range shots {
		p, err := entity.BuildProjectile(w, sh.prefab, sh.spawn, sh.shooter)
		if err != nil {
			services.Log.Error("enemy ai: spawn projectile", logger.F("entity", sh.shooter), logger.F("error", err))
			continue
		}
		pushEvent(w, ecs.EventProjectileFired, sh.shooter, ProjectileFired{
			Projectile: p,
			Position:   sh.spawn.Position,
			Impulse:    sh.spawn.Impulse,
		})
		services.Log.Debug("enemy fired",
			logger.F("entity", sh.shooter),
			logger.F("projectile", p),
			logger.F("frame", w.Frame()),
		)
	}
}
