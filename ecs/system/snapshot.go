package system

import (
	"gopkg.in/yaml.v3"

	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/component"
	"github.com/milk9111/sentry/ecs/entity"
)

// Snapshot is a readable dump of the simulation state.
type Snapshot struct {
	Level       string          `yaml:"level,omitempty"`
	Frame       uint64          `yaml:"frame"`
	Time        float64         `yaml:"time"`
	Player      *PlayerSnapshot `yaml:"player,omitempty"`
	Enemies     []EnemySnapshot `yaml:"enemies"`
	Projectiles int             `yaml:"projectiles"`
}

type PlayerSnapshot struct {
	Position  [3]float64 `yaml:"position,flow"`
	Yaw       float64    `yaml:"yaw"`
	Pitch     float64    `yaml:"pitch"`
	Grounded  bool       `yaml:"grounded"`
	VelocityY float64    `yaml:"velocity_y"`
}

type EnemySnapshot struct {
	Entity        string      `yaml:"entity"`
	Prefab        string      `yaml:"prefab"`
	Position      [3]float64  `yaml:"position,flow"`
	Yaw           float64     `yaml:"yaw"`
	Behaviour     string      `yaml:"behaviour"`
	PlayerVisible bool        `yaml:"player_visible"`
	InAttackRange bool        `yaml:"in_attack_range"`
	OnCooldown    bool        `yaml:"on_cooldown"`
	Attacks       int         `yaml:"attacks"`
	WalkTarget    *[3]float64 `yaml:"walk_target,omitempty,flow"`
}

func TakeSnapshot(w *ecs.World) Snapshot {
	s := Snapshot{Frame: w.Frame(), Time: w.Now(), Enemies: []EnemySnapshot{}}
	if e, ok := ecs.First(w, component.LevelBoundsComponent.Kind()); ok {
		if b, ok := ecs.Get(w, e, component.LevelBoundsComponent.Kind()); ok {
			s.Level = b.Name
		}
	}

	if p, ok := entity.Player(w); ok {
		if t, ok := ecs.Get(w, p, component.TransformComponent.Kind()); ok {
			ps := &PlayerSnapshot{Position: t.Position, Yaw: t.Yaw}
			if cam, ok := ecs.Get(w, p, component.CameraComponent.Kind()); ok {
				ps.Pitch = cam.Pitch
			}
			if m, ok := ecs.Get(w, p, component.PlayerMotorComponent.Kind()); ok && m.Controller != nil {
				ps.Grounded = m.Controller.State.Grounded
				ps.VelocityY = m.Controller.State.VerticalVelocity
			}
			s.Player = ps
		}
	}

	ecs.ForEach2(w, component.EnemyBrainComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, brain *component.EnemyBrain, t *component.Transform) {
		es := EnemySnapshot{Entity: e.String(), Prefab: brain.Prefab, Position: t.Position, Yaw: t.Yaw}
		if c := brain.Controller; c != nil {
			es.Behaviour = c.State.Behaviour.String()
			es.PlayerVisible = c.State.PlayerVisible
			es.InAttackRange = c.State.PlayerInAttackRange
			es.OnCooldown = c.State.AttackOnCooldown
			es.Attacks = c.State.Attacks
			if c.State.HasWalkTarget {
				wt := [3]float64(c.State.WalkTarget)
				es.WalkTarget = &wt
			}
		}
		s.Enemies = append(s.Enemies, es)
	})

	ecs.ForEach(w, component.ProjectileTagComponent.Kind(), func(ecs.Entity, *component.ProjectileTag) {
		s.Projectiles++
	})
	return s
}

func (s Snapshot) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
