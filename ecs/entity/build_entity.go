package entity

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sentry/controller"
	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/component"
	"github.com/milk9111/sentry/logger"
	"github.com/milk9111/sentry/nav"
	"github.com/milk9111/sentry/physics"
	"github.com/milk9111/sentry/prefabs"
)

var ErrNoServices = errors.New("entity: world has no services")

// Placement overrides a prefab's transform.
type Placement struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
}

type buildContext struct {
	PrefabPath string
	Placement  *Placement
	Services   *component.WorldServices
}

type componentBuilder func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuilder{
	"player_tag":   addPlayerTag,
	"enemy_tag":    addEnemyTag,
	"input":        addInput,
	"transform":    addTransform,
	"body":         addBody,
	"camera":       addCamera,
	"player_motor": addPlayerMotor,
	"nav_agent":    addNavAgent,
	"enemy_brain":  addEnemyBrain,
	"gizmos":       addGizmos,
	"projectile":   addProjectile,
	"ttl":          addTTL,
}

// Transform goes first: body and projectile are placed from it.
var componentBuildOrder = []string{
	"player_tag",
	"enemy_tag",
	"input",
	"transform",
	"body",
	"camera",
	"player_motor",
	"nav_agent",
	"enemy_brain",
	"gizmos",
	"projectile",
	"ttl",
}

// Services returns the world's shared services singleton.
func Services(w *ecs.World) (*component.WorldServices, error) {
	e, ok := ecs.First(w, component.WorldServicesComponent.Kind())
	if !ok {
		return nil, ErrNoServices
	}
	s, ok := ecs.Get(w, e, component.WorldServicesComponent.Kind())
	if !ok || s.Scene == nil {
		return nil, ErrNoServices
	}
	if s.Log == nil {
		s.Log = logger.NewNop()
	}
	if s.Timers == nil {
		s.Timers = controller.NewTimers()
	}
	return s, nil
}

// BuildEntity creates an entity from a prefab. A non-nil placement replaces
// the prefab's transform.
func BuildEntity(w *ecs.World, prefabPath string, at *Placement) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	services, err := Services(w)
	if err != nil {
		return 0, fmt.Errorf("build entity: %q: %w", prefabPath, err)
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}
	if at != nil {
		if _, ok := spec.Components["transform"]; !ok {
			spec.Components["transform"] = map[string]any{}
		}
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath, Placement: at, Services: services}

	names := make([]string, 0, len(spec.Components))
	for _, name := range componentBuildOrder {
		if _, ok := spec.Components[name]; ok {
			names = append(names, name)
		}
	}
	var unknown []string
	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, unknown[0])
	}

	for _, name := range names {
		if err := componentRegistry[name](w, e, spec.Components[name], ctx); err != nil {
			Destroy(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	services.Log.Debug("entity built", logger.F("prefab", prefabPath), logger.F("entity", e))
	return e, nil
}

// Destroy removes an entity together with anything it owns in the scene.
func Destroy(w *ecs.World, e ecs.Entity) bool {
	if !ecs.IsAlive(w, e) {
		return false
	}
	if services, err := Services(w); err == nil {
		if b, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok && b.Actor != nil {
			services.Scene.RemoveActor(b.Actor)
		}
		if p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind()); ok && p.Ball != nil {
			services.Scene.RemoveProjectile(p.Ball)
		}
	}
	return ecs.DestroyEntity(w, e)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addEnemyTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return err
	}
	t := &component.Transform{Position: spec.Position.Vec3(), Yaw: spec.Yaw, Pitch: spec.Pitch}
	if ctx.Placement != nil {
		t.Position = ctx.Placement.Position
		t.Yaw = ctx.Placement.Yaw
		t.Pitch = ctx.Placement.Pitch
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addBody(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.BodyComponentSpec](raw)
	if err != nil {
		return err
	}
	layer, err := physics.ParseLayers(spec.Layers)
	if err != nil {
		return err
	}
	if spec.Radius <= 0 || spec.Height <= 0 {
		return fmt.Errorf("body needs a positive radius and height")
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return fmt.Errorf("body needs a transform")
	}
	actor := ctx.Services.Scene.AddActor(t.Position, spec.Radius, spec.Height, layer)
	actor.Collider().Owner = e
	return ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Actor: actor})
}

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CameraComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{EyeHeight: spec.EyeHeight})
}

func addPlayerMotor(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PlayerMotorComponentSpec](raw)
	if err != nil {
		return err
	}
	cfg, err := PlayerConfig(spec)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.PlayerMotorComponent.Kind(), &component.PlayerMotor{
		Controller: controller.NewPlayerController(cfg),
	})
}

// PlayerConfig fills a controller config from a prefab; zero fields keep the
// defaults.
func PlayerConfig(spec prefabs.PlayerMotorComponentSpec) (controller.PlayerConfig, error) {
	cfg := controller.DefaultPlayerConfig()
	setIfPositive(&cfg.Speed, spec.Speed)
	setIfNonZero(&cfg.Gravity, spec.Gravity)
	setIfPositive(&cfg.JumpHeight, spec.JumpHeight)
	setIfPositive(&cfg.MouseSensitivity, spec.MouseSensitivity)
	setIfPositive(&cfg.GroundDistance, spec.GroundDistance)
	setIfNonZero(&cfg.StickVelocity, spec.StickVelocity)
	setIfPositive(&cfg.PitchLimit, spec.PitchLimit)
	if spec.GroundCheckOffset != nil {
		cfg.GroundCheckOffset = spec.GroundCheckOffset.Vec3()
	}

	layers := spec.GroundLayers
	if len(layers) == 0 {
		layers = []string{"ground"}
	}
	mask, err := physics.ParseLayers(layers)
	if err != nil {
		return cfg, err
	}
	cfg.GroundMask = uint32(mask)
	return cfg, nil
}

func addNavAgent(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.NavAgentComponentSpec](raw)
	if err != nil {
		return err
	}
	if ctx.Services.Grid == nil {
		return fmt.Errorf("nav agent needs a nav grid")
	}
	return ecs.Add(w, e, component.NavAgentComponent.Kind(), &component.NavAgent{
		Agent: nav.NewAgent(ctx.Services.Grid, spec.Speed, spec.StoppingDistance),
	})
}

func addEnemyBrain(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.EnemyBrainComponentSpec](raw)
	if err != nil {
		return err
	}
	cfg, err := EnemyConfig(spec)
	if err != nil {
		return err
	}
	log := ctx.Services.Log.With(logger.F("entity", e))
	sel, err := BuildSelector(spec.Selector, spec.MinDwell, spec.Script, log)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(ctx.Services.Seed, uint64(e)))

	projectile := spec.Projectile
	if projectile == "" {
		projectile = "projectile.yaml"
	}
	return ecs.Add(w, e, component.EnemyBrainComponent.Kind(), &component.EnemyBrain{
		Controller: controller.NewEnemyController(cfg, sel, ctx.Services.Timers, rng),
		Prefab:     ctx.PrefabPath,
		Selector:   spec.Selector,
		Projectile: projectile,
	})
}

// EnemyConfig fills a controller config from a prefab; zero fields keep the
// defaults.
func EnemyConfig(spec prefabs.EnemyBrainComponentSpec) (controller.EnemyConfig, error) {
	cfg := controller.DefaultEnemyConfig()
	setIfPositive(&cfg.SightRadius, spec.SightRange)
	setIfPositive(&cfg.AttackRadius, spec.AttackRange)
	setIfPositive(&cfg.WalkpointRange, spec.WalkpointRange)
	setIfPositive(&cfg.TimeBetweenAttacks, spec.TimeBetweenAttacks)
	setIfNonZero(&cfg.ForwardImpulse, spec.ForwardImpulse)
	setIfNonZero(&cfg.UpwardImpulse, spec.UpwardImpulse)
	setIfPositive(&cfg.GroundProbe, spec.GroundProbe)
	setIfPositive(&cfg.ArriveDistance, spec.ArriveDistance)

	playerLayers := spec.PlayerLayers
	if len(playerLayers) == 0 {
		playerLayers = []string{"player"}
	}
	playerMask, err := physics.ParseLayers(playerLayers)
	if err != nil {
		return cfg, err
	}
	groundLayers := spec.GroundLayers
	if len(groundLayers) == 0 {
		groundLayers = []string{"ground"}
	}
	groundMask, err := physics.ParseLayers(groundLayers)
	if err != nil {
		return cfg, err
	}
	cfg.PlayerMask = uint32(playerMask)
	cfg.GroundMask = uint32(groundMask)
	return cfg, nil
}

func addGizmos(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.GizmosComponentSpec](raw)
	if err != nil {
		return err
	}
	g := &component.Gizmos{AttackColor: controller.AttackGizmoColor, SightColor: controller.SightGizmoColor}
	if spec.AttackColor != nil && spec.AttackColor.Color != nil {
		g.AttackColor = spec.AttackColor.Color
	}
	if spec.SightColor != nil && spec.SightColor.Color != nil {
		g.SightColor = spec.SightColor.Color
	}
	return ecs.Add(w, e, component.GizmosComponent.Kind(), g)
}

func addProjectile(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ProjectileComponentSpec](raw)
	if err != nil {
		return err
	}
	layers := spec.Layers
	if len(layers) == 0 {
		layers = []string{"projectile"}
	}
	layer, err := physics.ParseLayers(layers)
	if err != nil {
		return err
	}
	hitMask, err := physics.ParseLayers(spec.HitLayers)
	if err != nil {
		return err
	}
	if spec.Radius <= 0 {
		return fmt.Errorf("projectile needs a positive radius")
	}

	pos := mgl64.Vec3{}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		pos = t.Position
	}
	ball := ctx.Services.Scene.AddProjectile(pos, spec.Radius, spec.Mass, layer)
	ball.HitMask = hitMask
	ball.Collider().Owner = e

	if err := ecs.Add(w, e, component.ProjectileTagComponent.Kind(), &component.ProjectileTag{}); err != nil {
		ctx.Services.Scene.RemoveProjectile(ball)
		return err
	}
	return ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{Ball: ball})
}

func addTTL(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TTLComponentSpec](raw)
	if err != nil {
		return err
	}
	if spec.Seconds <= 0 {
		return fmt.Errorf("ttl needs positive seconds")
	}
	return ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Seconds: spec.Seconds})
}

func setIfPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func setIfNonZero(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}
