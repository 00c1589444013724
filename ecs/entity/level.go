package entity

import (
	"fmt"

	"github.com/milk9111/sentry/controller"
	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/component"
	"github.com/milk9111/sentry/levels"
	"github.com/milk9111/sentry/logger"
	"github.com/milk9111/sentry/nav"
	"github.com/milk9111/sentry/physics"
)

const (
	navAgentRadius = 0.5
	navAgentHeight = 2.0
)

// LoadLevel builds a level into an empty world: the static scene, the nav
// grid baked from it, the shared services and then the player and enemies.
func LoadLevel(w *ecs.World, lvl *levels.Level, log logger.Logger, seed uint64) (*component.WorldServices, error) {
	if w == nil || lvl == nil {
		return nil, fmt.Errorf("load level: world and level are required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("load level %s: %w", lvl.Name, err)
	}

	scene := physics.NewScene()
	for i, box := range lvl.Boxes {
		layer, err := physics.ParseLayers(box.Layers)
		if err != nil {
			return nil, fmt.Errorf("load level %s: box %d: %w", lvl.Name, i, err)
		}
		c := scene.AddBox(box.Min.Vec3(), box.Max.Vec3(), layer)
		c.Owner = box.Name
	}

	grid := nav.NewGrid(scene, nav.GridConfig{
		Min:         lvl.Bounds.Min.Vec3(),
		Max:         lvl.Bounds.Max.Vec3(),
		CellSize:    lvl.CellSize,
		AgentRadius: navAgentRadius,
		AgentHeight: navAgentHeight,
		GroundMask:  uint32(physics.LayerGround),
		SolidMask:   uint32(physics.LayerSolid),
	})

	services := &component.WorldServices{
		Scene:  scene,
		Grid:   grid,
		Timers: controller.NewTimers(),
		Log:    log.With(logger.F("level", lvl.Name)),
		Seed:   seed,
	}
	servicesEntity := ecs.CreateEntity(w)
	if err := ecs.Add(w, servicesEntity, component.WorldServicesComponent.Kind(), services); err != nil {
		return nil, fmt.Errorf("load level %s: %w", lvl.Name, err)
	}

	boundsEntity := ecs.CreateEntity(w)
	if err := ecs.Add(w, boundsEntity, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Name: lvl.Name,
		Min:  lvl.Bounds.Min.Vec3(),
		Max:  lvl.Bounds.Max.Vec3(),
	}); err != nil {
		return nil, fmt.Errorf("load level %s: %w", lvl.Name, err)
	}

	if _, err := BuildPlayer(w, lvl.Player.Prefab, spawnPlacement(lvl.Player)); err != nil {
		return nil, fmt.Errorf("load level %s: %w", lvl.Name, err)
	}
	for i, spawn := range lvl.Enemies {
		if _, err := BuildEnemy(w, spawn.Prefab, spawnPlacement(spawn)); err != nil {
			return nil, fmt.Errorf("load level %s: enemy %d: %w", lvl.Name, i, err)
		}
	}

	width, height := grid.Size()
	services.Log.Info("level loaded",
		logger.F("boxes", len(lvl.Boxes)),
		logger.F("enemies", len(lvl.Enemies)),
		logger.F("grid", fmt.Sprintf("%dx%d", width, height)),
		logger.F("blocked", len(grid.Blocked())),
	)
	return services, nil
}

func spawnPlacement(s levels.Spawn) Placement {
	return Placement{Position: s.Position.Vec3(), Yaw: s.Yaw}
}
