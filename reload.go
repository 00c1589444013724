package main

import (
	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/component"
	"github.com/milk9111/sentry/ecs/entity"
	"github.com/milk9111/sentry/logger"
	"github.com/milk9111/sentry/prefabs"
)

// applyReloads handles restart requests and file edits reported since the
// last frame. Edited enemy prefabs and scripts rebuild the enemies in place;
// level and player edits restart the level. A failed reload keeps the
// running world.
func (g *Game) applyReloads() {
	restart := false
	for _, e := range g.world.Query(component.ReloadRequestComponent.Kind()) {
		ecs.DestroyEntity(g.world, e)
		restart = true
	}

	if g.watcher != nil {
		for _, path := range g.watcher.Drain() {
			switch {
			case prefabs.IsLevelFile(path):
				restart = true
			case prefabs.IsScriptFile(path):
				g.refreshEnemies("", path)
			case prefabs.IsSpecFile(path):
				name := prefabs.Name(path)
				switch name {
				case entity.DefaultPlayerPrefab:
					restart = true
				case entity.DefaultProjectilePrefab:
					// Read again on every spawn.
					g.log.Info("projectile prefab changed", logger.F("path", path))
				default:
					g.refreshEnemies(name, path)
				}
			}
		}
		select {
		case err := <-g.watcher.Errors:
			g.log.Warn("hot reload watcher", logger.F("error", err))
		default:
		}
	}

	if !restart {
		return
	}
	if err := g.loadLevel(); err != nil {
		g.log.Error("reload level", logger.F("level", g.levelName), logger.F("error", err))
		g.status("reload failed: " + err.Error())
		return
	}
	g.log.Info("level reloaded", logger.F("level", g.levelName))
	g.status("level reloaded")
}

func (g *Game) refreshEnemies(prefab, path string) {
	n, err := entity.RefreshEnemies(g.world, prefab)
	if err != nil {
		g.log.Error("hot reload enemies", logger.F("path", path), logger.F("error", err))
		g.status("enemy reload failed")
		return
	}
	if n > 0 {
		g.log.Info("enemies rebuilt", logger.F("path", path), logger.F("count", n))
		g.status("enemies rebuilt")
	}
}
