package entity

import (
	"fmt"

	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/component"
)

const DefaultPlayerPrefab = "player.yaml"

// BuildPlayer builds the player prefab at a spawn point. The camera starts
// level regardless of the spawn pitch.
func BuildPlayer(w *ecs.World, prefab string, at Placement) (ecs.Entity, error) {
	if prefab == "" {
		prefab = DefaultPlayerPrefab
	}
	e, err := BuildEntity(w, prefab, &at)
	if err != nil {
		return 0, fmt.Errorf("player: %w", err)
	}
	if !ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
		Destroy(w, e)
		return 0, fmt.Errorf("player: prefab %q has no player_tag", prefab)
	}
	return e, nil
}

// Player returns the player entity, if one exists.
func Player(w *ecs.World) (ecs.Entity, bool) {
	return ecs.First(w, component.PlayerTagComponent.Kind())
}
