package component

import "github.com/milk9111/sentry/controller"

// EnemyBrain runs the patrol/chase/attack controller for an enemy.
type EnemyBrain struct {
	Controller *controller.EnemyController
	// Prefab names the prefab file the brain was built from, for hot reload.
	Prefab string
	// Selector is the configured selection policy name.
	Selector string
	// Projectile names the prefab spawned on attack.
	Projectile string
}

var EnemyBrainComponent = NewComponent[EnemyBrain]()
