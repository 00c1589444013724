package system

import "github.com/milk9111/sentry/ecs"

// NewPipeline returns the simulation systems in frame order. Drawing is left
// to the caller.
func NewPipeline(src InputSource) *ecs.Scheduler {
	return ecs.NewScheduler(
		NewTimerSystem(),
		NewInputSystem(src),
		NewPlayerControllerSystem(),
		NewEnemyAISystem(),
		NewNavAgentSystem(),
		NewProjectileSystem(),
		NewTTLSystem(),
	)
}
