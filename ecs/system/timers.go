package system

import (
	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/entity"
)

// TimerSystem fires the world's delayed callbacks that have come due.
type TimerSystem struct{}

func NewTimerSystem() *TimerSystem {
	return &TimerSystem{}
}

func (s *TimerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	services, err := entity.Services(w)
	if err != nil {
		return
	}
	services.Timers.Advance(w.Delta())
}
