package component

import (
	"github.com/milk9111/sentry/controller"
	"github.com/milk9111/sentry/logger"
	"github.com/milk9111/sentry/nav"
	"github.com/milk9111/sentry/physics"
)

// WorldServices is a singleton holding what systems and builders share: the
// collision scene, the nav grid, the timer queue, the logger and the seed
// enemy random streams derive from.
type WorldServices struct {
	Scene  *physics.Scene
	Grid   *nav.Grid
	Timers *controller.Timers
	Log    logger.Logger
	Seed   uint64
}

var WorldServicesComponent = NewComponent[WorldServices]()
