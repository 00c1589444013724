package component

import "github.com/milk9111/sentry/controller"

type PlayerMotor struct {
	Controller *controller.PlayerController
}

var PlayerMotorComponent = NewComponent[PlayerMotor]()
