package component

import "github.com/milk9111/sentry/nav"

// NavAgent moves an enemy body along grid paths. VerticalVelocity keeps it
// falling onto floors and steps.
type NavAgent struct {
	Agent            *nav.Agent
	VerticalVelocity float64
}

var NavAgentComponent = NewComponent[NavAgent]()
