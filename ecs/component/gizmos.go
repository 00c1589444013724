package component

import "image/color"

// Gizmos overrides the debug wire-sphere colors of an enemy.
type Gizmos struct {
	AttackColor color.Color
	SightColor  color.Color
}

var GizmosComponent = NewComponent[Gizmos]()
