package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is an entity's place in the world. Angles are degrees: Yaw turns
// about +Y with 0 facing +Z, positive Pitch looks down.
type Transform struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
}

var TransformComponent = NewComponent[Transform]()
