package component

import "github.com/go-gl/mathgl/mgl64"

// LevelBounds stores the world-space box of the current level.
type LevelBounds struct {
	Name string
	Min  mgl64.Vec3
	Max  mgl64.Vec3
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
