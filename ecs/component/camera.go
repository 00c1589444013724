package component

// Camera is the first-person view attached to the player. Pitch lives here
// and never on the body.
type Camera struct {
	Pitch     float64
	EyeHeight float64
}

var CameraComponent = NewComponent[Camera]()
