package component

// Input stores per-frame input state for an entity. Axes are in [-1, 1],
// mouse deltas are raw device units.
type Input struct {
	Strafe      float64
	Forward     float64
	MouseX      float64
	MouseY      float64
	Jump        bool
	JumpPressed bool
}

var InputComponent = NewComponent[Input]()
