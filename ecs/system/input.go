package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/component"
)

const (
	stickDeadzone = 0.2
	// mouseScale turns cursor pixels into look axis units.
	mouseScale = 0.1
	// stickLookScale is the look axis value of a fully deflected right stick.
	stickLookScale = 1.5
)

// InputSource produces one frame of input.
type InputSource interface {
	Read() component.Input
}

// InputSourceFunc adapts a function to InputSource.
type InputSourceFunc func() component.Input

func (f InputSourceFunc) Read() component.Input {
	return f()
}

type InputSystem struct {
	Source InputSource
}

// NewInputSystem reads from src, or from the keyboard, mouse and first
// gamepad when src is nil.
func NewInputSystem(src InputSource) *InputSystem {
	if src == nil {
		src = &EbitenInput{}
	}
	return &InputSystem{Source: src}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil || i.Source == nil {
		return
	}

	in := i.Source.Read()
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.Input) {
		*input = in
	})
}

// EbitenInput reads WASD or arrows for movement, space for jump and the
// cursor delta for looking. The cursor only counts while it is captured.
type EbitenInput struct {
	lastX, lastY int
	primed       bool
}

func (s *EbitenInput) Read() component.Input {
	var in component.Input

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.Strafe -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.Strafe += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.Forward += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.Forward -= 1
	}
	in.Jump = ebiten.IsKeyPressed(ebiten.KeySpace)
	in.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace)

	x, y := ebiten.CursorPosition()
	if ebiten.CursorMode() == ebiten.CursorModeCaptured && s.primed {
		in.MouseX = float64(x-s.lastX) * mouseScale
		// Screen y grows downward; moving the mouse up looks up.
		in.MouseY = float64(s.lastY-y) * mouseScale
	}
	s.lastX, s.lastY = x, y
	s.primed = true

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			in.Strafe = lx
			in.Forward = -ly
		}
		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			in.MouseX += rx * stickLookScale
			in.MouseY -= ry * stickLookScale
		}
		in.Jump = in.Jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
	}

	in.Strafe = clampAxis(in.Strafe)
	in.Forward = clampAxis(in.Forward)
	return in
}

func clampAxis(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
