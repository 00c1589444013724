package controller

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const defaultPitchLimit = 90.0

type PlayerConfig struct {
	Speed            float64
	Gravity          float64
	JumpHeight       float64
	MouseSensitivity float64

	// GroundDistance is the radius of the ground probe sphere.
	GroundDistance float64
	// GroundCheckOffset places the probe relative to the body position.
	GroundCheckOffset mgl64.Vec3
	// StickVelocity replaces a negative vertical velocity while grounded.
	StickVelocity float64
	GroundMask    uint32
	// PitchLimit bounds the camera pitch in both directions. Values outside
	// (0, 90] fall back to 90.
	PitchLimit float64
}

func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		Speed:             12,
		Gravity:           -9.81,
		JumpHeight:        3,
		MouseSensitivity:  100,
		GroundDistance:    0.4,
		GroundCheckOffset: mgl64.Vec3{0, -1, 0},
		StickVelocity:     -2,
		PitchLimit:        defaultPitchLimit,
	}
}

// PlayerInput holds one frame of input. Axes are expected in [-1, 1].
type PlayerInput struct {
	Strafe      float64
	Forward     float64
	MouseX      float64
	MouseY      float64
	JumpPressed bool
}

type PlayerState struct {
	VerticalVelocity float64
	CameraPitch      float64
	Grounded         bool
}

// CharacterBody is the collider the player moves. Move resolves collisions.
type CharacterBody interface {
	Position() mgl64.Vec3
	Move(delta mgl64.Vec3)
}

type PlayerFrame struct {
	Dt      float64
	Input   PlayerInput
	Yaw     float64
	Body    CharacterBody
	Sensors Sensors
}

type PlayerResult struct {
	Yaw         float64
	CameraPitch float64
	Jumped      bool
}

type PlayerController struct {
	Config PlayerConfig
	State  PlayerState
}

func NewPlayerController(cfg PlayerConfig) *PlayerController {
	cfg.PitchLimit = pitchLimit(cfg.PitchLimit)
	return &PlayerController{Config: cfg}
}

func pitchLimit(limit float64) float64 {
	if limit <= 0 || limit > defaultPitchLimit {
		return defaultPitchLimit
	}
	return limit
}

// JumpVelocity is the launch speed that peaks at height under gravity.
func JumpVelocity(height, gravity float64) float64 {
	return math.Sqrt(height * -2 * gravity)
}

// Step runs one frame: ground probe, stick to ground, planar move, jump,
// gravity and the vertical move, then mouse-look. Body yaw and camera pitch
// are independent: the body only yaws and the camera only pitches.
func (c *PlayerController) Step(f PlayerFrame) PlayerResult {
	cfg := c.Config
	s := &c.State
	res := PlayerResult{Yaw: f.Yaw}

	if f.Body != nil && f.Sensors != nil {
		probe := f.Body.Position().Add(cfg.GroundCheckOffset)
		s.Grounded = f.Sensors.CheckSphere(probe, cfg.GroundDistance, cfg.GroundMask)
	} else {
		s.Grounded = false
	}

	if s.Grounded && s.VerticalVelocity < 0 {
		s.VerticalVelocity = cfg.StickVelocity
	}

	strafe := mgl64.Clamp(f.Input.Strafe, -1, 1)
	forward := mgl64.Clamp(f.Input.Forward, -1, 1)
	direction := Right(f.Yaw).Mul(strafe).Add(Forward(f.Yaw, 0).Mul(forward))
	if f.Body != nil {
		f.Body.Move(direction.Mul(cfg.Speed * f.Dt))
	}

	if f.Input.JumpPressed && s.Grounded {
		s.VerticalVelocity = JumpVelocity(cfg.JumpHeight, cfg.Gravity)
		res.Jumped = true
	}

	s.VerticalVelocity += cfg.Gravity * f.Dt
	if f.Body != nil {
		f.Body.Move(mgl64.Vec3{0, s.VerticalVelocity * f.Dt, 0})
	}

	mouseX := f.Input.MouseX * cfg.MouseSensitivity * f.Dt
	mouseY := f.Input.MouseY * cfg.MouseSensitivity * f.Dt
	res.Yaw = wrapDegrees(f.Yaw + mouseX)
	limit := pitchLimit(cfg.PitchLimit)
	s.CameraPitch = mgl64.Clamp(s.CameraPitch-mouseY, -limit, limit)
	res.CameraPitch = s.CameraPitch
	return res
}
