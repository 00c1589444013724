package controller

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestPlayer() (*PlayerController, *fakeBody, *fakeSensors) {
	cfg := DefaultPlayerConfig()
	cfg.GroundMask = testGroundMask
	body := &fakeBody{pos: mgl64.Vec3{0, 1, 0}}
	// Floor top at y=0: the probe at y=0 with radius 0.4 touches it.
	sensors := &fakeSensors{groundTop: 0}
	return NewPlayerController(cfg), body, sensors
}

func TestJumpVelocity(t *testing.T) {
	got := JumpVelocity(3, -9.81)
	if math.Abs(got-7.672) > 1e-3 {
		t.Fatalf("JumpVelocity(3, -9.81) = %v, want ~7.672", got)
	}
	if want := math.Sqrt(3 * 2 * 9.81); got != want {
		t.Fatalf("expected exact closed form %v, got %v", want, got)
	}
}

func TestPlayerJumpFromGround(t *testing.T) {
	const dt = 1.0 / 60
	p, body, sensors := newTestPlayer()

	res := p.Step(PlayerFrame{Dt: dt, Input: PlayerInput{JumpPressed: true}, Body: body, Sensors: sensors})
	if !res.Jumped || !p.State.Grounded {
		t.Fatalf("expected a grounded jump, got %+v state %+v", res, p.State)
	}
	want := JumpVelocity(3, -9.81) - 9.81*dt
	if math.Abs(p.State.VerticalVelocity-want) > 1e-9 {
		t.Fatalf("vertical velocity %v, want %v", p.State.VerticalVelocity, want)
	}
	if len(body.moves) != 2 {
		t.Fatalf("expected a planar move then a vertical move, got %d moves", len(body.moves))
	}
	if body.moves[1].Y() <= 0 || body.moves[1].X() != 0 || body.moves[1].Z() != 0 {
		t.Fatalf("second move should be purely upward, got %v", body.moves[1])
	}
}

func TestPlayerCannotJumpInAir(t *testing.T) {
	p, body, sensors := newTestPlayer()
	body.pos = mgl64.Vec3{0, 10, 0}

	res := p.Step(PlayerFrame{Dt: 0.1, Input: PlayerInput{JumpPressed: true}, Body: body, Sensors: sensors})
	if res.Jumped || p.State.Grounded {
		t.Fatalf("jumped while airborne")
	}
	if math.Abs(p.State.VerticalVelocity-(-0.981)) > 1e-9 {
		t.Fatalf("expected free fall velocity -0.981, got %v", p.State.VerticalVelocity)
	}
}

func TestPlayerGroundedStick(t *testing.T) {
	const dt = 0.1
	p, body, sensors := newTestPlayer()
	p.State.VerticalVelocity = -20

	p.Step(PlayerFrame{Dt: dt, Body: body, Sensors: sensors})
	want := -2 + -9.81*dt
	if math.Abs(p.State.VerticalVelocity-want) > 1e-9 {
		t.Fatalf("grounded velocity %v, want %v", p.State.VerticalVelocity, want)
	}

	// Rising velocity is left alone even when the probe touches ground.
	p.State.VerticalVelocity = 5
	p.Step(PlayerFrame{Dt: dt, Body: body, Sensors: sensors})
	if math.Abs(p.State.VerticalVelocity-(5-0.981)) > 1e-9 {
		t.Fatalf("rising velocity was clamped: %v", p.State.VerticalVelocity)
	}
}

func TestPlayerMovesInLocalBasis(t *testing.T) {
	tests := []struct {
		name  string
		yaw   float64
		input PlayerInput
		want  mgl64.Vec3
	}{
		{"forward_at_yaw0", 0, PlayerInput{Forward: 1}, mgl64.Vec3{0, 0, 1.2}},
		{"forward_at_yaw90", 90, PlayerInput{Forward: 1}, mgl64.Vec3{1.2, 0, 0}},
		{"strafe_at_yaw0", 0, PlayerInput{Strafe: 1}, mgl64.Vec3{1.2, 0, 0}},
		{"back_left_at_yaw0", 0, PlayerInput{Strafe: -1, Forward: -1}, mgl64.Vec3{-1.2, 0, -1.2}},
		{"axes_clamped", 0, PlayerInput{Forward: 5}, mgl64.Vec3{0, 0, 1.2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, body, sensors := newTestPlayer()
			p.Step(PlayerFrame{Dt: 0.1, Yaw: tc.yaw, Input: tc.input, Body: body, Sensors: sensors})
			if !vecNear(body.moves[0], tc.want, 1e-9) {
				t.Fatalf("planar move %v, want %v", body.moves[0], tc.want)
			}
		})
	}
}

func TestPlayerMouseLook(t *testing.T) {
	p, body, sensors := newTestPlayer()

	res := p.Step(PlayerFrame{Dt: 0.1, Yaw: 350, Input: PlayerInput{MouseX: 2, MouseY: 1}, Body: body, Sensors: sensors})
	if math.Abs(res.Yaw-10) > 1e-9 {
		t.Fatalf("yaw should wrap to 10, got %v", res.Yaw)
	}
	if res.CameraPitch != -10 || p.State.CameraPitch != -10 {
		t.Fatalf("mouse up should pitch the camera up to -10, got %v", res.CameraPitch)
	}
}

func TestPlayerPitchAlwaysClamped(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	p, body, sensors := newTestPlayer()
	for i := 0; i < 2000; i++ {
		in := PlayerInput{MouseY: (rng.Float64()*2 - 1) * 50}
		res := p.Step(PlayerFrame{Dt: 1.0 / 30, Input: in, Body: body, Sensors: sensors})
		if res.CameraPitch < -90 || res.CameraPitch > 90 {
			t.Fatalf("step %d: pitch %v escaped [-90, 90]", i, res.CameraPitch)
		}
	}

	p.State.CameraPitch = 0
	res := p.Step(PlayerFrame{Dt: 1, Input: PlayerInput{MouseY: -10}, Body: body, Sensors: sensors})
	if res.CameraPitch != 90 {
		t.Fatalf("large downward look should pin at 90, got %v", res.CameraPitch)
	}
}

func TestPlayerPitchLimitConfig(t *testing.T) {
	tests := []struct {
		name  string
		limit float64
		want  float64
	}{
		{name: "default", limit: 0, want: 90},
		{name: "narrower", limit: 60, want: 60},
		{name: "above 90", limit: 150, want: 90},
		{name: "negative", limit: -30, want: 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPlayerConfig()
			cfg.PitchLimit = tt.limit
			p := NewPlayerController(cfg)
			if p.Config.PitchLimit != tt.want {
				t.Fatalf("PitchLimit = %v, want %v", p.Config.PitchLimit, tt.want)
			}
			for i := 0; i < 100; i++ {
				p.Step(PlayerFrame{Dt: 0.1, Input: PlayerInput{MouseY: -10}})
			}
			if p.State.CameraPitch != tt.want {
				t.Fatalf("pitch = %v, want %v", p.State.CameraPitch, tt.want)
			}
			for i := 0; i < 200; i++ {
				p.Step(PlayerFrame{Dt: 0.1, Input: PlayerInput{MouseY: 10}})
			}
			if p.State.CameraPitch != -tt.want {
				t.Fatalf("pitch = %v, want %v", p.State.CameraPitch, -tt.want)
			}
		})
	}

	// A limit written straight into Config still never lets the camera past 90.
	p := NewPlayerController(DefaultPlayerConfig())
	p.Config.PitchLimit = 150
	for i := 0; i < 100; i++ {
		p.Step(PlayerFrame{Dt: 0.1, Input: PlayerInput{MouseY: -10}})
	}
	if p.State.CameraPitch != 90 {
		t.Fatalf("pitch = %v, want 90", p.State.CameraPitch)
	}
}
