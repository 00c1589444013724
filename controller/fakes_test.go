package controller

import "github.com/go-gl/mathgl/mgl64"

const (
	testGroundMask uint32 = 1 << 0
	testPlayerMask uint32 = 1 << 1
)

// fakeSensors places the player as a point and the ground as a flat floor at
// groundTop wherever groundAt says there is one.
type fakeSensors struct {
	player    mgl64.Vec3
	hasPlayer bool
	groundAt  func(p mgl64.Vec3) bool
	groundTop float64
	casts     []mgl64.Vec3
	castDists []float64
}

func (f *fakeSensors) CheckSphere(center mgl64.Vec3, radius float64, mask uint32) bool {
	if mask&testPlayerMask != 0 && f.hasPlayer && center.Sub(f.player).Len() <= radius {
		return true
	}
	if mask&testGroundMask != 0 && center.Y()-radius <= f.groundTop {
		return true
	}
	return false
}

func (f *fakeSensors) CastDown(origin mgl64.Vec3, maxDist float64, mask uint32) bool {
	f.casts = append(f.casts, origin)
	f.castDists = append(f.castDists, maxDist)
	if mask&testGroundMask == 0 || f.groundAt == nil || !f.groundAt(origin) {
		return false
	}
	drop := origin.Y() - f.groundTop
	return drop >= 0 && drop <= maxDist
}

type fakeBody struct {
	pos   mgl64.Vec3
	moves []mgl64.Vec3
}

func (b *fakeBody) Position() mgl64.Vec3 { return b.pos }

func (b *fakeBody) Move(delta mgl64.Vec3) {
	b.moves = append(b.moves, delta)
	b.pos = b.pos.Add(delta)
}

func vecNear(a, b mgl64.Vec3, eps float64) bool {
	return a.ApproxEqualThreshold(b, eps)
}
