package controller

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var worldUp = mgl64.Vec3{0, 1, 0}

// Forward is the unit facing vector for the given yaw and pitch.
func Forward(yaw, pitch float64) mgl64.Vec3 {
	y := mgl64.DegToRad(yaw)
	p := mgl64.DegToRad(pitch)
	return mgl64.Vec3{
		math.Sin(y) * math.Cos(p),
		-math.Sin(p),
		math.Cos(y) * math.Cos(p),
	}
}

// Right is the horizontal unit vector to the right of yaw.
func Right(yaw float64) mgl64.Vec3 {
	y := mgl64.DegToRad(yaw)
	return mgl64.Vec3{math.Cos(y), 0, -math.Sin(y)}
}

// Up is perpendicular to both Forward and Right.
func Up(yaw, pitch float64) mgl64.Vec3 {
	return Forward(yaw, pitch).Cross(Right(yaw))
}

// LookAt returns the yaw and pitch that face from toward to. ok is false when
// the two points coincide.
func LookAt(from, to mgl64.Vec3) (yaw, pitch float64, ok bool) {
	d := to.Sub(from)
	planar := math.Hypot(d.X(), d.Z())
	if planar == 0 && d.Y() == 0 {
		return 0, 0, false
	}
	yaw = mgl64.RadToDeg(math.Atan2(d.X(), d.Z()))
	pitch = mgl64.RadToDeg(-math.Atan2(d.Y(), planar))
	return yaw, pitch, true
}

// PlanarDistance ignores the vertical axis.
func PlanarDistance(a, b mgl64.Vec3) float64 {
	return math.Hypot(a.X()-b.X(), a.Z()-b.Z())
}

func wrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
