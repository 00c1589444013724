package controller

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	AttackGizmoColor = color.RGBA{R: 0xff, A: 0xff}
	SightGizmoColor  = color.RGBA{R: 0xff, G: 0xeb, B: 0x04, A: 0xff}
)

// WireSphere is a debug outline of a detection radius.
type WireSphere struct {
	Center mgl64.Vec3
	Radius float64
	Color  color.RGBA
}

// Gizmos returns the attack radius (red) then the sight radius (yellow)
// centred on pos.
func (c EnemyConfig) Gizmos(pos mgl64.Vec3) []WireSphere {
	return []WireSphere{
		{Center: pos, Radius: c.AttackRadius, Color: AttackGizmoColor},
		{Center: pos, Radius: c.SightRadius, Color: SightGizmoColor},
	}
}
