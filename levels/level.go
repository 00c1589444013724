package levels

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type Level struct {
	Name     string  `json:"name"`
	Bounds   Bounds  `json:"bounds"`
	CellSize float64 `json:"cell_size,omitempty"`
	Boxes    []Box   `json:"boxes"`
	Player   Spawn   `json:"player"`
	Enemies  []Spawn `json:"enemies,omitempty"`
}

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

type Bounds struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// Box is a static collider. Layers are physics layer names.
type Box struct {
	Name   string   `json:"name,omitempty"`
	Min    Vec3     `json:"min"`
	Max    Vec3     `json:"max"`
	Layers []string `json:"layers"`
}

// Spawn places a prefab. An empty prefab means the default for its role.
type Spawn struct {
	Prefab   string  `json:"prefab,omitempty"`
	Position Vec3    `json:"position"`
	Yaw      float64 `json:"yaw,omitempty"`
}

func (l *Level) Validate() error {
	b := l.Bounds
	if b.Max.X <= b.Min.X || b.Max.Z <= b.Min.Z || b.Max.Y < b.Min.Y {
		return fmt.Errorf("%w: empty bounds", ErrInvalidLevel)
	}
	if len(l.Boxes) == 0 {
		return fmt.Errorf("%w: no boxes", ErrInvalidLevel)
	}
	for i, box := range l.Boxes {
		if len(box.Layers) == 0 {
			return fmt.Errorf("%w: box %d has no layers", ErrInvalidLevel, i)
		}
	}
	if l.CellSize < 0 {
		return fmt.Errorf("%w: negative cell size", ErrInvalidLevel)
	}
	return nil
}
