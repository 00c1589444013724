package physics

import (
	"errors"
	"fmt"
	"strings"
)

// Layer is a collision category bit. Colliders carry one or more layers and
// queries take a mask of layers to match.
type Layer uint32

const (
	LayerGround Layer = 1 << iota
	LayerSolid
	LayerPlayer
	LayerEnemy
	LayerProjectile
)

const LayerNone Layer = 0

var ErrUnknownLayer = errors.New("physics: unknown layer")

var layerNames = map[string]Layer{
	"ground":     LayerGround,
	"solid":      LayerSolid,
	"player":     LayerPlayer,
	"enemy":      LayerEnemy,
	"projectile": LayerProjectile,
}

// ParseLayer maps a single layer name to its bit.
func ParseLayer(name string) (Layer, error) {
	l, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return LayerNone, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
	return l, nil
}

// ParseLayers ORs together a list of layer names.
func ParseLayers(names []string) (Layer, error) {
	var mask Layer
	for _, n := range names {
		l, err := ParseLayer(n)
		if err != nil {
			return LayerNone, err
		}
		mask |= l
	}
	return mask, nil
}

func (l Layer) Has(other Layer) bool {
	return l&other != 0
}

func (l Layer) String() string {
	if l == LayerNone {
		return "none"
	}
	var parts []string
	for _, n := range []string{"ground", "solid", "player", "enemy", "projectile"} {
		if l.Has(layerNames[n]) {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "|")
}
