package controller

import (
	"errors"
	"fmt"
	"strings"
)

// Behaviour is one of the three mutually exclusive enemy behaviours.
type Behaviour uint8

const (
	Patrol Behaviour = iota
	Chase
	Attack
)

var ErrUnknownBehaviour = errors.New("controller: unknown behaviour")

func (b Behaviour) String() string {
	switch b {
	case Patrol:
		return "patrol"
	case Chase:
		return "chase"
	case Attack:
		return "attack"
	default:
		return fmt.Sprintf("behaviour(%d)", uint8(b))
	}
}

func ParseBehaviour(s string) (Behaviour, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "patrol":
		return Patrol, nil
	case "chase":
		return Chase, nil
	case "attack":
		return Attack, nil
	}
	return Patrol, fmt.Errorf("%w: %q", ErrUnknownBehaviour, s)
}

// Select maps the two range flags to a behaviour. Attack range wins over
// sight, so an enemy whose attack radius exceeds its sight radius still
// attacks.
func Select(playerVisible, playerInAttackRange bool) Behaviour {
	switch {
	case playerInAttackRange:
		return Attack
	case playerVisible:
		return Chase
	default:
		return Patrol
	}
}

// SelectInput is what a Selector sees each frame.
type SelectInput struct {
	PlayerVisible       bool
	PlayerInAttackRange bool
	Previous            Behaviour
	// Dwell is how long Previous has been active, in seconds.
	Dwell float64
}

// Selector decides the behaviour for the current frame.
type Selector interface {
	Select(in SelectInput) Behaviour
}

// SelectorFunc adapts a plain function to Selector.
type SelectorFunc func(in SelectInput) Behaviour

func (f SelectorFunc) Select(in SelectInput) Behaviour {
	return f(in)
}

// MooreSelector re-decides from the range flags alone every frame. A player
// standing on a radius boundary can make it flip every frame.
type MooreSelector struct{}

func (MooreSelector) Select(in SelectInput) Behaviour {
	return Select(in.PlayerVisible, in.PlayerInAttackRange)
}

// DwellSelector only leaves a behaviour after it has been active for MinDwell
// seconds, except that a player in attack range is attacked at once.
// MinDwell <= 0 behaves like MooreSelector.
type DwellSelector struct {
	MinDwell float64
}

func (s DwellSelector) Select(in SelectInput) Behaviour {
	next := Select(in.PlayerVisible, in.PlayerInAttackRange)
	if next != in.Previous && next != Attack && in.Dwell < s.MinDwell {
		return in.Previous
	}
	return next
}
