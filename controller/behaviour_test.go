package controller

import (
	"errors"
	"testing"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		visible  bool
		inAttack bool
		want     Behaviour
	}{
		{"nothing", false, false, Patrol},
		{"visible_only", true, false, Chase},
		{"attack_and_visible", true, true, Attack},
		{"attack_without_sight", false, true, Attack},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Select(tc.visible, tc.inAttack); got != tc.want {
				t.Fatalf("Select(%v, %v) = %v, want %v", tc.visible, tc.inAttack, got, tc.want)
			}
			// Moore ignores history entirely.
			for _, prev := range []Behaviour{Patrol, Chase, Attack} {
				in := SelectInput{PlayerVisible: tc.visible, PlayerInAttackRange: tc.inAttack, Previous: prev}
				if got := (MooreSelector{}).Select(in); got != tc.want {
					t.Fatalf("moore with previous %v = %v, want %v", prev, got, tc.want)
				}
			}
		})
	}
}

func TestDwellSelector(t *testing.T) {
	sel := DwellSelector{MinDwell: 0.5}
	tests := []struct {
		name string
		in   SelectInput
		want Behaviour
	}{
		{"holds_before_dwell", SelectInput{PlayerVisible: false, Previous: Chase, Dwell: 0.1}, Chase},
		{"switches_after_dwell", SelectInput{PlayerVisible: false, Previous: Chase, Dwell: 0.5}, Patrol},
		{"same_behaviour_unaffected", SelectInput{PlayerVisible: true, Previous: Chase, Dwell: 0}, Chase},
		{"attack_skips_dwell", SelectInput{PlayerVisible: true, PlayerInAttackRange: true, Previous: Chase, Dwell: 0.1}, Attack},
		{"attack_from_patrol", SelectInput{PlayerInAttackRange: true, Previous: Patrol, Dwell: 0}, Attack},
		{"leaving_attack_waits", SelectInput{PlayerVisible: true, Previous: Attack, Dwell: 0.2}, Attack},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := sel.Select(tc.in); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}

	zero := DwellSelector{}
	in := SelectInput{PlayerVisible: true, Previous: Patrol}
	if got := zero.Select(in); got != Chase {
		t.Fatalf("zero dwell should behave like moore, got %v", got)
	}
}

func TestParseBehaviour(t *testing.T) {
	for _, b := range []Behaviour{Patrol, Chase, Attack} {
		got, err := ParseBehaviour(" " + b.String() + " ")
		if err != nil || got != b {
			t.Fatalf("round trip %v: got %v err %v", b, got, err)
		}
	}
	if _, err := ParseBehaviour("flee"); !errors.Is(err, ErrUnknownBehaviour) {
		t.Fatalf("expected ErrUnknownBehaviour, got %v", err)
	}
}
