package controller

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestEnemy(cfg EnemyConfig) (*EnemyController, *Timers) {
	cfg.PlayerMask = testPlayerMask
	cfg.GroundMask = testGroundMask
	timers := NewTimers()
	return NewEnemyController(cfg, nil, timers, rand.New(rand.NewPCG(7, 11))), timers
}

func TestEnemyChaseThenAttack(t *testing.T) {
	cfg := DefaultEnemyConfig()
	cfg.SightRadius = 10
	cfg.AttackRadius = 2
	enemy, _ := newTestEnemy(cfg)
	sensors := &fakeSensors{player: mgl64.Vec3{0, 0, 5}, hasPlayer: true}

	frame := EnemyFrame{Sensors: sensors, Player: sensors.player, PlayerFound: true}
	cmd := enemy.Step(frame)
	if cmd.Behaviour != Chase || !cmd.Changed || cmd.Previous != Patrol {
		t.Fatalf("player at 5: expected fresh chase, got %+v", cmd)
	}
	if !cmd.HasDestination || cmd.Destination != sensors.player {
		t.Fatalf("chase should target the player, got %v", cmd.Destination)
	}
	if cmd.Projectile != nil {
		t.Fatalf("chase must not fire")
	}

	sensors.player = mgl64.Vec3{0, 0, 1}
	frame.Player = sensors.player
	cmd = enemy.Step(frame)
	if cmd.Behaviour != Attack {
		t.Fatalf("player at 1: expected attack, got %v", cmd.Behaviour)
	}
	if cmd.Destination != frame.Position {
		t.Fatalf("attack should halt at own position, got %v", cmd.Destination)
	}
	if cmd.Projectile == nil {
		t.Fatalf("expected a projectile on the first attack frame")
	}
	if !vecNear(cmd.Projectile.Impulse, mgl64.Vec3{0, 8, 32}, 1e-9) {
		t.Fatalf("expected forward 32 + up 8 impulse, got %v", cmd.Projectile.Impulse)
	}
	if !cmd.Face || cmd.Yaw != 0 {
		t.Fatalf("expected to face +Z, got face=%v yaw=%v", cmd.Face, cmd.Yaw)
	}

	cmd = enemy.Step(frame)
	if cmd.Projectile != nil {
		t.Fatalf("second attack frame must be on cooldown")
	}
	if enemy.State.Attacks != 1 {
		t.Fatalf("expected exactly one attack, got %d", enemy.State.Attacks)
	}
}

func TestEnemyAttackFacesPlayerOffAxis(t *testing.T) {
	enemy, _ := newTestEnemy(DefaultEnemyConfig())
	sensors := &fakeSensors{player: mgl64.Vec3{1, 0, 0}, hasPlayer: true}

	cmd := enemy.Step(EnemyFrame{Sensors: sensors, Player: sensors.player, PlayerFound: true})
	if cmd.Behaviour != Attack || cmd.Projectile == nil {
		t.Fatalf("expected attack with projectile, got %+v", cmd)
	}
	if !vecNear(cmd.Projectile.Impulse, mgl64.Vec3{32, 8, 0}, 1e-9) {
		t.Fatalf("expected impulse along +X, got %v", cmd.Projectile.Impulse)
	}
}

func TestEnemyCooldownSpacing(t *testing.T) {
	const dt = 1.0 / 60
	cfg := DefaultEnemyConfig()
	cfg.TimeBetweenAttacks = 0.5
	enemy, timers := newTestEnemy(cfg)
	sensors := &fakeSensors{player: mgl64.Vec3{0, 0, 1}, hasPlayer: true}

	var shots []float64
	for i := 0; i < 150; i++ {
		timers.Advance(dt)
		cmd := enemy.Step(EnemyFrame{Now: timers.Now(), Sensors: sensors, Player: sensors.player, PlayerFound: true})
		if cmd.Behaviour != Attack {
			t.Fatalf("frame %d: expected continuous attack, got %v", i, cmd.Behaviour)
		}
		if cmd.Projectile != nil {
			shots = append(shots, timers.Now())
		}
	}

	if len(shots) < 4 || len(shots) > 5 {
		t.Fatalf("expected 4-5 shots over 2.5s at 0.5s interval, got %d (%v)", len(shots), shots)
	}
	for i := 1; i < len(shots); i++ {
		if gap := shots[i] - shots[i-1]; gap < cfg.TimeBetweenAttacks-1e-9 {
			t.Fatalf("shots %d and %d only %.4fs apart", i-1, i, gap)
		}
	}
}

func TestEnemyPatrolNeverAcceptsPointWithoutGround(t *testing.T) {
	enemy, _ := newTestEnemy(DefaultEnemyConfig())
	sensors := &fakeSensors{groundAt: func(mgl64.Vec3) bool { return false }}

	for i := 0; i < 100; i++ {
		cmd := enemy.Step(EnemyFrame{Sensors: sensors})
		if cmd.Behaviour != Patrol {
			t.Fatalf("expected patrol, got %v", cmd.Behaviour)
		}
		if cmd.HasDestination || enemy.State.HasWalkTarget {
			t.Fatalf("frame %d: walk target accepted without ground", i)
		}
	}
	if len(sensors.casts) != 100 {
		t.Fatalf("expected one ground probe per frame, got %d", len(sensors.casts))
	}
}

func TestEnemyPatrolGroundProbeDistance(t *testing.T) {
	tests := []struct {
		name   string
		height float64
		accept bool
	}{
		{name: "on the floor", height: 0, accept: true},
		{name: "at the probe limit", height: 2, accept: true},
		{name: "above the probe", height: 2.5, accept: false},
		{name: "far above", height: 10, accept: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enemy, _ := newTestEnemy(DefaultEnemyConfig())
			sensors := &fakeSensors{groundAt: func(mgl64.Vec3) bool { return true }}
			pos := mgl64.Vec3{0, tt.height, 0}

			accepted := false
			for i := 0; i < 20 && !accepted; i++ {
				enemy.Step(EnemyFrame{Position: pos, Sensors: sensors})
				accepted = enemy.State.HasWalkTarget
			}
			if accepted != tt.accept {
				t.Fatalf("accepted = %v, want %v", accepted, tt.accept)
			}
			for _, d := range sensors.castDists {
				if d != 2 {
					t.Fatalf("ground probe cast %v units, want 2", d)
				}
			}
		})
	}
}

func TestEnemyPatrolSamplesWithinRange(t *testing.T) {
	cfg := DefaultEnemyConfig()
	cfg.WalkpointRange = 4
	enemy, _ := newTestEnemy(cfg)
	// Ground only on the +X half of the arena.
	sensors := &fakeSensors{groundAt: func(p mgl64.Vec3) bool { return p.X() > 0 }}
	origin := mgl64.Vec3{0, 1, 0}

	accepted := 0
	for i := 0; i < 200; i++ {
		enemy.State.HasWalkTarget = false
		enemy.Step(EnemyFrame{Position: origin, Sensors: sensors})
		if !enemy.State.HasWalkTarget {
			continue
		}
		accepted++
		target := enemy.State.WalkTarget
		if target.X() <= 0 {
			t.Fatalf("accepted %v over a hole", target)
		}
		if target.X() > 4 || target.Z() < -4 || target.Z() > 4 || target.Y() != origin.Y() {
			t.Fatalf("target %v outside the sampling square", target)
		}
	}
	if accepted == 0 {
		t.Fatalf("expected some accepted points")
	}
}

func TestEnemyPatrolArrivalIsOneFrameLate(t *testing.T) {
	enemy, _ := newTestEnemy(DefaultEnemyConfig())
	sensors := &fakeSensors{groundAt: func(mgl64.Vec3) bool { return true }}

	first := enemy.Step(EnemyFrame{Sensors: sensors})
	if !first.HasDestination {
		t.Fatalf("expected a walk target on open ground")
	}
	target := first.Destination

	// Standing on the target: still steered there this frame, then cleared.
	arrived := enemy.Step(EnemyFrame{Position: target, Sensors: sensors})
	if !arrived.HasDestination || arrived.Destination != target {
		t.Fatalf("arrival frame should still target %v, got %v", target, arrived.Destination)
	}
	if enemy.State.HasWalkTarget {
		t.Fatalf("target should be cleared after the arrival frame")
	}

	next := enemy.Step(EnemyFrame{Position: target, Sensors: sensors})
	if !next.HasDestination || next.Destination == target {
		t.Fatalf("expected a new walk target, got %v", next.Destination)
	}
}

func TestEnemyMissingPlayerStaysOnPatrol(t *testing.T) {
	enemy, _ := newTestEnemy(DefaultEnemyConfig())
	sensors := &fakeSensors{groundAt: func(mgl64.Vec3) bool { return true }}

	cmd := enemy.Step(EnemyFrame{Sensors: sensors})
	if cmd.Behaviour != Patrol || enemy.State.PlayerVisible || enemy.State.PlayerInAttackRange {
		t.Fatalf("expected patrol with both flags clear, got %+v", enemy.State)
	}
}

func TestEnemyBoundaryFlicker(t *testing.T) {
	cfg := DefaultEnemyConfig()
	cfg.SightRadius = 5
	enemy, _ := newTestEnemy(cfg)
	inside := &fakeSensors{player: mgl64.Vec3{0, 0, 5}, hasPlayer: true}
	outside := &fakeSensors{player: mgl64.Vec3{0, 0, 5.0001}, hasPlayer: true, groundAt: func(mgl64.Vec3) bool { return true }}

	changes := 0
	for i := 0; i < 10; i++ {
		s := inside
		if i%2 == 1 {
			s = outside
		}
		if cmd := enemy.Step(EnemyFrame{Now: float64(i) / 60, Sensors: s, Player: s.player, PlayerFound: true}); cmd.Changed {
			changes++
		}
	}
	if changes != 10 {
		t.Fatalf("moore selection should flip every frame at the boundary, got %d changes", changes)
	}

	enemy, _ = newTestEnemy(cfg)
	enemy.Selector = DwellSelector{MinDwell: 0.1}
	changes = 0
	for i := 0; i < 10; i++ {
		s := inside
		if i%2 == 1 {
			s = outside
		}
		if cmd := enemy.Step(EnemyFrame{Now: float64(i) / 60, Sensors: s, Player: s.player, PlayerFound: true}); cmd.Changed {
			changes++
		}
	}
	if changes > 2 {
		t.Fatalf("dwell selection should suppress flicker, got %d changes", changes)
	}
}

func TestEnemyGizmos(t *testing.T) {
	cfg := DefaultEnemyConfig()
	pos := mgl64.Vec3{1, 2, 3}
	g := cfg.Gizmos(pos)
	if len(g) != 2 {
		t.Fatalf("expected two spheres, got %d", len(g))
	}
	if g[0].Radius != cfg.AttackRadius || g[0].Color != AttackGizmoColor {
		t.Fatalf("first gizmo should be the red attack radius, got %+v", g[0])
	}
	if g[1].Radius != cfg.SightRadius || g[1].Color != SightGizmoColor || g[1].Center != pos {
		t.Fatalf("second gizmo should be the yellow sight radius, got %+v", g[1])
	}
}

func TestEnemyResumeFromKeepsCooldown(t *testing.T) {
	cfg := DefaultEnemyConfig()
	cfg.TimeBetweenAttacks = 1
	old, timers := newTestEnemy(cfg)
	sensors := &fakeSensors{player: mgl64.Vec3{0, 0, 1}, hasPlayer: true}
	frame := EnemyFrame{Sensors: sensors, Player: sensors.player, PlayerFound: true}

	if cmd := old.Step(frame); cmd.Projectile == nil {
		t.Fatalf("expected the first attack to fire")
	}
	timers.Advance(0.25)

	rebuilt := NewEnemyController(old.Config, nil, timers, nil)
	rebuilt.ResumeFrom(old)
	if !rebuilt.State.AttackOnCooldown || rebuilt.State.CooldownUntil != 1 {
		t.Fatalf("cooldown not carried over: %+v", rebuilt.State)
	}
	if rebuilt.State.Behaviour != Attack || rebuilt.State.Attacks != 1 {
		t.Fatalf("behaviour not carried over: %+v", rebuilt.State)
	}
	if got := timers.Pending(); got != 1 {
		t.Fatalf("pending timers = %d, want only the rebuilt cooldown", got)
	}

	frame.Now = timers.Now()
	if cmd := rebuilt.Step(frame); cmd.Projectile != nil || cmd.Changed {
		t.Fatalf("rebuilt enemy fired or changed during the cooldown: %+v", cmd)
	}
	timers.Advance(0.5)
	if cmd := rebuilt.Step(frame); cmd.Projectile != nil {
		t.Fatalf("fired before the original cooldown ended")
	}
	timers.Advance(0.25)
	if cmd := rebuilt.Step(frame); cmd.Projectile == nil {
		t.Fatalf("expected a shot once the original cooldown ended")
	}
	if !old.State.AttackOnCooldown {
		t.Fatalf("the replaced controller's timer should have been cancelled")
	}
}

func TestEnemyResumeFromIdle(t *testing.T) {
	old, timers := newTestEnemy(DefaultEnemyConfig())
	rebuilt := NewEnemyController(old.Config, nil, timers, nil)
	rebuilt.ResumeFrom(old)
	rebuilt.ResumeFrom(nil)
	if rebuilt.State.AttackOnCooldown || timers.Pending() != 0 {
		t.Fatalf("idle enemy gained a cooldown: %+v", rebuilt.State)
	}
}
