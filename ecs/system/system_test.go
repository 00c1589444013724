package system

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/milk9111/sentry/controller"
	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/component"
	"github.com/milk9111/sentry/ecs/entity"
	"github.com/milk9111/sentry/levels"
	"github.com/milk9111/sentry/logger"
)

const testDt = 1.0 / 60

func flatLevel(player, enemy mgl64.Vec3) *levels.Level {
	v := func(p mgl64.Vec3) levels.Vec3 { return levels.Vec3{X: p.X(), Y: p.Y(), Z: p.Z()} }
	return &levels.Level{
		Name:     "flat",
		Bounds:   levels.Bounds{Min: levels.Vec3{X: -12, Z: -12}, Max: levels.Vec3{X: 12, Y: 4, Z: 12}},
		CellSize: 1,
		Boxes: []levels.Box{
			{Name: "floor", Min: levels.Vec3{X: -12, Y: -1, Z: -12}, Max: levels.Vec3{X: 12, Z: 12}, Layers: []string{"ground"}},
		},
		Player:  levels.Spawn{Position: v(player)},
		Enemies: []levels.Spawn{{Position: v(enemy)}},
	}
}

type harness struct {
	w     *ecs.World
	sched *ecs.Scheduler
	input component.Input
	log   *observer.ObservedLogs

	changes []BehaviourChange
	fired   int
	hits    []ProjectileHit
	jumps   int
}

func newHarness(t *testing.T, lvl *levels.Level) *harness {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	h := &harness{w: ecs.NewWorld(), log: logs}
	if _, err := entity.LoadLevel(h.w, lvl, logger.NewFromZap(zap.New(core)), 3); err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	h.sched = NewPipeline(InputSourceFunc(func() component.Input { return h.input }))
	return h
}

func (h *harness) step(n int) {
	for i := 0; i < n; i++ {
		h.sched.Step(h.w, testDt)
		for _, ev := range h.w.Events().Drain() {
			switch data := ev.Data.(type) {
			case BehaviourChange:
				h.changes = append(h.changes, data)
			case ProjectileFired:
				h.fired++
			case ProjectileHit:
				h.hits = append(h.hits, data)
			case PlayerJumped:
				h.jumps++
			}
		}
	}
}

func (h *harness) enemy(t *testing.T) (ecs.Entity, *component.EnemyBrain, *component.Transform) {
	t.Helper()
	e, ok := ecs.First(h.w, component.EnemyBrainComponent.Kind())
	if !ok {
		t.Fatalf("no enemy")
	}
	brain, _ := ecs.Get(h.w, e, component.EnemyBrainComponent.Kind())
	tr, _ := ecs.Get(h.w, e, component.TransformComponent.Kind())
	return e, brain, tr
}

func (h *harness) movePlayer(t *testing.T, pos mgl64.Vec3) {
	t.Helper()
	p, ok := entity.Player(h.w)
	if !ok {
		t.Fatalf("no player")
	}
	body, _ := ecs.Get(h.w, p, component.BodyComponent.Kind())
	body.Actor.Teleport(pos)
	tr, _ := ecs.Get(h.w, p, component.TransformComponent.Kind())
	tr.Position = pos
}

func TestChaseThenAttack(t *testing.T) {
	h := newHarness(t, flatLevel(mgl64.Vec3{0, 1, 5}, mgl64.Vec3{0, 1, 0}))

	h.step(1)
	_, brain, enemyT := h.enemy(t)
	if got := brain.Controller.State.Behaviour; got != controller.Chase {
		t.Fatalf("behaviour at distance 5 = %v, want chase", got)
	}
	if len(h.changes) != 1 || h.changes[0] != (BehaviourChange{From: controller.Patrol, To: controller.Chase}) {
		t.Fatalf("changes = %+v", h.changes)
	}
	if enemyT.Position.Z() <= 0 {
		t.Fatalf("enemy did not move toward the player: %v", enemyT.Position)
	}
	if h.fired != 0 {
		t.Fatalf("fired %d projectiles while chasing", h.fired)
	}

	h.movePlayer(t, enemyT.Position.Add(mgl64.Vec3{0, 0, 1}))
	h.step(1)
	if got := brain.Controller.State.Behaviour; got != controller.Attack {
		t.Fatalf("behaviour at distance 1 = %v, want attack", got)
	}
	if h.fired != 1 {
		t.Fatalf("fired = %d on the first attack frame, want 1", h.fired)
	}
	if enemyT.Yaw != 0 || enemyT.Pitch != 0 {
		t.Fatalf("enemy faces yaw %v pitch %v, want the player straight ahead", enemyT.Yaw, enemyT.Pitch)
	}

	// The cooldown holds for a second of simulated time.
	h.step(55)
	if h.fired != 1 {
		t.Fatalf("fired = %d during cooldown", h.fired)
	}
	h.step(10)
	if h.fired != 2 {
		t.Fatalf("fired = %d after the cooldown, want 2", h.fired)
	}
	if len(h.hits) == 0 {
		t.Fatalf("no projectile reported a hit")
	}
	player, _ := entity.Player(h.w)
	if h.hits[0].Target != player {
		t.Fatalf("first hit target = %v, want the player", h.hits[0].Target)
	}
}

func TestEnemyPatrolsWhenAlone(t *testing.T) {
	h := newHarness(t, flatLevel(mgl64.Vec3{10, 1, 10}, mgl64.Vec3{-5, 1, -5}))
	_, brain, enemyT := h.enemy(t)
	start := enemyT.Position

	h.step(120)
	if got := brain.Controller.State.Behaviour; got != controller.Patrol {
		t.Fatalf("behaviour = %v, want patrol", got)
	}
	if len(h.changes) != 0 {
		t.Fatalf("changes = %+v", h.changes)
	}
	if controller.PlanarDistance(start, enemyT.Position) == 0 {
		t.Fatalf("enemy never moved on patrol")
	}
	if y := enemyT.Position.Y(); y < 0.99 || y > 1.01 {
		t.Fatalf("enemy left the floor: y = %v", y)
	}
}

func TestPlayerWalksAndJumps(t *testing.T) {
	h := newHarness(t, flatLevel(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{10, 1, 10}))
	player, _ := entity.Player(h.w)
	tr, _ := ecs.Get(h.w, player, component.TransformComponent.Kind())

	h.input = component.Input{Forward: 1}
	h.step(30)
	if z := tr.Position.Z(); z < 5.9 || z > 6.1 {
		t.Fatalf("z after half a second = %v, want about 6", z)
	}

	h.input = component.Input{JumpPressed: true}
	h.step(1)
	h.input = component.Input{}
	if h.jumps != 1 {
		t.Fatalf("jumps = %d", h.jumps)
	}
	h.step(10)
	if tr.Position.Y() <= 1.5 {
		t.Fatalf("player did not rise: y = %v", tr.Position.Y())
	}
	h.step(120)
	if y := tr.Position.Y(); y < 0.99 || y > 1.01 {
		t.Fatalf("player did not land: y = %v", y)
	}

	h.input = component.Input{MouseX: 0.9, MouseY: 60}
	h.step(1)
	cam, _ := ecs.Get(h.w, player, component.CameraComponent.Kind())
	if tr.Yaw <= 0 || cam.Pitch != -controller.DefaultPlayerConfig().PitchLimit {
		t.Fatalf("yaw %v pitch %v", tr.Yaw, cam.Pitch)
	}
	if tr.Pitch != 0 {
		t.Fatalf("body pitched to %v", tr.Pitch)
	}
}

func TestMissingPlayerIsLoggedOnce(t *testing.T) {
	h := newHarness(t, flatLevel(mgl64.Vec3{0, 1, 5}, mgl64.Vec3{0, 1, 0}))
	player, _ := entity.Player(h.w)
	entity.Destroy(h.w, player)

	h.step(5)
	errs := h.log.FilterLevelExact(zapcore.ErrorLevel).FilterMessageSnippet("no player").Len()
	if errs != 1 {
		t.Fatalf("missing player errors = %d, want 1", errs)
	}
	_, brain, _ := h.enemy(t)
	if brain.Controller.State.Behaviour != controller.Patrol {
		t.Fatalf("behaviour = %v", brain.Controller.State.Behaviour)
	}
}

func TestTTLSystem(t *testing.T) {
	w := ecs.NewWorld()
	short := ecs.CreateEntity(w)
	long := ecs.CreateEntity(w)
	_ = ecs.Add(w, short, component.TTLComponent.Kind(), &component.TTL{Seconds: 0.05})
	_ = ecs.Add(w, long, component.TTLComponent.Kind(), &component.TTL{Seconds: 1})

	sched := ecs.NewScheduler(NewTTLSystem())
	for i := 0; i < 6; i++ {
		sched.Step(w, testDt)
	}
	if ecs.IsAlive(w, short) {
		t.Fatalf("short ttl still alive")
	}
	if !ecs.IsAlive(w, long) {
		t.Fatalf("long ttl destroyed early")
	}
}

func TestInputSystemCopiesSource(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})

	want := component.Input{Strafe: -1, Forward: 0.5, MouseX: 2, JumpPressed: true}
	NewInputSystem(InputSourceFunc(func() component.Input { return want })).Update(w)
	got, _ := ecs.Get(w, e, component.InputComponent.Kind())
	if *got != want {
		t.Fatalf("input = %+v, want %+v", *got, want)
	}
}

func TestSnapshotYAML(t *testing.T) {
	h := newHarness(t, flatLevel(mgl64.Vec3{0, 1, 1.5}, mgl64.Vec3{0, 1, 0}))
	h.step(1)

	snap := TakeSnapshot(h.w)
	if snap.Level != "flat" || snap.Frame != 1 || snap.Player == nil {
		t.Fatalf("snapshot = %+v", snap)
	}
	if len(snap.Enemies) != 1 || snap.Enemies[0].Behaviour != "attack" || snap.Enemies[0].Attacks != 1 {
		t.Fatalf("enemies = %+v", snap.Enemies)
	}
	data, err := snap.YAML()
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	for _, want := range []string{"level: flat", "behaviour: attack", "on_cooldown: true"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("snapshot yaml is missing %q:\n%s", want, data)
		}
	}
}
