package controller

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Sensors are the world queries the controllers rely on.
type Sensors interface {
	// CheckSphere reports whether any collider in mask overlaps the sphere.
	CheckSphere(center mgl64.Vec3, radius float64, mask uint32) bool
	// CastDown reports whether a ray going straight down from origin hits a
	// collider in mask within maxDist.
	CastDown(origin mgl64.Vec3, maxDist float64, mask uint32) bool
}

const (
	defaultForwardImpulse = 32.0
	defaultUpwardImpulse  = 8.0
	defaultGroundProbe    = 2.0
	defaultArriveDistance = 1.0
)

type EnemyConfig struct {
	SightRadius        float64
	AttackRadius       float64
	WalkpointRange     float64
	TimeBetweenAttacks float64

	ForwardImpulse float64
	UpwardImpulse  float64
	// GroundProbe is how far below a candidate walk point ground must be.
	GroundProbe float64
	// ArriveDistance is the planar distance at which a walk point counts as reached.
	ArriveDistance float64

	PlayerMask uint32
	GroundMask uint32
}

func DefaultEnemyConfig() EnemyConfig {
	return EnemyConfig{
		SightRadius:        10,
		AttackRadius:       2,
		WalkpointRange:     8,
		TimeBetweenAttacks: 1,
		ForwardImpulse:     defaultForwardImpulse,
		UpwardImpulse:      defaultUpwardImpulse,
		GroundProbe:        defaultGroundProbe,
		ArriveDistance:     defaultArriveDistance,
	}
}

// EnemyState is the mutable part of an enemy. Range flags are recomputed
// every Step.
type EnemyState struct {
	WalkTarget    mgl64.Vec3
	HasWalkTarget bool

	PlayerVisible       bool
	PlayerInAttackRange bool
	AttackOnCooldown    bool
	// CooldownUntil is the Timers clock value at which the cooldown ends.
	CooldownUntil float64

	Behaviour      Behaviour
	BehaviourSince float64
	Attacks        int
}

// EnemyFrame is the snapshot an enemy decides from.
type EnemyFrame struct {
	Now      float64
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64

	Player      mgl64.Vec3
	PlayerFound bool

	Sensors Sensors
}

// ProjectileSpawn asks the host to create a projectile and apply Impulse once.
type ProjectileSpawn struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
	Impulse  mgl64.Vec3
}

// EnemyCommands is what the host should do this frame.
type EnemyCommands struct {
	Behaviour Behaviour
	Changed   bool
	Previous  Behaviour

	Destination    mgl64.Vec3
	HasDestination bool

	Face  bool
	Yaw   float64
	Pitch float64

	Projectile *ProjectileSpawn
}

type EnemyController struct {
	Config   EnemyConfig
	State    EnemyState
	Selector Selector
	Timers   *Timers
	Rand     *rand.Rand

	cooldown TimerID
}

// NewEnemyController wires a controller. A nil selector means MooreSelector,
// nil timers get a private queue (the caller must then Advance c.Timers) and
// a nil rng gets a PCG seeded with seed.
func NewEnemyController(cfg EnemyConfig, sel Selector, timers *Timers, rng *rand.Rand) *EnemyController {
	if sel == nil {
		sel = MooreSelector{}
	}
	if timers == nil {
		timers = NewTimers()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}
	if cfg.ForwardImpulse == 0 && cfg.UpwardImpulse == 0 {
		cfg.ForwardImpulse = defaultForwardImpulse
		cfg.UpwardImpulse = defaultUpwardImpulse
	}
	if cfg.GroundProbe <= 0 {
		cfg.GroundProbe = defaultGroundProbe
	}
	if cfg.ArriveDistance <= 0 {
		cfg.ArriveDistance = defaultArriveDistance
	}
	return &EnemyController{Config: cfg, Selector: sel, Timers: timers, Rand: rng}
}

// Step senses the player, picks this frame's behaviour and runs it.
func (c *EnemyController) Step(f EnemyFrame) EnemyCommands {
	s := &c.State
	if f.Sensors != nil {
		s.PlayerVisible = f.Sensors.CheckSphere(f.Position, c.Config.SightRadius, c.Config.PlayerMask)
		s.PlayerInAttackRange = f.Sensors.CheckSphere(f.Position, c.Config.AttackRadius, c.Config.PlayerMask)
	} else {
		s.PlayerVisible = false
		s.PlayerInAttackRange = false
	}

	prev := s.Behaviour
	next := c.Selector.Select(SelectInput{
		PlayerVisible:       s.PlayerVisible,
		PlayerInAttackRange: s.PlayerInAttackRange,
		Previous:            prev,
		Dwell:               f.Now - s.BehaviourSince,
	})
	cmd := EnemyCommands{Behaviour: next, Previous: prev}
	if next != prev {
		s.Behaviour = next
		s.BehaviourSince = f.Now
		cmd.Changed = true
	}

	switch next {
	case Patrol:
		c.patrol(f, &cmd)
	case Chase:
		c.chase(f, &cmd)
	case Attack:
		c.attack(f, &cmd)
	}
	return cmd
}

func (c *EnemyController) patrol(f EnemyFrame, cmd *EnemyCommands) {
	s := &c.State
	// Arrival is judged against the target held when the frame started, so a
	// reached point is still steered to this frame and replaced next frame.
	hadTarget := s.HasWalkTarget
	stale := PlanarDistance(f.Position, s.WalkTarget)

	if !s.HasWalkTarget {
		c.searchWalkpoint(f)
	}
	if s.HasWalkTarget {
		cmd.Destination = s.WalkTarget
		cmd.HasDestination = true
	}
	if hadTarget && stale < c.Config.ArriveDistance {
		s.HasWalkTarget = false
	}
}

// searchWalkpoint samples one point per call. A point with no ground close
// below it is dropped and the search simply runs again next frame.
func (c *EnemyController) searchWalkpoint(f EnemyFrame) {
	r := c.Config.WalkpointRange
	dx := (c.Rand.Float64()*2 - 1) * r
	dz := (c.Rand.Float64()*2 - 1) * r
	candidate := mgl64.Vec3{f.Position.X() + dx, f.Position.Y(), f.Position.Z() + dz}

	if f.Sensors == nil || !f.Sensors.CastDown(candidate, c.Config.GroundProbe, c.Config.GroundMask) {
		return
	}
	c.State.WalkTarget = candidate
	c.State.HasWalkTarget = true
}

func (c *EnemyController) chase(f EnemyFrame, cmd *EnemyCommands) {
	if !f.PlayerFound {
		return
	}
	cmd.Destination = f.Player
	cmd.HasDestination = true
}

func (c *EnemyController) attack(f EnemyFrame, cmd *EnemyCommands) {
	cmd.Destination = f.Position
	cmd.HasDestination = true

	yaw, pitch := f.Yaw, f.Pitch
	if f.PlayerFound {
		if y, p, ok := LookAt(f.Position, f.Player); ok {
			yaw, pitch = y, p
			cmd.Face = true
			cmd.Yaw = y
			cmd.Pitch = p
		}
	}

	if c.State.AttackOnCooldown {
		return
	}

	impulse := Forward(yaw, pitch).Mul(c.Config.ForwardImpulse).
		Add(Up(yaw, pitch).Mul(c.Config.UpwardImpulse))
	cmd.Projectile = &ProjectileSpawn{
		Position: f.Position,
		Yaw:      yaw,
		Pitch:    pitch,
		Impulse:  impulse,
	}
	c.State.Attacks++
	c.startCooldown(c.Config.TimeBetweenAttacks)
}

func (c *EnemyController) startCooldown(delay float64) {
	c.State.AttackOnCooldown = true
	c.State.CooldownUntil = c.Timers.Now() + delay
	c.cooldown = c.Timers.After(delay, c.resetAttack)
}

func (c *EnemyController) resetAttack() {
	c.State.AttackOnCooldown = false
	c.cooldown = 0
}

// ResumeFrom takes over prev's behaviour, walk target and attack cooldown,
// for a controller rebuilt with new configuration. A pending cooldown moves
// to c's timers with the time it had left and prev's timer is cancelled.
func (c *EnemyController) ResumeFrom(prev *EnemyController) {
	if prev == nil || prev == c {
		return
	}
	ps := prev.State
	c.State.WalkTarget = ps.WalkTarget
	c.State.HasWalkTarget = ps.HasWalkTarget
	c.State.Behaviour = ps.Behaviour
	c.State.BehaviourSince = ps.BehaviourSince
	c.State.Attacks = ps.Attacks

	if !ps.AttackOnCooldown {
		return
	}
	remaining := ps.CooldownUntil - prev.Timers.Now()
	if prev.cooldown != 0 {
		prev.Timers.Cancel(prev.cooldown)
		prev.cooldown = 0
	}
	if c.cooldown != 0 {
		c.Timers.Cancel(c.cooldown)
	}
	c.startCooldown(max(remaining, 0))
}
