package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/components"
	"github.com/pthm-cable/brine/config"
)

// AppendFan appends n unit directions spread around straight to dst. Ball 0
// flies straight; ball i is turned by spread*ceil(i/2), alternating sides
// with odd balls on the negative side. A zero straight vector yields zero
// vectors.
func AppendFan(dst []r2.Vec, straight r2.Vec, n int, spread float64) []r2.Vec {
	dir := Unit(straight)
	for i := 0; i < n; i++ {
		if i == 0 {
			dst = append(dst, dir)
			continue
		}
		a := spread * float64((i+1)/2)
		if i%2 == 1 {
			a = -a
		}
		dst = append(dst, Rotate(dir, a))
	}
	return dst
}

// Fan returns the volley directions for n balls.
func Fan(straight r2.Vec, n int, spread float64) []r2.Vec {
	return AppendFan(make([]r2.Vec, 0, n), straight, n, spread)
}

// CanFire reports whether a cannon has ammo and has cooled down.
func CanFire(c *components.Cannon) bool {
	return c.Ammo != 0 && c.Cooldown == 0
}

// TickCooldown counts a cannon's cooldown down by one tick.
func TickCooldown(c *components.Cannon) {
	if c.Cooldown > 0 {
		c.Cooldown--
	}
}

// ShotSpec describes one cannonball to spawn.
type ShotSpec struct {
	Pos, Vel r2.Vec
	Diameter float64
	Damage   float64
}

// ProjectileFate is why a projectile left the world.
type ProjectileFate uint8

const (
	FateImpact ProjectileFate = iota
	FateStalled
	FateDespawn
)

// String returns the display name of a projectile fate.
func (f ProjectileFate) String() string {
	switch f {
	case FateImpact:
		return "impact"
	case FateStalled:
		return "stalled"
	case FateDespawn:
		return "despawn"
	}
	return "unknown"
}

// FireRequest asks for a volley from one cannon of an armed agent.
type FireRequest struct {
	Owner  ecs.Entity
	Cannon int
	Target r2.Vec
}

// Volley records a fired volley.
type Volley struct {
	Owner  ecs.Entity
	Cannon int
	Balls  int
	X, Y   float64
}

// Impact records a projectile striking an agent.
type Impact struct {
	Projectile ecs.Entity
	Owner      ecs.Entity
	Target     ecs.Entity
	X, Y       float64
	Damage     float64
	Killed     bool
}

// Spent is a projectile to be removed.
type Spent struct {
	Entity ecs.Entity
	Fate   ProjectileFate
}

// BallisticsResult collects what happened during one ballistics pass. Its
// slices are reused between ticks.
type BallisticsResult struct {
	Volleys []Volley
	Impacts []Impact
	Spent   []Spent
}

func (r *BallisticsResult) reset() {
	r.Volleys = r.Volleys[:0]
	r.Impacts = r.Impacts[:0]
	r.Spent = r.Spent[:0]
}

// BallisticsSystem owns cannon state transitions and projectile flight.
type BallisticsSystem struct {
	cfg          config.BallisticsConfig
	minSpeed     float64
	despawnTicks int

	terrain *TerrainField
	lattice *Lattice

	projFilter ecs.Filter4[components.Position, components.Velocity, components.Body, components.Projectile]
	armFilter  ecs.Filter1[components.Armament]
	projMapper *ecs.Map4[components.Position, components.Velocity, components.Body, components.Projectile]

	posMap   *ecs.Map[components.Position]
	velMap   *ecs.Map[components.Velocity]
	bodyMap  *ecs.Map[components.Body]
	agentMap *ecs.Map[components.Agent]
	armMap   *ecs.Map[components.Armament]

	requests   []FireRequest
	candidates []ecs.Entity
	fan        []r2.Vec
	shots      []ShotSpec
	result     BallisticsResult
}

// NewBallisticsSystem creates a ballistics system.
func NewBallisticsSystem(w *ecs.World, terrain *TerrainField, lattice *Lattice, cfg config.BallisticsConfig, minSpeed float64, despawnTicks int) *BallisticsSystem {
	return &BallisticsSystem{
		cfg:          cfg,
		minSpeed:     minSpeed,
		despawnTicks: despawnTicks,
		terrain:      terrain,
		lattice:      lattice,
		projFilter:   *ecs.NewFilter4[components.Position, components.Velocity, components.Body, components.Projectile](w),
		armFilter:    *ecs.NewFilter1[components.Armament](w),
		projMapper:   ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Projectile](w),
		posMap:       ecs.NewMap[components.Position](w),
		velMap:       ecs.NewMap[components.Velocity](w),
		bodyMap:      ecs.NewMap[components.Body](w),
		agentMap:     ecs.NewMap[components.Agent](w),
		armMap:       ecs.NewMap[components.Armament](w),
	}
}

// RangeRadius returns the distance a cannon can reach.
func (s *BallisticsSystem) RangeRadius(c *components.Cannon) float64 {
	return c.Range * s.cfg.RangeRadiusMult
}

// InRange reports whether target is within reach of a cannon at from.
func (s *BallisticsSystem) InRange(c *components.Cannon, from, target r2.Vec) bool {
	return Dist(from, target) <= s.RangeRadius(c)
}

// Fire attempts a volley from a cannon at from toward target. carrier is the
// velocity inherited from the firing vessel. When the cannon cannot fire the
// state is left unchanged and false is returned. The returned slice is only
// valid until the next call.
func (s *BallisticsSystem) Fire(c *components.Cannon, from, target, carrier r2.Vec) ([]ShotSpec, bool) {
	if !CanFire(c) {
		return nil, false
	}

	s.fan = AppendFan(s.fan[:0], r2.Sub(target, from), c.BallsPerVolley, s.cfg.Spread)
	speed := s.cfg.ProjectileSpeed * c.Range
	diameter := c.Diameter * s.cfg.BallSizeMult

	s.shots = s.shots[:0]
	for _, dir := range s.fan {
		s.shots = append(s.shots, ShotSpec{
			Pos:      from,
			Vel:      r2.Add(r2.Scale(speed, dir), carrier),
			Diameter: diameter,
			Damage:   c.Damage,
		})
	}

	c.Cooldown = c.CooldownTime
	if !c.Unlimited() {
		c.Ammo--
	}
	return s.shots, true
}

// Request queues a volley to be resolved on the next Update.
func (s *BallisticsSystem) Request(req FireRequest) {
	s.requests = append(s.requests, req)
}

// TickCooldowns counts down every cannon in the world.
func (s *BallisticsSystem) TickCooldowns() {
	query := s.armFilter.Query()
	for query.Next() {
		arm := query.Get()
		for i := range arm.Cannons {
			TickCooldown(&arm.Cannons[i])
		}
	}
}

// Update ticks cooldowns, resolves queued fire requests into projectiles and
// advances every projectile in flight. Spent projectiles are reported, not
// removed.
func (s *BallisticsSystem) Update(w *ecs.World) *BallisticsResult {
	s.result.reset()

	s.TickCooldowns()
	s.resolveRequests(w)
	s.advance()

	return &s.result
}

// resolveRequests fires queued volleys. It runs outside any query so new
// projectiles can be created directly.
func (s *BallisticsSystem) resolveRequests(w *ecs.World) {
	for _, req := range s.requests {
		if !w.Alive(req.Owner) || !s.armMap.Has(req.Owner) || !s.posMap.Has(req.Owner) {
			continue
		}
		if s.agentMap.Has(req.Owner) && !s.agentMap.Get(req.Owner).Alive() {
			continue
		}
		arm := s.armMap.Get(req.Owner)
		if req.Cannon < 0 || req.Cannon >= len(arm.Cannons) {
			continue
		}
		c := &arm.Cannons[req.Cannon]

		pos := s.posMap.Get(req.Owner).Vec()
		from := r2.Add(pos, r2.Vec{X: c.OffsetX, Y: c.OffsetY})

		var carrier r2.Vec
		if s.velMap.Has(req.Owner) {
			carrier = r2.Scale(s.cfg.CarrierMult, s.velMap.Get(req.Owner).Vec())
		}

		shots, ok := s.Fire(c, from, req.Target, carrier)
		if !ok {
			continue
		}

		var alliance uint32
		if s.agentMap.Has(req.Owner) {
			alliance = s.agentMap.Get(req.Owner).Alliance
		}
		for _, shot := range shots {
			s.spawn(req.Owner, alliance, shot)
		}
		s.result.Volleys = append(s.result.Volleys, Volley{
			Owner:  req.Owner,
			Cannon: req.Cannon,
			Balls:  len(shots),
			X:      from.X,
			Y:      from.Y,
		})
	}
	s.requests = s.requests[:0]
}

func (s *BallisticsSystem) spawn(owner ecs.Entity, alliance uint32, shot ShotSpec) ecs.Entity {
	pos := components.Position{X: shot.Pos.X, Y: shot.Pos.Y}
	vel := components.Velocity{X: shot.Vel.X, Y: shot.Vel.Y}
	body := components.Body{Diameter: shot.Diameter}
	proj := components.Projectile{Owner: owner, Alliance: alliance, Damage: shot.Damage}
	return s.projMapper.NewEntity(&pos, &vel, &body, &proj)
}

// advance moves projectiles, applies drag and resolves hits.
func (s *BallisticsSystem) advance() {
	query := s.projFilter.Query()
	for query.Next() {
		pos, vel, body, proj := query.Get()
		if proj.Spent {
			continue
		}
		e := query.Entity()

		if fate, done := s.StepProjectile(pos, vel, proj); done {
			proj.Spent = true
			s.result.Spent = append(s.result.Spent, Spent{Entity: e, Fate: fate})
			continue
		}

		if target, killed, hit := s.collide(pos.Vec(), body.Radius(), proj); hit {
			proj.Spent = true
			s.result.Impacts = append(s.result.Impacts, Impact{
				Projectile: e,
				Owner:      proj.Owner,
				Target:     target,
				X:          pos.X,
				Y:          pos.Y,
				Damage:     proj.Damage,
				Killed:     killed,
			})
			s.result.Spent = append(s.result.Spent, Spent{Entity: e, Fate: FateImpact})
		}
	}
}

// StepProjectile applies drag, moves the projectile and runs despawn
// bookkeeping. It reports a fate when the projectile should be removed.
func (s *BallisticsSystem) StepProjectile(pos *components.Position, vel *components.Velocity, proj *components.Projectile) (ProjectileFate, bool) {
	v := vel.Vec()
	speed := r2.Norm(v)
	v = r2.Add(v, r2.Scale(s.cfg.Drag*speed, Unit(v)))
	vel.Set(v)

	p := r2.Add(pos.Vec(), v)
	pos.Set(p)

	if r2.Norm(v) < s.minSpeed {
		return FateStalled, true
	}
	if Linger(&proj.OffFieldTicks, s.terrain.OnField(p.X, p.Y), s.despawnTicks) {
		return FateDespawn, true
	}
	return 0, false
}

// collide finds the first agent near p that the projectile may strike.
func (s *BallisticsSystem) collide(p r2.Vec, radius float64, proj *components.Projectile) (ecs.Entity, bool, bool) {
	col, row := s.terrain.WorldToTile(p.X, p.Y)
	s.candidates = s.lattice.QueryInto(s.candidates[:0], col, row)

	for _, e := range s.candidates {
		if e == proj.Owner || !s.agentMap.Has(e) {
			continue
		}
		agent := s.agentMap.Get(e)
		if !agent.Alive() {
			continue
		}
		if proj.Alliance != 0 && agent.Alliance == proj.Alliance {
			continue
		}
		other := s.posMap.Get(e).Vec()
		reach := radius + s.bodyMap.Get(e).Radius()
		if Dist(p, other) <= reach {
			return e, ApplyDamage(agent, proj.Damage), true
		}
	}
	return ecs.Entity{}, false, false
}

// ApplyDamage subtracts damage from an agent, flooring health at zero.
// Returns true if this hit killed the agent.
func ApplyDamage(a *components.Agent, dmg float64) bool {
	if a.Dead {
		return false
	}
	a.Health = math.Max(a.Health-dmg, 0)
	if a.Health == 0 {
		a.Dead = true
		return true
	}
	return false
}
