package game

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/components"
	"github.com/pthm-cable/brine/systems"
	"github.com/pthm-cable/brine/telemetry"
)

// actor bundles an agent's components for one behaviour update.
type actor struct {
	e      ecs.Entity
	pos    *components.Position
	vel    *components.Velocity
	force  *components.Force
	body   *components.Body
	motion *components.Motion
	agent  *components.Agent
}

func (a *actor) kinematics() systems.Kinematics {
	return systems.Kinematics{
		Pos:          a.pos.Vec(),
		Vel:          a.vel.Vec(),
		MaxSpeed:     a.motion.MaxSpeed,
		Orientation:  a.motion.Orientation,
		ArriveRadius: a.motion.ArriveRadius,
		Diameter:     a.body.Diameter,
	}
}

// quarry is the player as hostile agents see it this tick.
type quarry struct {
	pos         r2.Vec
	orientation float64
	radius      float64
	ok          bool
}

func (g *Game) quarry() quarry {
	if !g.Alive(g.player) {
		return quarry{}
	}
	return quarry{
		pos:         g.posMap.Get(g.player).Vec(),
		orientation: g.motionMap.Get(g.player).Orientation,
		radius:      g.bodyMap.Get(g.player).Radius(),
		ok:          true,
	}
}

// aware reports whether the player is inside an agent's awareness radius.
func aware(a *actor, q quarry) bool {
	return q.ok && systems.Dist(a.pos.Vec(), q.pos) < q.radius+a.motion.AwareRadius
}

// touching reports whether an agent overlaps the player.
func touching(a *actor, q quarry) bool {
	return q.ok && systems.Dist(a.pos.Vec(), q.pos) <= q.radius+a.body.Radius()
}

// updateBehaviors runs the per-kind strategy of every live agent. Strategies
// only accumulate forces, mutate components in place and queue fire
// requests; no entity is created or removed here.
func (g *Game) updateBehaviors() {
	q := g.quarry()

	query := g.agentFilter.Query()
	for query.Next() {
		pos, vel, force, body, motion, agent := query.Get()
		if !agent.Alive() {
			continue
		}
		a := actor{e: query.Entity(), pos: pos, vel: vel, force: force, body: body, motion: motion, agent: agent}

		switch agent.Kind {
		case components.KindPlayer:
			g.steerPlayer(&a)
		case components.KindEnemyShip:
			g.steerEnemyShip(&a, q)
		case components.KindFlagship:
			g.steerFlagship(&a, q)
		case components.KindShark:
			g.steerShark(&a, q)
		case components.KindSiren:
			g.steerSiren(&a, q)
		case components.KindFort, components.KindFortBoss:
			g.aimFort(&a, q)
		}
	}
}

// refreshHeading points the agent along its velocity.
func refreshHeading(a *actor) {
	if v := a.vel.Vec(); v.X != 0 || v.Y != 0 {
		a.motion.Orientation = systems.Heading(v)
	}
}

// alignment returns how well the agent's sail catches the wind.
func (g *Game) alignment(a *actor) float64 {
	if !g.sailMap.Has(a.e) {
		return 0
	}
	return WindAlignment(g.sailMap.Get(a.e).Angle, g.wind.Dir)
}

// applySteer adds a steering force scaled for sailing.
func (g *Game) applySteer(a *actor, steer r2.Vec, align float64) {
	a.force.Add(SailScaled(steer, a.vel.Vec(), a.motion.MaxSpeed, g.cfg.Wind.SteerForceMult, align))
}

// sail applies the wind and water drag acting on a ship's hull.
func (g *Game) sail(a *actor) {
	a.force.Add(g.wind.Force(g.alignment(a), g.cfg.Wind.Scale))
	a.force.Add(WaterDrag(a.vel.Vec(), g.cfg.Movement.WaterDrag))
}

// trimToWind turns an AI ship's sail one step toward the wind.
func (g *Game) trimToWind(a *actor) {
	if !g.sailMap.Has(a.e) {
		return
	}
	s := g.sailMap.Get(a.e)
	s.Angle = TrimToward(s.Angle, g.wind.Dir, g.cfg.Derived.SailTurnPerTick)
}

// broadside picks the cannon on the side of the ship facing target.
func (g *Game) broadside(a *actor, target r2.Vec) (int, *components.Cannon) {
	if !g.armMap.Has(a.e) {
		return 0, nil
	}
	arm := g.armMap.Get(a.e)
	side := components.CannonLeft
	if TargetOnRight(a.pos.Vec(), a.motion.Orientation, a.body.Diameter, target) {
		side = components.CannonRight
	}
	if side >= len(arm.Cannons) {
		return 0, nil
	}
	return side, &arm.Cannons[side]
}

// cannonMuzzle returns the world position of a cannon.
func cannonMuzzle(pos r2.Vec, c *components.Cannon) r2.Vec {
	return r2.Add(pos, r2.Vec{X: c.OffsetX, Y: c.OffsetY})
}

// broadsideInRange reports whether target is within reach of the facing cannon.
func (g *Game) broadsideInRange(a *actor, target r2.Vec) bool {
	_, c := g.broadside(a, target)
	return c != nil && g.ballistics.InRange(c, cannonMuzzle(a.pos.Vec(), c), target)
}

// fireBroadside aims the facing cannon at target and requests a volley.
func (g *Game) fireBroadside(a *actor, target r2.Vec) bool {
	side, c := g.broadside(a, target)
	if c == nil {
		return false
	}
	c.Orientation = systems.Heading(r2.Sub(target, cannonMuzzle(a.pos.Vec(), c)))
	if !systems.CanFire(c) {
		return false
	}
	g.ballistics.Request(systems.FireRequest{Owner: a.e, Cannon: side, Target: target})
	return true
}

// steerPlayer arrives at the seek point, if any.
func (g *Game) steerPlayer(a *actor) {
	refreshHeading(a)
	align := g.alignment(a)

	p := g.playerMap.Get(a.e)
	if p.Seeking {
		seek := r2.Vec{X: p.SeekX, Y: p.SeekY}
		if systems.Dist(seek, a.pos.Vec()) < a.body.Diameter {
			p.Seeking = false
		} else {
			g.applySteer(a, g.steering.Seek(a.kinematics(), seek, systems.SeekArrive), align)
		}
	}
	g.sail(a)
}

// steerEnemyShip: off-field ships head for the player; aware ships fire
// when in range and pursue otherwise; the rest wander.
func (g *Game) steerEnemyShip(a *actor, q quarry) {
	refreshHeading(a)
	align := g.alignment(a)
	k := a.kinematics()

	var steer r2.Vec
	switch {
	case !g.terrain.OnField(a.pos.X, a.pos.Y):
		if q.ok {
			steer = g.steering.Pursue(k, q.pos, q.orientation)
		}
		g.applySteer(a, steer, align)
		g.sail(a)
		return
	case aware(a, q):
		if g.broadsideInRange(a, q.pos) {
			g.fireBroadside(a, q.pos)
		} else {
			steer = g.steering.Pursue(k, q.pos, q.orientation)
		}
	default:
		steer = g.steering.Wander(&k, g.cfg.Enemy.ShipWander, g.rng)
		a.motion.Orientation = k.Orientation
	}

	g.applySteer(a, steer, align)
	g.trimToWind(a)
	g.sail(a)
}

// steerFlagship fires whenever the player is in range and pursues otherwise.
func (g *Game) steerFlagship(a *actor, q quarry) {
	refreshHeading(a)
	if q.ok {
		if g.broadsideInRange(a, q.pos) {
			g.fireBroadside(a, q.pos)
		} else {
			g.applySteer(a, g.steering.Pursue(a.kinematics(), q.pos, q.orientation), g.alignment(a))
		}
	}
	g.trimToWind(a)
	g.sail(a)
}

// steerShark lunges at a nearby player or wanders, flocking with other
// sharks. Off-field sharks pursue the player unscaled so they come back
// into play.
func (g *Game) steerShark(a *actor, q quarry) {
	ec := g.cfg.Enemy
	refreshHeading(a)
	k := a.kinematics()

	if !g.terrain.OnField(a.pos.X, a.pos.Y) {
		if q.ok {
			a.force.Add(g.steering.Pursue(k, q.pos, q.orientation))
		}
		return
	}

	var steer r2.Vec
	if aware(a, q) {
		steer = g.steering.Seek(k, q.pos, systems.SeekLunge)
	} else {
		steer = g.steering.Wander(&k, ec.SharkWander, g.rng)
		a.motion.Orientation = k.Orientation
	}
	a.force.Add(r2.Scale(ec.SharkForceMult, steer))

	flock := g.steering.Flock(k, g.flockmates(a), g.steering.DefaultFlockWeights())
	a.force.Add(r2.Scale(ec.SharkForceMult, flock))
	a.force.Add(WaterDrag(a.vel.Vec(), g.cfg.Movement.WaterDrag))

	if touching(a, q) {
		g.hurtPlayer(g.contactDamage(a.e))
	}
}

// flockmates returns the kinematics of live sharks in the lattice
// neighbourhood of a. The slice is reused.
func (g *Game) flockmates(a *actor) []systems.Kinematics {
	col, row := g.terrain.WorldToTile(a.pos.X, a.pos.Y)
	g.neighbors = g.lattice.QueryInto(g.neighbors[:0], col, row)

	g.flockKin = g.flockKin[:0]
	for _, e := range g.neighbors {
		if e == a.e {
			continue
		}
		other := g.agentMap.Get(e)
		if other.Kind != components.KindShark || !other.Alive() {
			continue
		}
		g.flockKin = append(g.flockKin, g.kinematicsOf(e))
	}
	return g.flockKin
}

// kinematicsOf reads an agent's steering view through the mappers.
func (g *Game) kinematicsOf(e ecs.Entity) systems.Kinematics {
	motion := g.motionMap.Get(e)
	return systems.Kinematics{
		Pos:          g.posMap.Get(e).Vec(),
		Vel:          g.velMap.Get(e).Vec(),
		MaxSpeed:     motion.MaxSpeed,
		Orientation:  motion.Orientation,
		ArriveRadius: motion.ArriveRadius,
		Diameter:     g.bodyMap.Get(e).Diameter,
	}
}

// steerSiren watches the player and may halt and pull it in. Touching the
// player costs the siren its life.
func (g *Game) steerSiren(a *actor, q quarry) {
	ec := g.cfg.Enemy
	if aware(a, q) {
		toSiren := r2.Sub(a.pos.Vec(), q.pos)
		a.motion.Orientation = systems.Heading(r2.Scale(-1, toSiren))
		if g.rng.Float64() < ec.SirenHaltProb {
			g.halt(g.player)
			g.forceMap.Get(g.player).Add(systems.SetMag(toSiren, ec.SirenPull))
		}
	}
	if touching(a, q) {
		g.hurtPlayer(g.contactDamage(a.e))
		a.agent.Health = 0
		a.agent.Dead = true
	}
}

// aimFort trains every cannon on an aware player and fires those in range.
func (g *Game) aimFort(a *actor, q quarry) {
	if !aware(a, q) || !g.armMap.Has(a.e) {
		return
	}
	arm := g.armMap.Get(a.e)
	for i := range arm.Cannons {
		c := &arm.Cannons[i]
		from := cannonMuzzle(a.pos.Vec(), c)
		c.Orientation = systems.Heading(r2.Sub(q.pos, from))
		if systems.CanFire(c) && g.ballistics.InRange(c, from, q.pos) {
			g.ballistics.Request(systems.FireRequest{Owner: a.e, Cannon: i, Target: q.pos})
		}
	}
}

func (g *Game) contactDamage(e ecs.Entity) float64 {
	if !g.contactMap.Has(e) {
		return 0
	}
	return g.contactMap.Get(e).Damage
}

// hurtPlayer applies contact damage to the player.
func (g *Game) hurtPlayer(dmg float64) {
	if dmg <= 0 || !g.agentMap.Has(g.player) {
		return
	}
	systems.ApplyDamage(g.agentMap.Get(g.player), dmg)
}

// halt stops an agent dead and clears the player's seek point.
func (g *Game) halt(e ecs.Entity) {
	if g.velMap.Has(e) {
		g.velMap.Get(e).Set(r2.Vec{})
	}
	if g.forceMap.Has(e) {
		g.forceMap.Get(e).Reset()
	}
	if g.playerMap.Has(e) {
		g.playerMap.Get(e).Seeking = false
	}
}

// collectLoot hands touched loot to the player and runs despawn bookkeeping
// for the rest.
func (g *Game) collectLoot() {
	q := g.quarry()
	despawnTicks := g.cfg.Derived.DespawnTicks

	query := g.lootFilter.Query()
	for query.Next() {
		pos, body, loot := query.Get()
		if loot.Collected {
			continue
		}
		p := pos.Vec()

		if q.ok && systems.Dist(p, q.pos) <= q.radius+body.Radius() {
			loot.Collected = true
			g.awardLoot(loot.Gold)
			g.events = append(g.events, telemetry.NewLootEvent(g.tick, g.player, loot.Gold))
			g.spentLoot = append(g.spentLoot, query.Entity())
			continue
		}
		if systems.Linger(&loot.OffFieldTicks, g.terrain.OnField(p.X, p.Y), despawnTicks) {
			loot.Collected = true
			g.spentLoot = append(g.spentLoot, query.Entity())
		}
	}
}

// awardLoot adds gold to the player and the same number of volleys to each
// limited cannon.
func (g *Game) awardLoot(gold int) {
	g.playerMap.Get(g.player).Gold += gold
	if !g.armMap.Has(g.player) {
		return
	}
	arm := g.armMap.Get(g.player)
	for i := range arm.Cannons {
		if !arm.Cannons[i].Unlimited() {
			arm.Cannons[i].Ammo += gold
		}
	}
}
