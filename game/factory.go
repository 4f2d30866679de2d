package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/brine/components"
	"github.com/pthm-cable/brine/config"
	"github.com/pthm-cable/brine/systems"
	"github.com/pthm-cable/brine/telemetry"
)

// agentSpec holds the common construction parameters of an agent.
type agentSpec struct {
	kind     components.Kind
	category components.Category
	x, y     float64
	maxSpeed float64
	diameter float64
	health   float64
	despawn  bool
	exempt   bool
	alliance uint32
}

// parts builds the shared components for an agent.
func (g *Game) parts(s agentSpec) (components.Position, components.Velocity, components.Force, components.Body, components.Motion, components.Agent) {
	pos := components.Position{X: s.x, Y: s.y}
	body := components.Body{Diameter: s.diameter}
	motion := components.Motion{
		MaxSpeed:     s.maxSpeed,
		AwareRadius:  s.diameter * g.cfg.Steering.AwareMult,
		ArriveRadius: s.diameter * g.cfg.Steering.ArriveMult,
	}
	agent := components.Agent{
		Kind:          s.kind,
		Category:      s.category,
		Alliance:      s.alliance,
		Health:        s.health,
		BaseHealth:    s.health,
		Despawnable:   s.despawn,
		TerrainExempt: s.exempt,
	}
	return pos, components.Velocity{}, components.Force{}, body, motion, agent
}

// newCannon builds a cannon from a loadout.
func (g *Game) newCannon(lc config.CannonConfig, diameter float64) components.Cannon {
	return components.Cannon{
		Diameter:       diameter,
		Ammo:           lc.Ammo,
		BallsPerVolley: lc.BallsPerVolley,
		Range:          lc.Range,
		Damage:         lc.Damage,
		CooldownTime:   g.cfg.Ticks(lc.CooldownSecs),
	}
}

// spawnArmed creates an agent carrying cannons.
func (g *Game) spawnArmed(s agentSpec, cannons []components.Cannon) ecs.Entity {
	pos, vel, force, body, motion, agent := g.parts(s)
	arm := components.Armament{Cannons: cannons}
	e := g.armedMapper.NewEntity(&pos, &vel, &force, &body, &motion, &agent, &arm)
	g.events = append(g.events, telemetry.NewSpawnedEvent(g.tick, e, s.kind, s.x, s.y))
	return e
}

// spawnShip creates a sailing ship with a port and a starboard cannon.
func (g *Game) spawnShip(s agentSpec, lc config.CannonConfig) ecs.Entity {
	s.category = components.CategoryMaritime
	diam := s.diameter * g.cfg.Ballistics.ShipCannonMult

	left := g.newCannon(lc, diam)
	left.Orientation = -math.Pi / 4
	right := g.newCannon(lc, diam)
	right.Orientation = math.Pi / 4

	e := g.spawnArmed(s, []components.Cannon{left, right})
	g.sailMap.Add(e, &components.Sail{})
	return e
}

// spawnPlayer creates the player ship at its configured start.
func (g *Game) spawnPlayer() ecs.Entity {
	pc := g.cfg.Player
	e := g.spawnShip(agentSpec{
		kind:     components.KindPlayer,
		x:        pc.StartX,
		y:        pc.StartY,
		maxSpeed: pc.MaxSpeed,
		diameter: pc.Diameter,
		health:   pc.Health,
		exempt:   true,
	}, pc.Cannon)
	g.playerMap.Add(e, &components.Player{Gold: pc.StartGold})
	return e
}

// spawnFlagship creates the final boss ship. It never despawns.
func (g *Game) spawnFlagship() ecs.Entity {
	fc := g.cfg.Flagship
	return g.spawnShip(agentSpec{
		kind:     components.KindFlagship,
		x:        fc.StartX,
		y:        fc.StartY,
		maxSpeed: fc.MaxSpeed,
		diameter: fc.Diameter,
		health:   fc.Health,
	}, fc.Cannon)
}

// playerLoadout returns the player's current cannon and base health, which
// spawned enemies scale from. Upgrades therefore make later enemies tougher.
func (g *Game) playerLoadout() (components.Cannon, float64, float64) {
	pc := g.cfg.Player
	cannon := g.newCannon(pc.Cannon, 0)
	health := pc.Health
	maxSpeed := pc.MaxSpeed
	if g.armMap.Has(g.player) {
		if arm := g.armMap.Get(g.player); len(arm.Cannons) > 0 {
			cannon = arm.Cannons[components.CannonLeft]
		}
	}
	if g.agentMap.Has(g.player) {
		health = g.agentMap.Get(g.player).BaseHealth
	}
	if g.motionMap.Has(g.player) {
		maxSpeed = g.motionMap.Get(g.player).MaxSpeed
	}
	return cannon, health, maxSpeed
}

// scaledLoadout derives an enemy cannon loadout from the player's cannon.
// Range and cooldown are divided by rangeDiv and cooldownDiv.
func scaledLoadout(c components.Cannon, rangeDiv, cooldownDiv float64) components.Cannon {
	return components.Cannon{
		Ammo:           -1,
		BallsPerVolley: c.BallsPerVolley,
		Range:          c.Range / rangeDiv,
		Damage:         c.Damage,
		CooldownTime:   int(float64(c.CooldownTime) / cooldownDiv),
	}
}

// spawnEnemyShip creates a despawnable enemy ship scaled from the player.
func (g *Game) spawnEnemyShip(x, y float64) ecs.Entity {
	ec := g.cfg.Enemy
	pc, health, maxSpeed := g.playerLoadout()

	s := agentSpec{
		kind:     components.KindEnemyShip,
		category: components.CategoryMaritime,
		x:        x,
		y:        y,
		maxSpeed: maxSpeed * ec.ShipScale,
		diameter: ec.ShipDiameter,
		health:   health * ec.ShipScale,
		despawn:  true,
	}
	diam := s.diameter * g.cfg.Ballistics.ShipCannonMult
	left := scaledLoadout(pc, 1, ec.ShipScale)
	left.Diameter = diam
	left.Orientation = -math.Pi / 4
	right := left
	right.Orientation = math.Pi / 4

	e := g.spawnArmed(s, []components.Cannon{left, right})
	g.sailMap.Add(e, &components.Sail{})
	return e
}

// fortCannons places n cannons on the sides of a fort, facing outwards.
func fortCannons(n int, diameter float64, proto components.Cannon) []components.Cannon {
	half := diameter / 2
	offsets := [4][2]float64{{0, half}, {0, -half}, {half, 0}, {-half, 0}}
	cannons := make([]components.Cannon, 0, n)
	for i := 0; i < n; i++ {
		c := proto
		o := offsets[i%len(offsets)]
		c.OffsetX, c.OffsetY = o[0], o[1]
		c.Orientation = math.Atan2(o[1], o[0])
		cannons = append(cannons, c)
	}
	return cannons
}

// spawnFort creates a despawnable land fort with one to four cannons.
func (g *Game) spawnFort(x, y float64) ecs.Entity {
	ec := g.cfg.Enemy
	pc, health, _ := g.playerLoadout()

	n := ec.FortCannonsMin + g.rng.Intn(ec.FortCannonsMax-ec.FortCannonsMin+1)
	proto := scaledLoadout(pc, ec.FortScale, ec.FortScale)
	proto.Diameter = ec.FortDiameter * g.cfg.Ballistics.FortCannonMult

	return g.spawnArmed(agentSpec{
		kind:     components.KindFort,
		category: components.CategoryLand,
		x:        x,
		y:        y,
		diameter: ec.FortDiameter,
		health:   health * ec.FortScale,
		despawn:  true,
	}, fortCannons(n, ec.FortDiameter, proto))
}

// spawnFortBoss creates the fortress mini-boss: a main fort that owns four
// smaller corner forts, all in one alliance.
func (g *Game) spawnFortBoss() ecs.Entity {
	fc := g.cfg.FortBoss
	alliance := g.newAlliance()

	proto := g.newCannon(fc.Cannon, fc.Diameter*g.cfg.Ballistics.FortCannonMult/2)
	main := g.spawnArmed(agentSpec{
		kind:     components.KindFortBoss,
		category: components.CategoryLand,
		x:        fc.StartX,
		y:        fc.StartY,
		diameter: fc.Diameter,
		health:   fc.Health,
		alliance: alliance,
	}, fortCannons(fc.NumCannons, fc.Diameter, proto))

	inset := fc.Diameter/2 - fc.CornerInset
	cornerDiam := fc.Diameter / 4
	corner := g.newCannon(fc.Cannon, cornerDiam*g.cfg.Ballistics.FortCannonMult)
	corner.Range /= 2

	children := make([]ecs.Entity, 0, 4)
	for i := 0; i < 4; i++ {
		x := fc.StartX - inset
		if i%2 == 1 {
			x = fc.StartX + inset
		}
		y := fc.StartY - inset
		if i/2 == 1 {
			y = fc.StartY + inset
		}
		child := g.spawnArmed(agentSpec{
			kind:     components.KindFort,
			category: components.CategoryLand,
			x:        x,
			y:        y,
			diameter: cornerDiam,
			health:   fc.Health / 10,
			alliance: alliance,
		}, fortCannons(fc.NumCannons, cornerDiam, corner))
		g.childMap.Add(child, &components.Child{Parent: main})
		children = append(children, child)
	}
	g.parentMap.Add(main, &components.Parent{Children: children})
	return main
}

// newAlliance returns a fresh alliance group id.
func (g *Game) newAlliance() uint32 {
	g.lastAlliance++
	return g.lastAlliance
}

// spawnCreature creates an unarmed water creature with contact damage.
func (g *Game) spawnCreature(s agentSpec, damage float64) (ecs.Entity, *components.Motion) {
	pos, vel, force, body, motion, agent := g.parts(s)
	contact := components.Contact{Damage: damage}
	e := g.creatureMapper.NewEntity(&pos, &vel, &force, &body, &motion, &agent, &contact)
	g.events = append(g.events, telemetry.NewSpawnedEvent(g.tick, e, s.kind, s.x, s.y))
	return e, g.motionMap.Get(e)
}

// spawnShark creates a despawnable shark.
func (g *Game) spawnShark(x, y float64) ecs.Entity {
	ec := g.cfg.Enemy
	pc, health, _ := g.playerLoadout()
	e, _ := g.spawnCreature(agentSpec{
		kind:     components.KindShark,
		category: components.CategoryWater,
		x:        x,
		y:        y,
		maxSpeed: ec.SharkMaxSpeed,
		diameter: ec.SharkDiameter,
		health:   health * ec.SharkScale,
		despawn:  true,
	}, pc.Damage*ec.SharkScale*ec.SharkDmgScale)
	return e
}

// spawnSiren creates a stationary, despawnable siren with a widened
// awareness radius and a random facing.
func (g *Game) spawnSiren(x, y float64) ecs.Entity {
	ec := g.cfg.Enemy
	pc, health, _ := g.playerLoadout()
	e, motion := g.spawnCreature(agentSpec{
		kind:     components.KindSiren,
		category: components.CategoryWater,
		x:        x,
		y:        y,
		diameter: ec.SirenDiameter,
		health:   health * ec.SirenScale,
		despawn:  true,
	}, pc.Damage)
	motion.AwareRadius *= ec.SirenAwareMult
	motion.Orientation = systems.WrapAngle(g.rng.Float64() * 2 * math.Pi)
	return e
}

// spawnLoot creates a floating treasure worth GoldMin to GoldMax-1 gold.
func (g *Game) spawnLoot(x, y float64) ecs.Entity {
	lc := g.cfg.Loot
	gold := lc.GoldMin
	if lc.GoldMax > lc.GoldMin {
		gold += g.rng.Intn(lc.GoldMax - lc.GoldMin)
	}
	pos := components.Position{X: x, Y: y}
	body := components.Body{Diameter: lc.Diameter}
	loot := components.Loot{Gold: gold}
	return g.lootMapper.NewEntity(&pos, &body, &loot)
}

// queueSpawn collects terrain spawn candidates during a terrain update.
func (g *Game) queueSpawn(c systems.SpawnCandidate) {
	g.pendingSpawns = append(g.pendingSpawns, c)
}

// flushSpawns turns queued candidates into entities.
func (g *Game) flushSpawns() {
	for _, c := range g.pendingSpawns {
		switch c.Kind {
		case systems.SpawnShark:
			g.spawnShark(c.X, c.Y)
		case systems.SpawnEnemyShip:
			g.spawnEnemyShip(c.X, c.Y)
		case systems.SpawnSiren:
			g.spawnSiren(c.X, c.Y)
		case systems.SpawnFort:
			g.spawnFort(c.X, c.Y)
		case systems.SpawnLoot:
			g.spawnLoot(c.X, c.Y)
		}
	}
	g.pendingSpawns = g.pendingSpawns[:0]
}
