package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/brine/components"
	"github.com/pthm-cable/brine/inspector"
	"github.com/pthm-cable/brine/renderer"
	"github.com/pthm-cable/brine/telemetry"
	"github.com/pthm-cable/brine/ui"
)

// Draw renders the current frame. Graphical mode only.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	r := g.renderer
	r.Terrain().Draw(g.terrain)

	if g.showLattice {
		g.drawLatticeOverlay()
	}
	g.drawLoot()
	g.drawAgents()
	g.drawProjectiles()
	g.drawPlayerMarkers()

	r.Particles().Draw()
	r.Particles().Age()
	r.DrawWind(g.wind.Dir, g.wind.Strength)

	g.applyShop(g.hud.Draw(g.hudData()))
	g.drawInspector()

	rl.EndDrawing()
}

func (g *Game) drawLoot() {
	query := g.lootFilter.Query()
	for query.Next() {
		pos, body, loot := query.Get()
		if loot.Collected {
			continue
		}
		g.renderer.DrawLoot(pos.X, pos.Y, body.Diameter)
	}
}

func (g *Game) drawAgents() {
	r := g.renderer

	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, _, body, motion, agent := query.Get()
		if !agent.Alive() {
			continue
		}
		e := query.Entity()

		switch agent.Kind {
		case components.KindShark, components.KindSiren:
			r.DrawCreature(agent.Kind, pos.X, pos.Y, body.Diameter, motion.Orientation)
		case components.KindFort, components.KindFortBoss:
			r.DrawFort(agent.Kind, pos.X, pos.Y, body.Diameter)
			g.drawCannons(e, pos)
		default:
			sail := motion.Orientation
			if g.sailMap.Has(e) {
				sail = g.sailMap.Get(e).Angle
			}
			r.DrawShip(agent.Kind, pos.X, pos.Y, body.Diameter, motion.Orientation, sail)
		}

		if agent.BaseHealth > 0 {
			r.DrawHealth(pos.X, pos.Y, body.Diameter, agent.Health/agent.BaseHealth)
		}
	}
}

func (g *Game) drawCannons(e ecs.Entity, pos *components.Position) {
	if !g.armMap.Has(e) {
		return
	}
	arm := g.armMap.Get(e)
	for i := range arm.Cannons {
		c := &arm.Cannons[i]
		g.renderer.DrawCannon(pos.X+c.OffsetX, pos.Y+c.OffsetY, c.Orientation, c.Diameter)
	}
}

func (g *Game) drawProjectiles() {
	query := g.projFilter.Query()
	for query.Next() {
		pos, proj := query.Get()
		if proj.Spent {
			continue
		}
		g.renderer.DrawProjectile(pos.X, pos.Y, g.bodyMap.Get(query.Entity()).Diameter)
	}
}

// drawPlayerMarkers shows the seek point and the reach of the broadside
// facing the aim point.
func (g *Game) drawPlayerMarkers() {
	if !g.Alive(g.player) {
		return
	}
	p := g.playerMap.Get(g.player)
	if p.Seeking {
		g.renderer.DrawSeekMarker(p.SeekX, p.SeekY)
	}
	me := g.playerActor()
	if _, c := g.broadside(&me, g.aim); c != nil {
		from := cannonMuzzle(me.pos.Vec(), c)
		g.renderer.DrawRange(from.X, from.Y, g.ballistics.RangeRadius(c))
	}
}

// emitEffects turns the tick's combat events into particles.
func (g *Game) emitEffects() {
	if g.renderer == nil {
		return
	}
	fx := g.renderer.Particles()
	for i := range g.events {
		ev := &g.events[i]
		switch ev.Type {
		case telemetry.EventVolleyFired:
			fx.Emit(renderer.ParticleSmoke, float32(ev.X), float32(ev.Y), 4, 30)
		case telemetry.EventProjectileImpact:
			fx.Emit(renderer.ParticleBlast, float32(ev.X), float32(ev.Y), 6, 20)
		case telemetry.EventAgentRemoved:
			if ev.Reason == telemetry.ReasonDeath {
				fx.Emit(renderer.ParticleSplash, float32(ev.X), float32(ev.Y), 10, 45)
			}
		}
	}
}

func (g *Game) hudData() ui.HUDData {
	ps := g.PlayerState()
	data := ui.HUDData{
		Tick:             g.tick,
		Speed:            g.stepsPerUpdate,
		FPS:              rl.GetFPS(),
		Paused:           g.paused,
		Health:           ps.Health,
		BaseHealth:       ps.BaseHealth,
		Gold:             ps.Gold,
		Deaths:           ps.Deaths,
		WindDir:          g.wind.Dir,
		WindStrength:     g.wind.Strength,
		SailAlignment:    WindAlignment(ps.Sail, g.wind.Dir),
		FlagshipDefeated: g.flagshipDefeated,
	}
	for _, c := range g.CannonStates(g.player) {
		data.Cannons = append(data.Cannons, ui.CannonData{
			Ammo:         c.Ammo,
			Balls:        c.Balls,
			Range:        c.Range,
			Damage:       c.Damage,
			Cooldown:     c.Cooldown,
			CooldownTime: c.CooldownTime,
		})
	}
	for k := components.Kind(0); k < components.NumKinds; k++ {
		if k.Hostile() {
			data.Hostiles += g.Count(k)
		}
	}
	return data
}

func (g *Game) applyShop(action ui.ShopAction) {
	switch action {
	case ui.ShopHealth:
		g.UpgradeHealth()
	case ui.ShopAmmo:
		g.UpgradeAmmo()
	case ui.ShopRange:
		g.UpgradeRange()
	case ui.ShopBalls:
		g.UpgradeBalls()
	case ui.ShopDamage:
		g.UpgradeDamage()
	}
}

// drawInspector shows the selected agent's components. A selection that
// has left play is dropped.
func (g *Game) drawInspector() {
	e, ok := g.inspector.Selected()
	if !ok {
		return
	}
	if !g.Alive(e) {
		g.inspector.Deselect()
		return
	}

	pos := g.posMap.Get(e)
	g.inspector.DrawSelectionHighlight(pos.X, pos.Y, g.bodyMap.Get(e).Radius())

	agent := g.agentMap.Get(e)
	sections := []inspector.Section{
		{Title: "AGENT", Component: agent},
		{Title: "MOTION", Component: g.motionMap.Get(e)},
		{Title: "VELOCITY", Component: g.velMap.Get(e)},
	}
	if g.sailMap.Has(e) {
		sections = append(sections, inspector.Section{Title: "SAIL", Component: g.sailMap.Get(e)})
	}
	if g.contactMap.Has(e) {
		sections = append(sections, inspector.Section{Title: "CONTACT", Component: g.contactMap.Get(e)})
	}
	if g.playerMap.Has(e) {
		sections = append(sections, inspector.Section{Title: "PLAYER", Component: g.playerMap.Get(e)})
	}
	if g.armMap.Has(e) {
		for i := range g.armMap.Get(e).Cannons {
			sections = append(sections, inspector.Section{
				Title:     fmt.Sprintf("CANNON %d", i+1),
				Component: &g.armMap.Get(e).Cannons[i],
			})
		}
	}
	g.inspector.Draw(agent.Kind.String(), sections)
}
