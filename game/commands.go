package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/components"
	"github.com/pthm-cable/brine/systems"
)

// SetSeekPoint makes the player sail for (x, y), in viewport coordinates.
func (g *Game) SetSeekPoint(x, y float64) {
	if !g.playerMap.Has(g.player) {
		return
	}
	p := g.playerMap.Get(g.player)
	p.SeekX, p.SeekY = x, y
	p.Seeking = true
}

// ClearSeekPoint stops the player steering.
func (g *Game) ClearSeekPoint() {
	if g.playerMap.Has(g.player) {
		g.playerMap.Get(g.player).Seeking = false
	}
}

// SetAim sets the point the camera tracks and the player's guns train on.
func (g *Game) SetAim(x, y float64) {
	g.aim = r2.Vec{X: x, Y: y}
}

// Aim returns the current aim point.
func (g *Game) Aim() r2.Vec {
	return g.aim
}

// TrimSail sets the player's sail to face (x, y).
func (g *Game) TrimSail(x, y float64) {
	if !g.sailMap.Has(g.player) {
		return
	}
	pos := g.posMap.Get(g.player).Vec()
	d := r2.Sub(r2.Vec{X: x, Y: y}, pos)
	if d.X == 0 && d.Y == 0 {
		return
	}
	g.sailMap.Get(g.player).Angle = systems.Heading(d)
}

// FirePlayer fires the player's broadside at the aim point.
func (g *Game) FirePlayer() bool {
	return g.FireAt(g.aim.X, g.aim.Y)
}

// FireAt fires the player's cannon on the side facing (x, y). Returns false
// if that cannon is cooling down or out of ammunition. The volley itself is
// launched during the next ballistics phase.
func (g *Game) FireAt(x, y float64) bool {
	if !g.Alive(g.player) {
		return false
	}
	a := g.playerActor()
	return g.fireBroadside(&a, r2.Vec{X: x, Y: y})
}

// Upgrades carry no cost here; the shop is an outer concern.

// UpgradeHealth raises the player's maximum and current health.
func (g *Game) UpgradeHealth() {
	agent := g.agentMap.Get(g.player)
	agent.BaseHealth += g.cfg.Upgrades.Health
	agent.Health += g.cfg.Upgrades.Health
}

// UpgradeAmmo splits the ammunition upgrade across the player's cannons.
func (g *Game) UpgradeAmmo() {
	per := g.cfg.Upgrades.Ammo / 2
	g.eachPlayerCannon(func(c *components.Cannon) {
		if !c.Unlimited() {
			c.Ammo += per
		}
	})
}

// UpgradeRange extends the reach of both cannons.
func (g *Game) UpgradeRange() {
	g.eachPlayerCannon(func(c *components.Cannon) { c.Range += g.cfg.Upgrades.Range })
}

// UpgradeBalls adds balls to every volley.
func (g *Game) UpgradeBalls() {
	g.eachPlayerCannon(func(c *components.Cannon) { c.BallsPerVolley += g.cfg.Upgrades.Balls })
}

// UpgradeDamage raises per-ball damage.
func (g *Game) UpgradeDamage() {
	g.eachPlayerCannon(func(c *components.Cannon) { c.Damage += g.cfg.Upgrades.Damage })
}

func (g *Game) eachPlayerCannon(fn func(*components.Cannon)) {
	if !g.armMap.Has(g.player) {
		return
	}
	arm := g.armMap.Get(g.player)
	for i := range arm.Cannons {
		fn(&arm.Cannons[i])
	}
}
