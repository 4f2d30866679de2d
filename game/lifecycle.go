package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/components"
	"github.com/pthm-cable/brine/systems"
	"github.com/pthm-cable/brine/telemetry"
)

// doomed is an agent scheduled for removal at the end of a tick.
type doomed struct {
	e      ecs.Entity
	kind   components.Kind
	reason telemetry.RemovalReason
}

// compact removes everything that left play this tick. Structural changes
// are deferred to here because no query may be open while entities are
// removed. Death takes precedence over despawn for the same agent.
func (g *Game) compact(removals []systems.Removal, spent []systems.Spent) {
	g.doomed = g.doomed[:0]

	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, _, _, agent := query.Get()
		if !agent.Alive() {
			g.doomed = append(g.doomed, doomed{e: query.Entity(), kind: agent.Kind, reason: telemetry.ReasonDeath})
		}
	}
	for _, r := range removals {
		if r.Result != systems.RemoveDespawn || !g.world.Alive(r.Entity) || !g.agentMap.Has(r.Entity) {
			continue
		}
		agent := g.agentMap.Get(r.Entity)
		if !agent.Alive() {
			continue
		}
		g.doomed = append(g.doomed, doomed{e: r.Entity, kind: agent.Kind, reason: telemetry.ReasonDespawn})
	}

	for _, d := range g.doomed {
		g.remove(d)
	}

	for _, s := range spent {
		if g.world.Alive(s.Entity) {
			g.world.RemoveEntity(s.Entity)
		}
	}
	for _, e := range g.spentLoot {
		if g.world.Alive(e) {
			g.world.RemoveEntity(e)
		}
	}
	g.spentLoot = g.spentLoot[:0]
}

// remove takes an agent out of the world. The player respawns instead.
// A fort group falls with its main fort; a corner fort leaves its parent's
// list when it goes.
func (g *Game) remove(d doomed) {
	if !g.world.Alive(d.e) {
		return
	}
	pos := *g.posMap.Get(d.e)
	if d.e == g.player {
		if d.reason == telemetry.ReasonDeath {
			g.events = append(g.events, telemetry.NewRemovedEvent(g.tick, d.e, d.kind, d.reason, pos.X, pos.Y))
			g.respawnPlayer()
		}
		return
	}
	if d.e == g.flagship && d.reason == telemetry.ReasonDeath {
		g.flagshipDefeated = true
		slog.Info("flagship defeated", "tick", g.tick)
	}

	if g.parentMap.Has(d.e) {
		children := append([]ecs.Entity(nil), g.parentMap.Get(d.e).Children...)
		for _, c := range children {
			if !g.world.Alive(c) {
				continue
			}
			g.remove(doomed{e: c, kind: g.agentMap.Get(c).Kind, reason: d.reason})
		}
	}
	if g.childMap.Has(d.e) {
		g.detach(g.childMap.Get(d.e).Parent, d.e)
	}

	g.events = append(g.events, telemetry.NewRemovedEvent(g.tick, d.e, d.kind, d.reason, pos.X, pos.Y))
	g.world.RemoveEntity(d.e)
}

// detach drops child from parent's list of children.
func (g *Game) detach(parent, child ecs.Entity) {
	if !g.world.Alive(parent) || !g.parentMap.Has(parent) {
		return
	}
	p := g.parentMap.Get(parent)
	for i, c := range p.Children {
		if c == child {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			return
		}
	}
}

// respawnPlayer restores the player's health, takes the death penalty and
// moves the ship to open deep water away from the flagship's guns.
func (g *Game) respawnPlayer() {
	pc := g.cfg.Player

	agent := g.agentMap.Get(g.player)
	agent.Health = agent.BaseHealth
	agent.Dead = false

	p := g.playerMap.Get(g.player)
	p.Gold -= int(float64(p.Gold) * pc.DeathGoldPenalty)
	p.Deaths++

	pos := g.posMap.Get(g.player)
	x, y, err := g.terrain.RandomTile(systems.DeepWater, g.safeHarbour, pc.RespawnAttempts)
	if err != nil {
		slog.Warn("no respawn position found, respawning in place", "error", err, "attempts", pc.RespawnAttempts)
	} else {
		pos.X, pos.Y = x, y
	}
	g.halt(g.player)

	slog.Info("player respawned",
		"tick", g.tick,
		"x", pos.X,
		"y", pos.Y,
		"deaths", p.Deaths,
		"gold", p.Gold,
	)
	g.events = append(g.events, telemetry.NewRespawnEvent(g.tick, g.player, pos.X, pos.Y))
}

// safeHarbour accepts on-screen points outside the flagship's reach.
func (g *Game) safeHarbour(x, y float64) bool {
	if x <= 0 || y <= 0 || x >= float64(g.cfg.Screen.Width) || y >= float64(g.cfg.Screen.Height) {
		return false
	}
	if !g.Alive(g.flagship) || !g.armMap.Has(g.flagship) {
		return true
	}
	fp := g.posMap.Get(g.flagship).Vec()
	for i := range g.armMap.Get(g.flagship).Cannons {
		c := &g.armMap.Get(g.flagship).Cannons[i]
		if g.ballistics.InRange(c, cannonMuzzle(fp, c), r2.Vec{X: x, Y: y}) {
			return false
		}
	}
	return true
}
