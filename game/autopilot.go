package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/components"
	"github.com/pthm-cable/brine/systems"
)

const autopilotRetargetSecs = 2.0

// Autopilot plays the player's ship for headless runs: it hunts the nearest
// hostile on the field and fires whenever a broadside bears. Passages are
// planned around land with the route planner. With nothing to hunt it
// cruises to random deep water.
type Autopilot struct {
	retargetTicks int
	countdown     int
	target        ecs.Entity
	hunting       bool
	route         *systems.Route
}

// NewAutopilot creates an autopilot that picks a new target every
// retargetTicks ticks, or sooner when its target is gone.
func NewAutopilot(retargetTicks int) *Autopilot {
	if retargetTicks < 1 {
		retargetTicks = 1
	}
	return &Autopilot{retargetTicks: retargetTicks}
}

// Drive issues this tick's commands.
func (a *Autopilot) Drive(g *Game) {
	if !g.Alive(g.player) {
		return
	}
	pos := g.posMap.Get(g.player).Vec()

	// The camera follows the ship
	g.SetAim(pos.X, pos.Y)
	if g.sailMap.Has(g.player) {
		g.sailMap.Get(g.player).Angle = g.wind.Dir
	}

	a.countdown--
	if a.countdown <= 0 || (a.hunting && !g.Alive(a.target)) {
		a.countdown = a.retargetTicks
		a.retarget(g, pos)
	}
	if !a.hunting {
		return
	}

	tp := g.posMap.Get(a.target).Vec()
	me := g.playerActor()
	if g.broadsideInRange(&me, tp) {
		g.ClearSeekPoint()
		g.FireAt(tp.X, tp.Y)
		return
	}
	a.sailFor(g, pos, tp)
}

// sailFor steers along a planned route toward dest, replanning when the
// terrain or the destination has changed. Without a route the ship heads
// straight for dest.
func (a *Autopilot) sailFor(g *Game, pos, dest r2.Vec) {
	d := g.bodyMap.Get(g.player).Diameter
	if !a.route.Valid(dest, g.terrain.Generation(), 2*d) {
		a.route = g.router.FindRoute(pos, dest, components.CategoryMaritime)
	}
	if a.route == nil {
		g.SetSeekPoint(dest.X, dest.Y)
		return
	}
	wp, _ := a.route.Next(pos, d)
	g.SetSeekPoint(wp.X, wp.Y)
}

func (a *Autopilot) retarget(g *Game, from r2.Vec) {
	a.route = nil
	a.target, a.hunting = nearestHostile(g, from)
	if a.hunting {
		return
	}
	x, y, err := g.terrain.RandomTile(systems.DeepWater, g.OnField, g.cfg.Player.RespawnAttempts)
	if err == nil {
		a.sailFor(g, from, r2.Vec{X: x, Y: y})
	}
}

// shift follows a camera pan.
func (a *Autopilot) shift(dx, dy float64) {
	if a.route != nil {
		a.route.Shift(dx, dy)
	}
}

// nearestHostile finds the closest live hostile agent on the field.
func nearestHostile(g *Game, from r2.Vec) (ecs.Entity, bool) {
	var best ecs.Entity
	bestDist := math.Inf(1)
	found := false

	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, _, _, _, agent := query.Get()
		if !agent.Kind.Hostile() || !agent.Alive() || !g.terrain.OnField(pos.X, pos.Y) {
			continue
		}
		if d := systems.Dist(from, pos.Vec()); d < bestDist {
			best, bestDist, found = query.Entity(), d, true
		}
	}
	return best, found
}

// playerActor bundles the player's components.
func (g *Game) playerActor() actor {
	return actor{
		e:      g.player,
		pos:    g.posMap.Get(g.player),
		vel:    g.velMap.Get(g.player),
		force:  g.forceMap.Get(g.player),
		body:   g.bodyMap.Get(g.player),
		motion: g.motionMap.Get(g.player),
		agent:  g.agentMap.Get(g.player),
	}
}
