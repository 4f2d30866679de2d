package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/components"
	"github.com/pthm-cable/brine/systems"
)

// TerrainAt returns the terrain under a viewport point.
func (g *Game) TerrainAt(x, y float64) (systems.Terrain, bool) {
	return g.terrain.TerrainAt(x, y)
}

// OnField reports whether a viewport point lies on the terrain grid.
func (g *Game) OnField(x, y float64) bool {
	return g.terrain.OnField(x, y)
}

// Neighbors returns the agents registered in the lattice neighbourhood of
// e, e itself included.
func (g *Game) Neighbors(e ecs.Entity) []ecs.Entity {
	if !g.world.Alive(e) || !g.posMap.Has(e) {
		return nil
	}
	pos := g.posMap.Get(e)
	col, row := g.terrain.WorldToTile(pos.X, pos.Y)
	return g.lattice.QueryInto(nil, col, row)
}

// AgentAt returns the live agent whose body is closest to (x, y), within a
// small pick tolerance.
func (g *Game) AgentAt(x, y float64) (ecs.Entity, bool) {
	const tolerance = 5

	var best ecs.Entity
	bestDist := math.Inf(1)
	found := false

	p := r2.Vec{X: x, Y: y}
	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, _, body, _, agent := query.Get()
		if !agent.Alive() {
			continue
		}
		d := systems.Dist(p, pos.Vec())
		if d <= body.Radius()+tolerance && d < bestDist {
			best, bestDist, found = query.Entity(), d, true
		}
	}
	return best, found
}

// Alive reports whether e is a live agent.
func (g *Game) Alive(e ecs.Entity) bool {
	return g.world.Alive(e) && g.agentMap.Has(e) && g.agentMap.Get(e).Alive()
}

// Health returns an agent's current and base health.
func (g *Game) Health(e ecs.Entity) (health, base float64, ok bool) {
	if !g.world.Alive(e) || !g.agentMap.Has(e) {
		return 0, 0, false
	}
	a := g.agentMap.Get(e)
	return a.Health, a.BaseHealth, true
}

// CannonState is a read-only view of one cannon.
type CannonState struct {
	Ammo         int
	Balls        int
	Range        float64
	Damage       float64
	Cooldown     int
	CooldownTime int
	Ready        bool
}

// CannonStates returns the state of each of e's cannons.
func (g *Game) CannonStates(e ecs.Entity) []CannonState {
	if !g.world.Alive(e) || !g.armMap.Has(e) {
		return nil
	}
	arm := g.armMap.Get(e)
	out := make([]CannonState, len(arm.Cannons))
	for i := range arm.Cannons {
		c := &arm.Cannons[i]
		out[i] = CannonState{
			Ammo:         c.Ammo,
			Balls:        c.BallsPerVolley,
			Range:        c.Range,
			Damage:       c.Damage,
			Cooldown:     c.Cooldown,
			CooldownTime: c.CooldownTime,
			Ready:        systems.CanFire(c),
		}
	}
	return out
}

// PlayerState is a read-only view of the player.
type PlayerState struct {
	Entity     ecs.Entity
	X, Y       float64
	Health     float64
	BaseHealth float64
	Gold       int
	Deaths     int
	Sail       float64
	Seeking    bool
}

// Player returns the player's entity.
func (g *Game) Player() ecs.Entity {
	return g.player
}

// PlayerState returns a snapshot of the player.
func (g *Game) PlayerState() PlayerState {
	pos := g.posMap.Get(g.player)
	agent := g.agentMap.Get(g.player)
	p := g.playerMap.Get(g.player)
	s := PlayerState{
		Entity:     g.player,
		X:          pos.X,
		Y:          pos.Y,
		Health:     agent.Health,
		BaseHealth: agent.BaseHealth,
		Gold:       p.Gold,
		Deaths:     p.Deaths,
		Seeking:    p.Seeking,
	}
	if g.sailMap.Has(g.player) {
		s.Sail = g.sailMap.Get(g.player).Angle
	}
	return s
}

// Flagship returns the flagship's entity.
func (g *Game) Flagship() ecs.Entity {
	return g.flagship
}

// FortBoss returns the main fort of the boss group.
func (g *Game) FortBoss() ecs.Entity {
	return g.fortBoss
}

// Wind returns the current weather.
func (g *Game) Wind() Wind {
	return g.wind
}

// FlagshipDefeated reports whether the flagship has been sunk.
func (g *Game) FlagshipDefeated() bool {
	return g.flagshipDefeated
}

// Count returns the number of live agents of a kind.
func (g *Game) Count(kind components.Kind) int {
	n := 0
	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, _, _, agent := query.Get()
		if agent.Kind == kind && agent.Alive() {
			n++
		}
	}
	return n
}
