package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/components"
	"github.com/pthm-cable/brine/config"
)

// StepResult reports whether an agent should leave the world after a step.
type StepResult uint8

const (
	StepKeep StepResult = iota
	RemoveDespawn
	RemoveDeath
)

// String returns the display name of a step result.
func (r StepResult) String() string {
	switch r {
	case StepKeep:
		return "keep"
	case RemoveDespawn:
		return "despawn"
	case RemoveDeath:
		return "death"
	}
	return "unknown"
}

// Mover bundles the components one integration step touches.
type Mover struct {
	Pos    *components.Position
	Vel    *components.Velocity
	Force  *components.Force
	Body   *components.Body
	Motion *components.Motion
	Agent  *components.Agent
}

// Removal is an agent flagged by a movement pass.
type Removal struct {
	Entity ecs.Entity
	Result StepResult
}

// MovementSystem integrates agent motion against the terrain.
type MovementSystem struct {
	filter       ecs.Filter6[components.Position, components.Velocity, components.Force, components.Body, components.Motion, components.Agent]
	terrain      *TerrainField
	cfg          config.MovementConfig
	despawnTicks int

	removals []Removal
}

// NewMovementSystem creates a movement system. despawnTicks is the number of
// off-field ticks a despawnable agent may linger.
func NewMovementSystem(w *ecs.World, terrain *TerrainField, cfg config.MovementConfig, despawnTicks int) *MovementSystem {
	return &MovementSystem{
		filter:       *ecs.NewFilter6[components.Position, components.Velocity, components.Force, components.Body, components.Motion, components.Agent](w),
		terrain:      terrain,
		cfg:          cfg,
		despawnTicks: despawnTicks,
	}
}

// Update steps every agent and returns those that should be removed. The
// returned slice is reused on the next call.
func (s *MovementSystem) Update(w *ecs.World) []Removal {
	s.removals = s.removals[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, vel, force, body, motion, agent := query.Get()
		m := Mover{Pos: pos, Vel: vel, Force: force, Body: body, Motion: motion, Agent: agent}
		if res := s.Step(&m); res != StepKeep {
			s.removals = append(s.removals, Removal{Entity: query.Entity(), Result: res})
		}
	}
	return s.removals
}

// Step applies pending force, steers around terrain, moves, resolves tile
// collisions and updates despawn bookkeeping.
func (s *MovementSystem) Step(m *Mover) StepResult {
	pos := m.Pos.Vec()
	vel := r2.Add(m.Vel.Vec(), m.Force.Vec())
	m.Force.Reset()

	exempt := m.Agent.TerrainExempt
	if !exempt && s.terrain.OnField(pos.X, pos.Y) {
		vel = s.AvoidTerrain(pos, vel, m.Motion.AwareRadius, m.Agent.Category)
	}

	pos = r2.Add(pos, vel)

	onField := s.terrain.OnField(pos.X, pos.Y)
	if !exempt && onField {
		pos, vel, _ = s.Confine(pos, vel, m.Body.Radius(), m.Agent.Category)
	}

	m.Pos.Set(pos)
	m.Vel.Set(vel)

	despawn := false
	if m.Agent.Despawnable {
		despawn = Linger(&m.Agent.OffFieldTicks, onField, s.despawnTicks)
	}

	if !m.Agent.Alive() {
		return RemoveDeath
	}
	if despawn {
		return RemoveDespawn
	}
	return StepKeep
}

// Linger advances an off-field counter and reports whether it has passed
// the threshold. The counter resets whenever the object is on-field.
func Linger(counter *int, onField bool, threshold int) bool {
	if onField {
		*counter = 0
		return false
	}
	*counter++
	return *counter > threshold
}

// avoidedTerrain is the category an agent steers away from before it blocks.
func avoidedTerrain(cat components.Category) Terrain {
	if cat == components.CategoryLand {
		return ShallowWater
	}
	return Sand
}

// blocks reports whether a tile is impassable for the category.
func blocks(cat components.Category, t Terrain) bool {
	if cat == components.CategoryLand {
		return t.IsWater()
	}
	return t.IsLand()
}

// AvoidTerrain casts a short ray along the velocity and, if it meets terrain
// the agent avoids, compares two side rays and turns the velocity away from
// the side with more hits.
func (s *MovementSystem) AvoidTerrain(pos, vel r2.Vec, awareRadius float64, cat components.Category) r2.Vec {
	if r2.Norm(vel) <= s.cfg.MinAvoidSpeed {
		return vel
	}

	avoid := avoidedTerrain(cat)
	reach := awareRadius * s.cfg.AvoidReachMult
	n := s.cfg.AvoidSamples
	dir := Unit(vel)

	if s.rayHits(pos, dir, reach, n/4, avoid) == 0 {
		return vel
	}

	right := s.rayHits(pos, Rotate(dir, s.cfg.AvoidProbeAngle), reach, n, avoid)
	left := s.rayHits(pos, Rotate(dir, -s.cfg.AvoidProbeAngle), reach, n, avoid)

	if left >= right {
		return Rotate(vel, s.cfg.AvoidTurnAngle)
	}
	return Rotate(vel, -s.cfg.AvoidTurnAngle)
}

// rayHits counts samples of the avoided terrain along dir. The count
// samples sit at i*reach/count for i in 0..count-1, so every ray spans the
// full reach whatever its density. Off-field samples never hit.
func (s *MovementSystem) rayHits(pos, dir r2.Vec, reach float64, count int, avoid Terrain) int {
	if count <= 0 {
		return 0
	}
	step := reach / float64(count)
	hits := 0
	for i := range count {
		p := r2.Add(pos, r2.Scale(float64(i)*step, dir))
		if t, ok := s.terrain.TerrainAt(p.X, p.Y); ok && t == avoid {
			hits++
		}
	}
	return hits
}

// Confine resolves overlap with blocking tiles along the dominant velocity
// axis. The agent's own tile and the three tiles ahead of it are tested;
// any blocking tile overlapping the circle snaps the centre back to the
// nearest clear edge and reflects that velocity component. Returns the
// corrected position and velocity, and whether a collision occurred.
func (s *MovementSystem) Confine(pos, vel r2.Vec, radius float64, cat components.Category) (r2.Vec, r2.Vec, bool) {
	if vel.X == 0 && vel.Y == 0 {
		return pos, vel, false
	}
	col, row := s.terrain.WorldToTile(pos.X, pos.Y)
	ts := s.terrain.TileSize()

	horizontal := math.Abs(vel.X) >= math.Abs(vel.Y)
	dirStep := 1
	if (horizontal && vel.X < 0) || (!horizontal && vel.Y < 0) {
		dirStep = -1
	}

	hit := false
	snap := 0.0
	try := func(c, r int) {
		if !s.terrain.InBounds(c, r) || !blocks(cat, s.terrain.At(c, r)) {
			return
		}
		minX, minY := s.terrain.TileToWorld(c, r)
		maxX, maxY := minX+ts, minY+ts
		if !circleIntersectsRect(pos.X, pos.Y, radius, minX, minY, maxX, maxY) {
			return
		}

		var v float64
		switch {
		case horizontal && dirStep < 0:
			v = maxX + radius
		case horizontal:
			v = minX - radius
		case dirStep < 0:
			v = maxY + radius
		default:
			v = minY - radius
		}
		// Keep the snap that clears every overlapping tile.
		if !hit || (dirStep < 0 && v > snap) || (dirStep > 0 && v < snap) {
			snap = v
		}
		hit = true
	}

	try(col, row)
	for d := -1; d <= 1; d++ {
		if horizontal {
			try(col+dirStep, row+d)
		} else {
			try(col+d, row+dirStep)
		}
	}

	if !hit {
		return pos, vel, false
	}
	if horizontal {
		pos.X = snap
		vel.X = -vel.X
	} else {
		pos.Y = snap
		vel.Y = -vel.Y
	}
	return pos, vel, true
}
