package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/components"
	"github.com/pthm-cable/brine/config"
)

// The test field is 20x20 tiles of 16px with a 5-tile hidden margin, so
// tile (col, row) spans x in [(col-5)*16, (col-4)*16).

func newTestMovement(noise NoiseSource, despawnTicks int) *MovementSystem {
	f := newTestField(noise, config.SpawnConfig{})
	return NewMovementSystem(ecs.NewWorld(), f, config.Cfg().Movement, despawnTicks)
}

type moverParts struct {
	pos    components.Position
	vel    components.Velocity
	force  components.Force
	body   components.Body
	motion components.Motion
	agent  components.Agent
}

func (p *moverParts) mover() *Mover {
	return &Mover{Pos: &p.pos, Vel: &p.vel, Force: &p.force, Body: &p.body, Motion: &p.motion, Agent: &p.agent}
}

func ship(x, y, vx, vy float64) *moverParts {
	return &moverParts{
		pos:   components.Position{X: x, Y: y},
		vel:   components.Velocity{X: vx, Y: vy},
		body:  components.Body{Diameter: 12},
		agent: components.Agent{Category: components.CategoryMaritime, Health: 10, BaseHealth: 10},
	}
}

func TestStepAppliesForce(t *testing.T) {
	s := newTestMovement(uniform(vDeep), 600)
	p := ship(50, 50, 0, 0)
	p.force = components.Force{X: 1, Y: 0.5}

	if res := s.Step(p.mover()); res != StepKeep {
		t.Fatalf("Step = %v, want keep", res)
	}
	if math.Abs(p.pos.X-51) > eps || math.Abs(p.pos.Y-50.5) > eps {
		t.Errorf("pos = %+v, want (51,50.5)", p.pos)
	}
	if p.vel.X != 1 || p.vel.Y != 0.5 {
		t.Errorf("vel = %+v, want (1,0.5)", p.vel)
	}
	if p.force != (components.Force{}) {
		t.Errorf("force not cleared: %+v", p.force)
	}
}

func TestConfineBlocksLand(t *testing.T) {
	tests := []struct {
		name    string
		noise   tileNoise
		start   components.Position
		vel     components.Velocity
		wantPos components.Position
		wantVel components.Velocity
	}{
		{
			name: "moving right into sand",
			noise: func(tx, ty int) float64 {
				if tx >= 12 {
					return vSand
				}
				return vDeep
			},
			start:   components.Position{X: 107, Y: 50},
			vel:     components.Velocity{X: 2, Y: 0.5},
			wantPos: components.Position{X: 106, Y: 50.5},
			wantVel: components.Velocity{X: -2, Y: 0.5},
		},
		{
			name: "moving left into grass",
			noise: func(tx, ty int) float64 {
				if tx <= 8 {
					return vGrass
				}
				return vDeep
			},
			start:   components.Position{X: 69, Y: 50},
			vel:     components.Velocity{X: -2, Y: 0},
			wantPos: components.Position{X: 70, Y: 50},
			wantVel: components.Velocity{X: 2, Y: 0},
		},
		{
			name: "moving down into sand",
			noise: func(tx, ty int) float64 {
				if ty >= 12 {
					return vSand
				}
				return vDeep
			},
			start:   components.Position{X: 50, Y: 107},
			vel:     components.Velocity{X: 0, Y: 2},
			wantPos: components.Position{X: 50, Y: 106},
			wantVel: components.Velocity{X: 0, Y: -2},
		},
		{
			name:    "open water",
			noise:   uniform(vDeep),
			start:   components.Position{X: 107, Y: 50},
			vel:     components.Velocity{X: 2, Y: 0},
			wantPos: components.Position{X: 109, Y: 50},
			wantVel: components.Velocity{X: 2, Y: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestMovement(tt.noise, 600)
			p := ship(tt.start.X, tt.start.Y, tt.vel.X, tt.vel.Y)
			// No look-ahead so only confinement acts.
			p.motion.AwareRadius = 0

			s.Step(p.mover())

			if math.Abs(p.pos.X-tt.wantPos.X) > eps || math.Abs(p.pos.Y-tt.wantPos.Y) > eps {
				t.Errorf("pos = %+v, want %+v", p.pos, tt.wantPos)
			}
			if p.vel != tt.wantVel {
				t.Errorf("vel = %+v, want %+v", p.vel, tt.wantVel)
			}
		})
	}
}

func TestConfineExemptAndLand(t *testing.T) {
	sandRight := tileNoise(func(tx, ty int) float64 {
		if tx >= 12 {
			return vSand
		}
		return vDeep
	})

	t.Run("exempt passes through", func(t *testing.T) {
		s := newTestMovement(sandRight, 600)
		p := ship(107, 50, 2, 0)
		p.agent.TerrainExempt = true
		s.Step(p.mover())
		if p.pos.X != 109 || p.vel.X != 2 {
			t.Errorf("exempt agent was confined: pos %+v vel %+v", p.pos, p.vel)
		}
	})

	t.Run("land agent blocked by water", func(t *testing.T) {
		s := newTestMovement(sandRight, 600)
		// Standing on sand at x=118, moving left toward deep water at x<112.
		p := ship(118, 50, -2, 0)
		p.agent.Category = components.CategoryLand
		s.Step(p.mover())
		if math.Abs(p.pos.X-118) > eps || p.vel.X != 2 {
			t.Errorf("pos %+v vel %+v, want snapped to 118 and reflected", p.pos, p.vel)
		}
	})
}

func TestAvoidTerrainTurns(t *testing.T) {
	tests := []struct {
		name  string
		noise tileNoise
		want  float64 // resulting heading
	}{
		{
			name:  "clear ahead",
			noise: uniform(vDeep),
			want:  0,
		},
		{
			name: "symmetric wall turns positive",
			noise: func(tx, ty int) float64 {
				if tx >= 12 {
					return vSand
				}
				return vDeep
			},
			want: math.Pi / 32,
		},
		{
			name: "land on the negative side",
			noise: func(tx, ty int) float64 {
				if tx >= 12 && ty <= 8 {
					return vSand
				}
				return vDeep
			},
			want: math.Pi / 32,
		},
		{
			name: "land on the positive side",
			noise: func(tx, ty int) float64 {
				if tx >= 12 && ty >= 8 {
					return vSand
				}
				return vDeep
			},
			want: -math.Pi / 32,
		},
		{
			name: "land in the far half of the reach",
			noise: func(tx, ty int) float64 {
				if tx >= 13 {
					return vSand
				}
				return vDeep
			},
			want: math.Pi / 32,
		},
		{
			name: "land past the last straight sample",
			noise: func(tx, ty int) float64 {
				if tx >= 14 {
					return vSand
				}
				return vDeep
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestMovement(tt.noise, 600)
			// Reach = 84 * 0.75 = 63. The straight ray samples at 0, 21 and 42px,
			// the side rays every 4.2px up to 58.8px.
			vel := s.AvoidTerrain(r2.Vec{X: 100, Y: 50}, r2.Vec{X: 1}, 84, components.CategoryMaritime)
			if got := Heading(vel); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("heading = %f, want %f", got, tt.want)
			}
			if math.Abs(r2.Norm(vel)-1) > 1e-9 {
				t.Errorf("speed changed to %f", r2.Norm(vel))
			}
		})
	}
}

func TestAvoidTerrainSkipsSlowAgents(t *testing.T) {
	s := newTestMovement(uniform(vSand), 600)
	v := r2.Vec{X: 0.0005}
	if got := s.AvoidTerrain(r2.Vec{X: 100, Y: 50}, v, 84, components.CategoryWater); got != v {
		t.Errorf("slow agent turned: %v", got)
	}
}

func TestDespawnVersusDeath(t *testing.T) {
	const threshold = 3

	t.Run("despawn after threshold", func(t *testing.T) {
		s := newTestMovement(uniform(vDeep), threshold)
		p := ship(5000, 5000, 0, 0)
		p.agent.Despawnable = true

		for i := 1; i <= threshold; i++ {
			if res := s.Step(p.mover()); res != StepKeep {
				t.Fatalf("tick %d: %v, want keep", i, res)
			}
		}
		if res := s.Step(p.mover()); res != RemoveDespawn {
			t.Errorf("after threshold: %v, want despawn", res)
		}
	})

	t.Run("on-field resets counter", func(t *testing.T) {
		s := newTestMovement(uniform(vDeep), threshold)
		p := ship(5000, 5000, 0, 0)
		p.agent.Despawnable = true
		s.Step(p.mover())
		s.Step(p.mover())

		p.pos = components.Position{X: 50, Y: 50}
		s.Step(p.mover())
		if p.agent.OffFieldTicks != 0 {
			t.Errorf("OffFieldTicks = %d after returning on-field", p.agent.OffFieldTicks)
		}
	})

	t.Run("not despawnable", func(t *testing.T) {
		s := newTestMovement(uniform(vDeep), threshold)
		p := ship(5000, 5000, 0, 0)
		for i := 0; i < threshold*3; i++ {
			if res := s.Step(p.mover()); res != StepKeep {
				t.Fatalf("tick %d: %v, want keep", i, res)
			}
		}
	})

	t.Run("death takes precedence", func(t *testing.T) {
		s := newTestMovement(uniform(vDeep), 0)
		p := ship(5000, 5000, 0, 0)
		p.agent.Despawnable = true
		p.agent.Health = 0
		if res := s.Step(p.mover()); res != RemoveDeath {
			t.Errorf("Step = %v, want death", res)
		}
	})
}

func TestMovementUpdateCollectsRemovals(t *testing.T) {
	f := newTestField(uniform(vDeep), config.SpawnConfig{})
	world := ecs.NewWorld()
	s := NewMovementSystem(world, f, config.Cfg().Movement, 600)
	mapper := ecs.NewMap6[components.Position, components.Velocity, components.Force, components.Body, components.Motion, components.Agent](world)

	alive := ship(50, 50, 1, 0)
	dead := ship(60, 50, 0, 0)
	dead.agent.Health = 0

	mapper.NewEntity(&alive.pos, &alive.vel, &alive.force, &alive.body, &alive.motion, &alive.agent)
	e := mapper.NewEntity(&dead.pos, &dead.vel, &dead.force, &dead.body, &dead.motion, &dead.agent)

	removals := s.Update(world)
	if len(removals) != 1 {
		t.Fatalf("got %d removals, want 1", len(removals))
	}
	if removals[0].Entity != e || removals[0].Result != RemoveDeath {
		t.Errorf("removal = %+v", removals[0])
	}
}
