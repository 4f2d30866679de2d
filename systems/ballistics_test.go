package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/components"
	"github.com/pthm-cable/brine/config"
)

func TestFanShape(t *testing.T) {
	spread := math.Pi / 32
	fan := Fan(r2.Vec{X: 3}, 5, spread)

	wantAngles := []float64{0, -spread, spread, -2 * spread, 2 * spread}
	if len(fan) != len(wantAngles) {
		t.Fatalf("len = %d, want %d", len(fan), len(wantAngles))
	}
	for i, v := range fan {
		if math.Abs(r2.Norm(v)-1) > eps {
			t.Errorf("ball %d not unit: %v", i, v)
		}
		if got := Heading(v); math.Abs(got-wantAngles[i]) > eps {
			t.Errorf("ball %d angle = %f, want %f", i, got, wantAngles[i])
		}
	}

	// Pairs mirror each other about the straight direction.
	for i := 1; i+1 < len(fan); i += 2 {
		if math.Abs(fan[i].X-fan[i+1].X) > eps || math.Abs(fan[i].Y+fan[i+1].Y) > eps {
			t.Errorf("balls %d and %d not symmetric: %v %v", i, i+1, fan[i], fan[i+1])
		}
	}
}

func TestFanZeroStraight(t *testing.T) {
	fan := Fan(r2.Vec{}, 3, 0.1)
	if len(fan) != 3 {
		t.Fatalf("len = %d, want 3", len(fan))
	}
	for i, v := range fan {
		if v != (r2.Vec{}) {
			t.Errorf("ball %d = %v, want zero", i, v)
		}
	}
}

type ballisticsFixture struct {
	world   *ecs.World
	field   *TerrainField
	lattice *Lattice
	sys     *BallisticsSystem
	agents  *ecs.Map4[components.Position, components.Velocity, components.Body, components.Agent]
}

func newBallisticsFixture() *ballisticsFixture {
	cfg := config.Cfg()
	world := ecs.NewWorld()
	field := newTestField(uniform(vDeep), config.SpawnConfig{})
	lattice := NewLattice(field.Width(), field.Height(), cfg.Lattice.Resolution)
	return &ballisticsFixture{
		world:   world,
		field:   field,
		lattice: lattice,
		sys:     NewBallisticsSystem(world, field, lattice, cfg.Ballistics, cfg.Derived.MinProjectileSpeed, 600),
		agents:  ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Agent](world),
	}
}

func (f *ballisticsFixture) addAgent(x, y float64, alliance uint32, health float64) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	body := components.Body{Diameter: 12}
	agent := components.Agent{Alliance: alliance, Health: health, BaseHealth: health}
	e := f.agents.NewEntity(&pos, &vel, &body, &agent)
	col, row := f.field.WorldToTile(x, y)
	f.lattice.Register(e, col, row)
	return e
}

func (f *ballisticsFixture) agent(e ecs.Entity) *components.Agent {
	return ecs.NewMap[components.Agent](f.world).Get(e)
}

func TestFireGuards(t *testing.T) {
	f := newBallisticsFixture()

	tests := []struct {
		name         string
		cannon       components.Cannon
		wantOK       bool
		wantAmmo     int
		wantCooldown int
	}{
		{"ready", components.Cannon{Ammo: 3, BallsPerVolley: 3, Range: 1, Damage: 10, CooldownTime: 120}, true, 2, 120},
		{"no ammo", components.Cannon{Ammo: 0, BallsPerVolley: 1, Range: 1, CooldownTime: 120}, false, 0, 0},
		{"cooling down", components.Cannon{Ammo: 3, BallsPerVolley: 1, Range: 1, CooldownTime: 120, Cooldown: 5}, false, 3, 5},
		{"unlimited", components.Cannon{Ammo: -1, BallsPerVolley: 9, Range: 4, CooldownTime: 360}, true, -1, 360},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.cannon
			shots, ok := f.sys.Fire(&c, r2.Vec{}, r2.Vec{X: 100}, r2.Vec{})
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if c.Ammo != tt.wantAmmo || c.Cooldown != tt.wantCooldown {
				t.Errorf("ammo/cooldown = %d/%d, want %d/%d", c.Ammo, c.Cooldown, tt.wantAmmo, tt.wantCooldown)
			}
			if !ok {
				if shots != nil {
					t.Errorf("rejected fire returned %d shots", len(shots))
				}
				return
			}
			if len(shots) != c.BallsPerVolley {
				t.Errorf("got %d shots, want %d", len(shots), c.BallsPerVolley)
			}
		})
	}
}

func TestFireVelocity(t *testing.T) {
	f := newBallisticsFixture()
	cfg := config.Cfg().Ballistics

	c := components.Cannon{Ammo: 1, BallsPerVolley: 1, Range: 2, Damage: 7, Diameter: 8, CooldownTime: 10}
	carrier := r2.Vec{X: 0, Y: 0.5}
	shots, ok := f.sys.Fire(&c, r2.Vec{X: 10, Y: 10}, r2.Vec{X: 110, Y: 10}, carrier)
	if !ok {
		t.Fatal("Fire rejected a ready cannon")
	}

	s := shots[0]
	wantVX := cfg.ProjectileSpeed * 2
	if math.Abs(s.Vel.X-wantVX) > eps || math.Abs(s.Vel.Y-0.5) > eps {
		t.Errorf("vel = %v, want (%f,0.5)", s.Vel, wantVX)
	}
	if s.Pos != (r2.Vec{X: 10, Y: 10}) || s.Damage != 7 || s.Diameter != 8*cfg.BallSizeMult {
		t.Errorf("shot = %+v", s)
	}
}

func TestTickCooldown(t *testing.T) {
	c := components.Cannon{Ammo: 1, CooldownTime: 2}
	c.Cooldown = 2

	TickCooldown(&c)
	TickCooldown(&c)
	TickCooldown(&c)
	if c.Cooldown != 0 {
		t.Errorf("Cooldown = %d, want 0", c.Cooldown)
	}
	if !CanFire(&c) {
		t.Error("cooled cannon with ammo cannot fire")
	}
}

func TestRangeRadius(t *testing.T) {
	f := newBallisticsFixture()
	c := components.Cannon{Range: 2}

	if got := f.sys.RangeRadius(&c); got != 160 {
		t.Errorf("RangeRadius = %f, want 160", got)
	}
	if !f.sys.InRange(&c, r2.Vec{}, r2.Vec{X: 160}) {
		t.Error("target on the range radius should be in range")
	}
	if f.sys.InRange(&c, r2.Vec{}, r2.Vec{X: 160.01}) {
		t.Error("target beyond the range radius reported in range")
	}
}

func TestStepProjectileDrag(t *testing.T) {
	f := newBallisticsFixture()

	t.Run("drag slows", func(t *testing.T) {
		pos := components.Position{X: 0, Y: 0}
		vel := components.Velocity{X: 1, Y: 0}
		var proj components.Projectile
		if _, done := f.sys.StepProjectile(&pos, &vel, &proj); done {
			t.Fatal("fast projectile removed")
		}
		if math.Abs(vel.X-0.99) > eps || math.Abs(pos.X-0.99) > eps {
			t.Errorf("vel %.4f pos %.4f, want 0.99 both", vel.X, pos.X)
		}
	})

	t.Run("slow projectile stalls", func(t *testing.T) {
		pos := components.Position{}
		vel := components.Velocity{X: 0.1}
		var proj components.Projectile
		fate, done := f.sys.StepProjectile(&pos, &vel, &proj)
		if !done || fate != FateStalled {
			t.Errorf("fate = %v done = %v, want stalled", fate, done)
		}
	})

	t.Run("off-field despawns", func(t *testing.T) {
		sys := NewBallisticsSystem(f.world, f.field, f.lattice, config.Cfg().Ballistics, 0.1, 1)
		pos := components.Position{X: 5000}
		vel := components.Velocity{X: 1}
		var proj components.Projectile
		if _, done := sys.StepProjectile(&pos, &vel, &proj); done {
			t.Fatal("removed on first off-field tick")
		}
		fate, done := sys.StepProjectile(&pos, &vel, &proj)
		if !done || fate != FateDespawn {
			t.Errorf("fate = %v done = %v, want despawn", fate, done)
		}
	})
}

func TestProjectileCollisions(t *testing.T) {
	t.Run("owner is immune", func(t *testing.T) {
		f := newBallisticsFixture()
		owner := f.addAgent(50, 50, 0, 10)
		f.sys.spawn(owner, 0, ShotSpec{Pos: r2.Vec{X: 50, Y: 50}, Vel: r2.Vec{X: 0.5}, Diameter: 4, Damage: 5})

		res := f.sys.Update(f.world)
		if len(res.Impacts) != 0 {
			t.Errorf("got %d impacts, want 0", len(res.Impacts))
		}
		if f.agent(owner).Health != 10 {
			t.Errorf("owner health = %f", f.agent(owner).Health)
		}
	})

	t.Run("allies are immune", func(t *testing.T) {
		f := newBallisticsFixture()
		owner := f.addAgent(20, 50, 7, 10)
		ally := f.addAgent(52, 50, 7, 10)
		f.sys.spawn(owner, 7, ShotSpec{Pos: r2.Vec{X: 50, Y: 50}, Vel: r2.Vec{X: 0.5}, Diameter: 4, Damage: 5})

		res := f.sys.Update(f.world)
		if len(res.Impacts) != 0 || f.agent(ally).Health != 10 {
			t.Errorf("ally was hit: impacts %d health %f", len(res.Impacts), f.agent(ally).Health)
		}
	})

	t.Run("hit floors health and kills", func(t *testing.T) {
		f := newBallisticsFixture()
		owner := f.addAgent(20, 50, 0, 10)
		target := f.addAgent(52, 50, 0, 10)
		f.sys.spawn(owner, 0, ShotSpec{Pos: r2.Vec{X: 50, Y: 50}, Vel: r2.Vec{X: 0.5}, Diameter: 4, Damage: 25})

		res := f.sys.Update(f.world)
		if len(res.Impacts) != 1 {
			t.Fatalf("got %d impacts, want 1", len(res.Impacts))
		}
		imp := res.Impacts[0]
		if imp.Target != target || !imp.Killed || imp.Owner != owner {
			t.Errorf("impact = %+v", imp)
		}
		a := f.agent(target)
		if a.Health != 0 || !a.Dead {
			t.Errorf("target health %f dead %v, want 0 and dead", a.Health, a.Dead)
		}
		if len(res.Spent) != 1 || res.Spent[0].Fate != FateImpact {
			t.Errorf("spent = %+v", res.Spent)
		}
	})

	t.Run("one strike per projectile", func(t *testing.T) {
		f := newBallisticsFixture()
		owner := f.addAgent(20, 50, 0, 10)
		a := f.addAgent(52, 50, 0, 10)
		b := f.addAgent(51, 51, 0, 10)
		f.sys.spawn(owner, 0, ShotSpec{Pos: r2.Vec{X: 50, Y: 50}, Vel: r2.Vec{X: 0.5}, Diameter: 4, Damage: 3})

		res := f.sys.Update(f.world)
		if len(res.Impacts) != 1 {
			t.Fatalf("got %d impacts, want 1", len(res.Impacts))
		}
		total := f.agent(a).Health + f.agent(b).Health
		if total != 17 {
			t.Errorf("combined health = %f, want 17", total)
		}

		// The spent projectile does nothing further.
		res = f.sys.Update(f.world)
		if len(res.Impacts) != 0 {
			t.Errorf("spent projectile struck again")
		}
	})
}

func TestFireRequests(t *testing.T) {
	f := newBallisticsFixture()
	owner := f.addAgent(50, 50, 3, 10)
	arm := components.Armament{Cannons: []components.Cannon{
		{Ammo: 2, BallsPerVolley: 3, Range: 1, Damage: 5, Diameter: 6, CooldownTime: 60},
	}}
	ecs.NewMap[components.Armament](f.world).Add(owner, &arm)

	f.sys.Request(FireRequest{Owner: owner, Cannon: 0, Target: r2.Vec{X: 150, Y: 50}})
	f.sys.Request(FireRequest{Owner: owner, Cannon: 0, Target: r2.Vec{X: 150, Y: 50}})
	f.sys.Request(FireRequest{Owner: owner, Cannon: 5, Target: r2.Vec{X: 150, Y: 50}})

	res := f.sys.Update(f.world)
	if len(res.Volleys) != 1 {
		t.Fatalf("got %d volleys, want 1", len(res.Volleys))
	}
	if res.Volleys[0].Balls != 3 {
		t.Errorf("balls = %d, want 3", res.Volleys[0].Balls)
	}

	c := ecs.NewMap[components.Armament](f.world).Get(owner).Cannons[0]
	if c.Ammo != 1 || c.Cooldown != 60 {
		t.Errorf("cannon ammo/cooldown = %d/%d, want 1/60", c.Ammo, c.Cooldown)
	}

	filter := ecs.NewFilter1[components.Projectile](f.world)
	n := 0
	query := filter.Query()
	for query.Next() {
		p := query.Get()
		if p.Owner != owner || p.Alliance != 3 {
			t.Errorf("projectile = %+v", *p)
		}
		n++
	}
	if n != 3 {
		t.Errorf("spawned %d projectiles, want 3", n)
	}

	// Requests do not carry over between ticks.
	if res := f.sys.Update(f.world); len(res.Volleys) != 0 {
		t.Errorf("stale request fired again")
	}
}

func TestApplyDamage(t *testing.T) {
	a := components.Agent{Health: 10, BaseHealth: 10}

	if ApplyDamage(&a, 4) {
		t.Error("non-lethal hit reported a kill")
	}
	if a.Health != 6 {
		t.Errorf("Health = %f, want 6", a.Health)
	}
	if !ApplyDamage(&a, 100) {
		t.Error("lethal hit not reported")
	}
	if a.Health != 0 || !a.Dead {
		t.Errorf("Health = %f Dead = %v, want 0 and dead", a.Health, a.Dead)
	}
	if ApplyDamage(&a, 1) {
		t.Error("dead agent killed twice")
	}
}

func TestSuccessiveHitsFloorAtZero(t *testing.T) {
	tests := []struct {
		name       string
		health     float64
		wantHits   int
		killingHit int
	}{
		{"first hit is lethal", 10, 1, 0},
		{"third hit is lethal", 25, 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBallisticsFixture()
			owner := f.addAgent(20, 50, 0, 10)
			target := f.addAgent(52, 50, 0, tt.health)
			f.agent(target).BaseHealth = 50

			hits := 0
			for i := range 3 {
				f.sys.spawn(owner, 0, ShotSpec{Pos: r2.Vec{X: 50, Y: 50}, Vel: r2.Vec{X: 0.5}, Diameter: 4, Damage: 10})
				res := f.sys.Update(f.world)
				for _, imp := range res.Impacts {
					if imp.Target != target {
						continue
					}
					if imp.Killed != (hits == tt.killingHit) {
						t.Errorf("shot %d: killed = %v", i, imp.Killed)
					}
					hits++
				}
				if h := f.agent(target).Health; h < 0 {
					t.Fatalf("shot %d: health %f below zero", i, h)
				}
			}

			if hits != tt.wantHits {
				t.Errorf("registered %d hits, want %d", hits, tt.wantHits)
			}
			a := f.agent(target)
			if a.Health != 0 || !a.Dead {
				t.Errorf("health %f dead %v, want 0 and dead", a.Health, a.Dead)
			}
		})
	}
}

func TestVolleyNeverStrikesItsOwner(t *testing.T) {
	f := newBallisticsFixture()
	owner := f.addAgent(50, 50, 0, 10)
	arm := components.Armament{Cannons: []components.Cannon{
		{Ammo: -1, BallsPerVolley: 2, Range: 1, Damage: 5, Diameter: 6, CooldownTime: 60},
	}}
	ecs.NewMap[components.Armament](f.world).Add(owner, &arm)

	f.sys.Request(FireRequest{Owner: owner, Cannon: 0, Target: r2.Vec{X: 150, Y: 50}})

	for tick := range 4 {
		res := f.sys.Update(f.world)
		if tick == 0 && (len(res.Volleys) != 1 || res.Volleys[0].Balls != 2) {
			t.Fatalf("volleys = %+v, want one of two balls", res.Volleys)
		}
		if len(res.Impacts) != 0 {
			t.Errorf("tick %d: %d impacts on an overlapping owner", tick, len(res.Impacts))
		}
	}

	// Both balls are still inside the owner's circle.
	posMap := ecs.NewMap[components.Position](f.world)
	filter := ecs.NewFilter1[components.Projectile](f.world)
	n := 0
	query := filter.Query()
	for query.Next() {
		if d := Dist(posMap.Get(query.Entity()).Vec(), r2.Vec{X: 50, Y: 50}); d > 6+3 {
			t.Errorf("projectile %d is %f from the owner, want overlap", n, d)
		}
		n++
	}
	if n != 2 {
		t.Errorf("got %d projectiles, want 2", n)
	}
	if f.agent(owner).Health != 10 {
		t.Errorf("owner health = %f, want 10", f.agent(owner).Health)
	}
}

func TestProjectileSlowsUntilStalled(t *testing.T) {
	f := newBallisticsFixture()
	minSpeed := config.Cfg().Derived.MinProjectileSpeed
	e := f.sys.spawn(ecs.Entity{}, 0, ShotSpec{Pos: r2.Vec{X: 50, Y: 50}, Vel: r2.Vec{X: 2 * minSpeed}, Diameter: 4})
	velMap := ecs.NewMap[components.Velocity](f.world)

	prev := r2.Norm(velMap.Get(e).Vec())
	for tick := 1; tick <= 500; tick++ {
		res := f.sys.Update(f.world)
		speed := r2.Norm(velMap.Get(e).Vec())
		if speed > prev {
			t.Fatalf("tick %d: speed rose from %f to %f", tick, prev, speed)
		}

		stalled := len(res.Spent) == 1 && res.Spent[0].Entity == e && res.Spent[0].Fate == FateStalled
		if speed < minSpeed {
			if !stalled {
				t.Fatalf("tick %d: speed %f below minimum but not removed", tick, speed)
			}
			if prev < minSpeed {
				t.Fatalf("tick %d: removal came late", tick)
			}
			return
		}
		if len(res.Spent) != 0 {
			t.Fatalf("tick %d: removed at speed %f", tick, speed)
		}
		prev = speed
	}
	t.Fatal("projectile never stalled")
}
