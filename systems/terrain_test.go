package systems

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/brine/config"
)

func init() {
	config.MustInit("")
}

// tileNoise classifies by absolute tile coordinate so tests can lay out
// terrain by hand.
type tileNoise func(tx, ty int) float64

func (f tileNoise) Eval2(x, y float64) float64 {
	scale := config.Cfg().Terrain.Scale
	return f(int(math.Round(x/scale)), int(math.Round(y/scale)))
}

// Noise values that classify into each category under the default thresholds.
const (
	vDeep    = 0.30
	vShallow = 0.50
	vSand    = 0.65
	vGrass   = 0.90
)

func uniform(v float64) tileNoise {
	return func(int, int) float64 { return v }
}

func newTestField(noise NoiseSource, spawn config.SpawnConfig) *TerrainField {
	return NewTerrainField(config.Cfg().Terrain, spawn, 20, 20, noise, rand.New(rand.NewSource(1)))
}

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want Terrain
	}{
		{"deep", vDeep, DeepWater},
		{"deep boundary is shallow", 0.45, ShallowWater},
		{"shallow", vShallow, ShallowWater},
		{"sand", vSand, Sand},
		{"sand boundary is grass", 0.72, Grass},
		{"grass", vGrass, Grass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestField(uniform(tt.v), config.SpawnConfig{})
			if got := f.At(3, 4); got != tt.want {
				t.Errorf("At(3,4) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTileRoundTrip(t *testing.T) {
	f := newTestField(uniform(vDeep), config.SpawnConfig{})

	origins := [][2]float64{{0, 0}, {23.5, -7.25}, {-40.1, 100.9}}
	for _, o := range origins {
		f.Update(o[0], o[1])
		for row := 0; row < f.Height(); row++ {
			for col := 0; col < f.Width(); col++ {
				x, y := f.TileCentre(col, row)
				gc, gr := f.WorldToTile(x, y)
				if gc != col || gr != row {
					t.Fatalf("origin %v: WorldToTile(TileCentre(%d,%d)) = (%d,%d)", o, col, row, gc, gr)
				}
			}
		}

		// Any position maps to a tile whose box contains it.
		ts := f.TileSize()
		for _, p := range [][2]float64{{0, 0}, {17.3, 99.99}, {-63.2, 4}} {
			col, row := f.WorldToTile(p[0], p[1])
			x0, y0 := f.TileToWorld(col, row)
			if p[0] < x0 || p[0] >= x0+ts || p[1] < y0 || p[1] >= y0+ts {
				t.Errorf("origin %v: %v not inside tile (%d,%d) at (%.2f,%.2f)", o, p, col, row, x0, y0)
			}
		}
	}
}

func TestRenderOffsetInRange(t *testing.T) {
	f := newTestField(uniform(vDeep), config.SpawnConfig{})
	ts := f.TileSize()

	for _, o := range []float64{0, 5, 16, 31.9, -0.5, -16, -33} {
		f.Update(o, o)
		rx, ry := f.RenderOffset()
		if rx < 0 || rx >= ts || ry < 0 || ry >= ts {
			t.Errorf("origin %.1f: render offset (%.2f,%.2f) outside [0,%v)", o, rx, ry, ts)
		}
		tx, _ := f.TileOffset()
		if got := float64(tx)*ts + rx; math.Abs(got-o) > 1e-9 {
			t.Errorf("origin %.1f: decomposition gives %.4f", o, got)
		}
	}
}

func TestDeterministicRegeneration(t *testing.T) {
	cfg := config.Cfg().Terrain
	noise := NewNoise(cfg.Seed, cfg.Octaves, cfg.Falloff)
	ts := float64(cfg.TileSize)

	a := newTestField(noise, config.SpawnConfig{})
	a.Update(10*ts, 10*ts)

	// Reach the same offset by a different path.
	b := newTestField(noise, config.SpawnConfig{})
	for i := 1; i <= 10; i++ {
		b.Update(float64(i)*ts, 0)
	}
	b.Update(10*ts, 10*ts)

	// A fresh noise source with the same seed.
	c := newTestField(NewNoise(cfg.Seed, cfg.Octaves, cfg.Falloff), config.SpawnConfig{})
	c.Update(10*ts, 10*ts)

	for row := 0; row < a.Height(); row++ {
		for col := 0; col < a.Width(); col++ {
			if a.At(col, row) != b.At(col, row) || a.At(col, row) != c.At(col, row) {
				t.Fatalf("tile (%d,%d) differs: %v %v %v", col, row, a.At(col, row), b.At(col, row), c.At(col, row))
			}
		}
	}

	gen := a.Generation()
	a.Generate()
	if a.Generation() != gen+1 {
		t.Errorf("Generation = %d, want %d", a.Generation(), gen+1)
	}
}

func TestUpdateSpawnsExposedEdge(t *testing.T) {
	f := newTestField(uniform(vDeep), config.SpawnConfig{Shark: 1})
	ts := f.TileSize()

	var got []SpawnCandidate
	f.SetSpawnHandler(func(c SpawnCandidate) { got = append(got, c) })

	tests := []struct {
		name      string
		x, y      float64
		regen     bool
		wantCount int
		check     func(c SpawnCandidate) bool
	}{
		{"sub-tile pan", ts / 2, 0, false, 0, nil},
		{"right", ts, 0, true, 20, func(c SpawnCandidate) bool {
			x, _ := f.TileCentre(f.Width()-1, 0)
			return c.X == x
		}},
		{"down", ts, ts, true, 20, func(c SpawnCandidate) bool {
			_, y := f.TileCentre(0, f.Height()-1)
			return c.Y == y
		}},
		{"up and left", 0, 0, true, 40, nil},
		{"unchanged", 0, 0, false, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = got[:0]
			if regen := f.Update(tt.x, tt.y); regen != tt.regen {
				t.Errorf("Update regen = %v, want %v", regen, tt.regen)
			}
			if len(got) != tt.wantCount {
				t.Fatalf("got %d candidates, want %d", len(got), tt.wantCount)
			}
			for _, c := range got {
				if c.Kind != SpawnShark {
					t.Errorf("candidate kind = %v, want Shark", c.Kind)
				}
				if tt.check != nil && !tt.check(c) {
					t.Errorf("candidate %+v not on the exposed edge", c)
				}
			}
		})
	}
}

func TestSpawnKindsByTerrain(t *testing.T) {
	tests := []struct {
		name  string
		v     float64
		spawn config.SpawnConfig
		want  SpawnKind
		none  bool
	}{
		{"deep water shark", vDeep, config.SpawnConfig{Shark: 1}, SpawnShark, false},
		{"deep water ship", vDeep, config.SpawnConfig{EnemyShip: 1}, SpawnEnemyShip, false},
		{"shallow water loot", vShallow, config.SpawnConfig{Loot: 1}, SpawnLoot, false},
		{"shallow water siren", vShallow, config.SpawnConfig{Siren: 1}, SpawnSiren, false},
		{"sand fort", vSand, config.SpawnConfig{Fort: 1}, SpawnFort, false},
		{"grass never spawns", vGrass, config.SpawnConfig{Shark: 1, Fort: 1, Loot: 1}, 0, true},
		{"sand ignores sharks", vSand, config.SpawnConfig{Shark: 1}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestField(uniform(tt.v), tt.spawn)
			var got []SpawnCandidate
			f.SetSpawnHandler(func(c SpawnCandidate) { got = append(got, c) })
			f.SpawnAll()

			if tt.none {
				if len(got) != 0 {
					t.Errorf("got %d candidates, want none", len(got))
				}
				return
			}
			if len(got) != f.Width()*f.Height() {
				t.Fatalf("got %d candidates, want one per tile", len(got))
			}
			if got[0].Kind != tt.want {
				t.Errorf("kind = %v, want %v", got[0].Kind, tt.want)
			}
		})
	}
}

func TestAtClampsAndTerrainAt(t *testing.T) {
	f := newTestField(tileNoise(func(tx, ty int) float64 {
		if tx == 0 && ty == 19 {
			return vGrass
		}
		return vDeep
	}), config.SpawnConfig{})

	if got := f.At(-5, 100); got != Grass {
		t.Errorf("At(-5,100) = %v, want clamped Grass", got)
	}
	if _, ok := f.TerrainAt(-1000, 0); ok {
		t.Error("TerrainAt far off-field reported ok")
	}
	if f.OnField(1e6, 1e6) {
		t.Error("OnField(1e6,1e6) = true")
	}
	if !f.OnField(0, 0) {
		t.Error("OnField(0,0) = false")
	}
}

func TestRandomTile(t *testing.T) {
	t.Run("bounded failure", func(t *testing.T) {
		f := newTestField(uniform(vGrass), config.SpawnConfig{})
		_, _, err := f.RandomTile(DeepWater, nil, 50)
		if !errors.Is(err, ErrNoValidPosition) {
			t.Errorf("err = %v, want ErrNoValidPosition", err)
		}
	})

	t.Run("finds wanted terrain", func(t *testing.T) {
		f := newTestField(tileNoise(func(tx, ty int) float64 {
			if tx < 10 {
				return vDeep
			}
			return vSand
		}), config.SpawnConfig{})

		for i := 0; i < 20; i++ {
			x, y, err := f.RandomTile(DeepWater, nil, 1000)
			if err != nil {
				t.Fatalf("RandomTile: %v", err)
			}
			if got, _ := f.TerrainAt(x, y); got != DeepWater {
				t.Errorf("tile at (%.1f,%.1f) = %v", x, y, got)
			}
		}
	})

	t.Run("respects accept", func(t *testing.T) {
		f := newTestField(uniform(vDeep), config.SpawnConfig{})
		_, _, err := f.RandomTile(DeepWater, func(x, y float64) bool { return false }, 100)
		if !errors.Is(err, ErrNoValidPosition) {
			t.Errorf("err = %v, want ErrNoValidPosition", err)
		}
	})
}

func TestNoiseRange(t *testing.T) {
	n := NewNoise(7, 4, 0.5)
	for i := 0; i < 200; i++ {
		v := n.Eval2(float64(i)*0.37, float64(i)*-0.21)
		if v < 0 || v > 1 {
			t.Fatalf("Eval2 = %f outside [0,1]", v)
		}
	}
	if NewNoise(7, 4, 0.5).Eval2(1.5, 2.5) != n.Eval2(1.5, 2.5) {
		t.Error("same seed gave different values")
	}
}
