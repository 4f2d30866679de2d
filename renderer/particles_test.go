package renderer

import (
	"testing"

	"github.com/pthm-cable/brine/components"
	"github.com/pthm-cable/brine/systems"
)

func TestParticleLifetime(t *testing.T) {
	r := NewParticleRenderer()
	r.Emit(ParticleSmoke, 10, 10, 4, 2)
	r.Emit(ParticleBlast, 20, 20, 4, 1)
	r.Emit(ParticleSplash, 30, 30, 4, 0)

	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (zero-life particle dropped)", r.Len())
	}
	r.Age()
	if r.Len() != 1 {
		t.Errorf("after one frame Len = %d, want 1", r.Len())
	}
	if r.particles[0].Type != ParticleSmoke || r.particles[0].Life != 1 {
		t.Errorf("survivor = %+v, want smoke with 1 frame left", r.particles[0])
	}
	r.Age()
	if r.Len() != 0 {
		t.Errorf("after two frames Len = %d, want 0", r.Len())
	}
}

func TestParticleShift(t *testing.T) {
	r := NewParticleRenderer()
	r.Emit(ParticleSplash, 10, 10, 4, 5)
	r.Shift(4, -2)
	if p := r.particles[0]; p.X != 6 || p.Y != 12 {
		t.Errorf("shifted particle at (%v,%v), want (6,12)", p.X, p.Y)
	}
}

func TestKindColor(t *testing.T) {
	seen := make(map[[4]uint8]components.Kind)
	for k := components.Kind(0); k < components.NumKinds; k++ {
		c := KindColor(k)
		key := [4]uint8{c.R, c.G, c.B, c.A}
		if prev, dup := seen[key]; dup {
			t.Errorf("kinds %v and %v share a colour", prev, k)
		}
		seen[key] = k
	}
}

func TestTerrainColorDistinct(t *testing.T) {
	terrains := []systems.Terrain{systems.DeepWater, systems.ShallowWater, systems.Sand, systems.Grass}
	for i := range terrains {
		for j := i + 1; j < len(terrains); j++ {
			if TerrainColor(terrains[i]) == TerrainColor(terrains[j]) {
				t.Errorf("%v and %v share a colour", terrains[i], terrains[j])
			}
		}
	}
}
