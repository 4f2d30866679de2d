package game

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/systems"
)

// Wind is the global weather acting on sails.
type Wind struct {
	Dir      float64 // radians in [-pi, pi)
	Strength float64 // [0, 1)
}

// Reroll draws a new direction and strength.
func (w *Wind) Reroll(rng *rand.Rand) {
	w.Dir = rng.Float64()*2*math.Pi - math.Pi
	w.Strength = rng.Float64()
}

// Update re-rolls the wind with probability changeProb. Returns true if the
// wind changed.
func (w *Wind) Update(rng *rand.Rand, changeProb float64) bool {
	if rng.Float64() >= changeProb {
		return false
	}
	w.Reroll(rng)
	return true
}

// Force returns the wind force on a sail with the given alignment.
func (w Wind) Force(alignment, scale float64) r2.Vec {
	return r2.Scale(w.Strength*scale*alignment, systems.FromAngle(w.Dir))
}
