package systems

import (
	"github.com/ojrac/opensimplex-go"
)

// NoiseSource samples deterministic 2D coherent noise in [0, 1].
type NoiseSource interface {
	Eval2(x, y float64) float64
}

// FractalNoise sums octaves of normalized OpenSimplex noise. The sum is
// divided by the total amplitude so the result stays in [0, 1], with values
// clustering around 0.5 as more octaves are added.
type FractalNoise struct {
	base    opensimplex.Noise
	octaves int
	falloff float64
}

// NewNoise creates a seeded fractal noise source. The same seed always
// yields the same field.
func NewNoise(seed int64, octaves int, falloff float64) *FractalNoise {
	if octaves < 1 {
		octaves = 1
	}
	if falloff <= 0 {
		falloff = 0.5
	}
	return &FractalNoise{
		base:    opensimplex.NewNormalized(seed),
		octaves: octaves,
		falloff: falloff,
	}
}

// Eval2 returns the noise value at (x, y).
func (n *FractalNoise) Eval2(x, y float64) float64 {
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for i := 0; i < n.octaves; i++ {
		sum += amp * n.base.Eval2(x*freq, y*freq)
		norm += amp
		amp *= n.falloff
		freq *= 2
	}
	return sum / norm
}
