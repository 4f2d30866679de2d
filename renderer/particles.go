package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// ParticleType selects the look of an effect particle.
type ParticleType uint8

const (
	ParticleSmoke  ParticleType = iota // Muzzle smoke after a volley
	ParticleSplash                     // Ball hitting the water or terrain
	ParticleBlast                      // Ball hitting a hull
)

// Particle is a short-lived visual effect.
type Particle struct {
	X, Y    float32
	Size    float32
	Life    int
	MaxLife int
	Type    ParticleType
}

// ParticleRenderer keeps and renders effect particles.
type ParticleRenderer struct {
	particles []Particle
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Emit adds a particle living for life frames.
func (r *ParticleRenderer) Emit(t ParticleType, x, y, size float32, life int) {
	if life <= 0 {
		return
	}
	r.particles = append(r.particles, Particle{X: x, Y: y, Size: size, Life: life, MaxLife: life, Type: t})
}

// Shift moves every particle by the negative camera pan.
func (r *ParticleRenderer) Shift(dx, dy float32) {
	for i := range r.particles {
		r.particles[i].X -= dx
		r.particles[i].Y -= dy
	}
}

// Age advances every particle one frame and drops the expired, in place.
func (r *ParticleRenderer) Age() {
	n := 0
	for _, p := range r.particles {
		p.Life--
		if p.Life > 0 {
			r.particles[n] = p
			n++
		}
	}
	r.particles = r.particles[:n]
}

// Len returns the number of live particles.
func (r *ParticleRenderer) Len() int {
	return len(r.particles)
}

// Draw renders all particles.
func (r *ParticleRenderer) Draw() {
	for i := range r.particles {
		p := &r.particles[i]

		lifeRatio := float32(p.Life) / float32(p.MaxLife)

		var color rl.Color
		size := p.Size
		switch p.Type {
		case ParticleSmoke:
			color = rl.Color{R: 200, G: 200, B: 200, A: uint8(lifeRatio * 160)}
			size *= 2 - lifeRatio
		case ParticleSplash:
			color = rl.Color{R: 230, G: 240, B: 255, A: uint8(lifeRatio * 200)}
			size *= 2 - lifeRatio
		case ParticleBlast:
			color = rl.Color{R: 255, G: 150, B: 50, A: uint8(lifeRatio * 220)}
			size *= lifeRatio
		}

		if size < 0.5 {
			size = 0.5
		}
		rl.DrawCircle(int32(p.X), int32(p.Y), size, color)
	}
}
