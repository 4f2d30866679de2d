package components

import "gonum.org/v1/gonum/spatial/r2"

// Position represents an entity's position in viewport-relative pixels.
type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Set assigns the position from a vector.
func (p *Position) Set(v r2.Vec) { p.X, p.Y = v.X, v.Y }

// Velocity represents an entity's velocity in pixels per tick.
type Velocity struct {
	X, Y float64
}

// Vec returns the velocity as a vector.
func (v Velocity) Vec() r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

// Set assigns the velocity from a vector.
func (v *Velocity) Set(u r2.Vec) { v.X, v.Y = u.X, u.Y }

// Force accumulates steering and environmental forces for one tick.
// The integrator adds it to velocity and clears it.
type Force struct {
	X, Y float64
}

// Vec returns the accumulated force as a vector.
func (f Force) Vec() r2.Vec { return r2.Vec{X: f.X, Y: f.Y} }

// Add accumulates a force.
func (f *Force) Add(v r2.Vec) {
	f.X += v.X
	f.Y += v.Y
}

// Reset clears the accumulator.
func (f *Force) Reset() { f.X, f.Y = 0, 0 }
