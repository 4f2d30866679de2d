package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vector helpers on top of gonum's r2. All of them are safe on the zero
// vector: r2.Unit returns NaN there, so normalisation goes through Unit below.

// Unit returns v scaled to length 1, or the zero vector when v has no length.
func Unit(v r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

// SetMag returns v rescaled to magnitude m. The zero vector stays zero.
func SetMag(v r2.Vec, m float64) r2.Vec {
	return r2.Scale(m, Unit(v))
}

// FromAngle returns the unit vector pointing at angle a.
func FromAngle(a float64) r2.Vec {
	return r2.Vec{X: math.Cos(a), Y: math.Sin(a)}
}

// Heading returns the angle of v in [-Pi, Pi].
func Heading(v r2.Vec) float64 {
	return math.Atan2(v.Y, v.X)
}

// Rotate rotates v by a radians around the origin.
func Rotate(v r2.Vec, a float64) r2.Vec {
	return r2.Rotate(v, a, r2.Vec{})
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// WrapAngle wraps an angle into [-Pi, Pi] exactly modulo 2*Pi.
func WrapAngle(a float64) float64 {
	return math.Remainder(a, 2*math.Pi)
}

// Remap linearly maps v from [a0, a1] to [b0, b1] without clamping.
func Remap(v, a0, a1, b0, b1 float64) float64 {
	if a1 == a0 {
		return b0
	}
	return b0 + (b1-b0)*(v-a0)/(a1-a0)
}

// circleIntersectsRect reports whether a circle overlaps an axis-aligned box
// using the closest point on the box to the circle centre.
func circleIntersectsRect(cx, cy, r, minX, minY, maxX, maxY float64) bool {
	closestX := math.Max(minX, math.Min(cx, maxX))
	closestY := math.Max(minY, math.Min(cy, maxY))
	dx := cx - closestX
	dy := cy - closestY
	return dx*dx+dy*dy < r*r
}
