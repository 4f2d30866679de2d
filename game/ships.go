package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/systems"
)

// WindAlignment measures how well a sail catches the wind, in [0, 1].
// The angle between sail normal and wind is mapped from [0, 2pi] onto
// [-1, 1]; the middle half of that range counts as no alignment.
func WindAlignment(sail, windDir float64) float64 {
	a := systems.Remap(math.Abs(sail-windDir), 0, 2*math.Pi, -1, 1)
	if a >= -0.5 && a <= 0.5 {
		return 0
	}
	return math.Abs(a)
}

// SailScaled rescales a steering force for a sailing ship. The force is
// normalised to maxSpeed*forceMult and, while the ship is below half its
// top speed, further scaled by the sail's wind alignment.
func SailScaled(steer, vel r2.Vec, maxSpeed, forceMult, alignment float64) r2.Vec {
	steer = systems.SetMag(steer, maxSpeed*forceMult)
	if r2.Norm(vel) < maxSpeed/2 {
		steer = r2.Scale(alignment, steer)
	}
	return steer
}

// TurnDirection returns +1 when turning from angle a to angle b is shorter
// clockwise and -1 otherwise. Both angles are in [-pi, pi].
func TurnDirection(a, b float64) int {
	d := math.Mod(b+2*math.Pi-a, 2*math.Pi)
	if d < math.Pi {
		return 1
	}
	return -1
}

// TrimToward turns a sail one step of at most rate radians toward target.
func TrimToward(sail, target, rate float64) float64 {
	return systems.WrapAngle(sail + rate*float64(TurnDirection(sail, target)))
}

// TargetOnRight reports whether target lies to starboard of a ship at pos
// heading along orientation.
func TargetOnRight(pos r2.Vec, orientation, length float64, target r2.Vec) bool {
	bow := r2.Scale(length, systems.FromAngle(orientation))
	return r2.Cross(bow, r2.Sub(target, pos)) > 0
}

// WaterDrag returns the drag force on a hull moving at vel.
func WaterDrag(vel r2.Vec, coeff float64) r2.Vec {
	return r2.Scale(coeff*r2.Norm(vel), systems.Unit(vel))
}
