package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/config"
)

// SeekMode selects how desired speed is shaped near the target.
type SeekMode uint8

const (
	SeekNormal SeekMode = iota // full speed all the way
	SeekArrive                 // slow to a stop inside the arrival radius
	SeekLunge                  // burst of speed inside the arrival radius
)

// Kinematics is the read-only view of an agent the steering functions need.
type Kinematics struct {
	Pos, Vel     r2.Vec
	MaxSpeed     float64
	Orientation  float64
	ArriveRadius float64
	Diameter     float64
}

// SteeringEngine computes steering forces. It holds only tuning constants;
// every method is a pure function of its arguments except Wander, which
// advances the agent's orientation.
type SteeringEngine struct {
	cfg config.SteeringConfig
}

// NewSteeringEngine creates a steering engine.
func NewSteeringEngine(cfg config.SteeringConfig) *SteeringEngine {
	return &SteeringEngine{cfg: cfg}
}

// Seek returns the force steering k toward target. A target at zero
// distance yields the zero force.
func (s *SteeringEngine) Seek(k Kinematics, target r2.Vec, mode SeekMode) r2.Vec {
	offset := r2.Sub(target, k.Pos)
	d := r2.Norm(offset)
	if d == 0 {
		return r2.Vec{}
	}

	speed := k.MaxSpeed
	if d < k.ArriveRadius {
		switch mode {
		case SeekArrive:
			speed = Remap(d, 0, k.ArriveRadius, 0, k.MaxSpeed)
		case SeekLunge:
			speed = Remap(d, 0, k.ArriveRadius, k.MaxSpeed*s.cfg.LungeMult, r2.Norm(k.Vel))
		}
	}

	desired := r2.Scale(speed/d, offset)
	return r2.Sub(desired, k.Vel)
}

// Flee returns the opposite of a normal seek.
func (s *SteeringEngine) Flee(k Kinematics, target r2.Vec) r2.Vec {
	return r2.Scale(-1, s.Seek(k, target, SeekNormal))
}

// PredictPosition projects a target along its orientation. Orientation is
// used rather than velocity so a stationary target still has a lead point.
func (s *SteeringEngine) PredictPosition(targetPos r2.Vec, targetOrientation float64) r2.Vec {
	return r2.Add(targetPos, r2.Scale(s.cfg.PredictDistance, FromAngle(targetOrientation)))
}

// Pursue seeks the predicted position of a target.
func (s *SteeringEngine) Pursue(k Kinematics, targetPos r2.Vec, targetOrientation float64) r2.Vec {
	return s.Seek(k, s.PredictPosition(targetPos, targetOrientation), SeekNormal)
}

// Evade returns the opposite of Pursue.
func (s *SteeringEngine) Evade(k Kinematics, targetPos r2.Vec, targetOrientation float64) r2.Vec {
	return r2.Scale(-1, s.Pursue(k, targetPos, targetOrientation))
}

// Wander perturbs the orientation by up to spread in either direction and
// returns a max-speed vector along the new heading.
func (s *SteeringEngine) Wander(k *Kinematics, spread float64, rng *rand.Rand) r2.Vec {
	k.Orientation = WrapAngle(k.Orientation + rng.Float64()*spread - rng.Float64()*spread)
	return r2.Scale(k.MaxSpeed, FromAngle(k.Orientation))
}

// Separate steers away from neighbours closer than band, weighting each by
// inverse distance.
func (s *SteeringEngine) Separate(k Kinematics, neighbors []Kinematics, band float64) r2.Vec {
	var sum r2.Vec
	n := 0
	for i := range neighbors {
		away := r2.Sub(k.Pos, neighbors[i].Pos)
		d := r2.Norm(away)
		if d > 0 && d < band {
			sum = r2.Add(sum, r2.Scale(1/(d*d), away))
			n++
		}
	}
	if n == 0 {
		return r2.Vec{}
	}
	sum = r2.Scale(1/float64(n), sum)
	return r2.Sub(SetMag(sum, k.MaxSpeed), k.Vel)
}

// Align steers toward the mean velocity of neighbours within band.
func (s *SteeringEngine) Align(k Kinematics, neighbors []Kinematics, band float64) r2.Vec {
	var sum r2.Vec
	n := 0
	for i := range neighbors {
		d := Dist(k.Pos, neighbors[i].Pos)
		if d > 0 && d < band {
			sum = r2.Add(sum, neighbors[i].Vel)
			n++
		}
	}
	if n == 0 {
		return r2.Vec{}
	}
	sum = r2.Scale(1/float64(n), sum)
	return r2.Sub(SetMag(sum, k.MaxSpeed), k.Vel)
}

// Cohere seeks the centroid of neighbours within band.
func (s *SteeringEngine) Cohere(k Kinematics, neighbors []Kinematics, band float64) r2.Vec {
	var sum r2.Vec
	n := 0
	for i := range neighbors {
		d := Dist(k.Pos, neighbors[i].Pos)
		if d > 0 && d < band {
			sum = r2.Add(sum, neighbors[i].Pos)
			n++
		}
	}
	if n == 0 {
		return r2.Vec{}
	}
	return s.Seek(k, r2.Scale(1/float64(n), sum), SeekNormal)
}

// FlockWeights scales the three flocking terms.
type FlockWeights struct {
	Separation, Alignment, Cohesion float64
}

// DefaultFlockWeights returns the configured flocking weights.
func (s *SteeringEngine) DefaultFlockWeights() FlockWeights {
	return FlockWeights{
		Separation: s.cfg.SeparationW,
		Alignment:  s.cfg.AlignmentW,
		Cohesion:   s.cfg.CohesionW,
	}
}

// Flock combines separation, alignment and cohesion. Bands scale with the
// agent's diameter. With no neighbour inside any band the result is exactly
// zero.
func (s *SteeringEngine) Flock(k Kinematics, neighbors []Kinematics, w FlockWeights) r2.Vec {
	sep := s.Separate(k, neighbors, k.Diameter*s.cfg.SeparationMult)
	ali := s.Align(k, neighbors, k.Diameter*s.cfg.NeighborMult)
	coh := s.Cohere(k, neighbors, k.Diameter*s.cfg.NeighborMult)

	force := r2.Scale(w.Separation, sep)
	force = r2.Add(force, r2.Scale(w.Alignment, ali))
	force = r2.Add(force, r2.Scale(w.Cohesion, coh))
	return force
}
