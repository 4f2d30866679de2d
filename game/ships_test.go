package game

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/config"
)

const eps = 1e-9

func init() {
	config.MustInit("")
}

func TestWindAlignment(t *testing.T) {
	tests := []struct {
		name string
		sail float64
		wind float64
		want float64
	}{
		{"square to the wind", 1, 1, 1},
		{"small offset", 0.2, 0, 1 - 0.2/math.Pi},
		{"quarter turn", math.Pi / 2, 0, 0},
		{"against the wind", math.Pi, 0, 0},
		{"three quarter turn", 0, 3 * math.Pi / 2, 0},
		{"nearly full turn", -math.Pi, math.Pi - 0.2, 1 - 0.2/math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WindAlignment(tt.sail, tt.wind); math.Abs(got-tt.want) > eps {
				t.Errorf("WindAlignment(%v, %v) = %v, want %v", tt.sail, tt.wind, got, tt.want)
			}
		})
	}
}

func TestSailScaled(t *testing.T) {
	steer := r2.Vec{X: 3, Y: 4}

	slow := SailScaled(steer, r2.Vec{}, 2, 0.5, 0.5)
	if math.Abs(slow.X-0.3) > eps || math.Abs(slow.Y-0.4) > eps {
		t.Errorf("slow ship: got %v, want (0.3,0.4)", slow)
	}

	fast := SailScaled(steer, r2.Vec{X: 2, Y: 0}, 2, 0.5, 0.5)
	if math.Abs(fast.X-0.6) > eps || math.Abs(fast.Y-0.8) > eps {
		t.Errorf("fast ship: got %v, want (0.6,0.8)", fast)
	}

	if z := SailScaled(r2.Vec{}, r2.Vec{}, 2, 0.5, 1); z != (r2.Vec{}) {
		t.Errorf("zero steer: got %v, want zero", z)
	}
}

func TestTurnDirection(t *testing.T) {
	tests := []struct {
		a, b float64
		want int
	}{
		{0, 1, 1},
		{0, -1, -1},
		{3, -3, 1},
		{-3, 3, -1},
	}

	for _, tt := range tests {
		if got := TurnDirection(tt.a, tt.b); got != tt.want {
			t.Errorf("TurnDirection(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTrimToward(t *testing.T) {
	if got := TrimToward(0, 1, 0.1); math.Abs(got-0.1) > eps {
		t.Errorf("clockwise trim = %v, want 0.1", got)
	}
	if got := TrimToward(0, -1, 0.1); math.Abs(got+0.1) > eps {
		t.Errorf("anticlockwise trim = %v, want -0.1", got)
	}
	// Crossing pi wraps round to the negative side
	if got := TrimToward(3.1, -3.1, 0.1); math.Abs(got-(3.2-2*math.Pi)) > eps {
		t.Errorf("wrapped trim = %v, want %v", got, 3.2-2*math.Pi)
	}
}

func TestTargetOnRight(t *testing.T) {
	pos := r2.Vec{X: 10, Y: 10}

	if !TargetOnRight(pos, 0, 24, r2.Vec{X: 10, Y: 30}) {
		t.Error("heading east, a target below should be to starboard")
	}
	if TargetOnRight(pos, 0, 24, r2.Vec{X: 10, Y: -10}) {
		t.Error("heading east, a target above should be to port")
	}
	if !TargetOnRight(pos, math.Pi/2, 24, r2.Vec{X: -10, Y: 10}) {
		t.Error("heading south, a target to the west should be to starboard")
	}
}

func TestWaterDrag(t *testing.T) {
	d := WaterDrag(r2.Vec{X: 3, Y: 4}, -0.01)
	if math.Abs(d.X+0.03) > eps || math.Abs(d.Y+0.04) > eps {
		t.Errorf("WaterDrag = %v, want (-0.03,-0.04)", d)
	}
	if z := WaterDrag(r2.Vec{}, -0.01); z != (r2.Vec{}) {
		t.Errorf("drag at rest = %v, want zero", z)
	}
}

func TestWindUpdate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var w Wind
	w.Reroll(rng)
	if w.Dir < -math.Pi || w.Dir >= math.Pi {
		t.Errorf("direction %v outside [-pi, pi)", w.Dir)
	}
	if w.Strength < 0 || w.Strength >= 1 {
		t.Errorf("strength %v outside [0, 1)", w.Strength)
	}

	before := w
	if w.Update(rng, 0) {
		t.Error("wind changed with zero probability")
	}
	if w != before {
		t.Errorf("wind = %+v, want unchanged %+v", w, before)
	}
	if !w.Update(rng, 1) {
		t.Error("wind did not change with probability one")
	}
}

func TestWindForce(t *testing.T) {
	w := Wind{Dir: math.Pi / 2, Strength: 0.5}
	f := w.Force(0.8, 0.01)
	if math.Abs(f.X) > eps || math.Abs(f.Y-0.004) > eps {
		t.Errorf("Force = %v, want (0,0.004)", f)
	}
	if z := w.Force(0, 0.01); r2.Norm(z) > eps {
		t.Errorf("unaligned sail force = %v, want zero", z)
	}
}
