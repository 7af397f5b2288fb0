package plant

import (
	"math"
	"testing"
)

func TestMechanismSteadyState(t *testing.T) {
	m := DriveMechanism()
	integ := NewRK4()

	volts := 6.0
	x := State{0, 0}
	tm := 0.0
	dt := 0.001
	// ~20 time constants
	for i := 0; i < 5000; i++ {
		x = integ.Step(m, x, volts, tm, dt)
		tm += dt
	}

	want := m.Kt / m.Kf * volts
	if math.Abs(x[1]-want)/want > 0.01 {
		t.Errorf("steady-state velocity: got %f, want %f", x[1], want)
	}
	if x[0] <= 0 {
		t.Error("position should accumulate under positive voltage")
	}
}

func TestMechanismCoastDown(t *testing.T) {
	m := TurnMechanism()
	integ := NewRK4()

	x := State{0, 10.0}
	for i := 0; i < 1000; i++ {
		x = integ.Step(m, x, 0, 0, 0.01)
	}
	if math.Abs(x[1]) > 0.01 {
		t.Errorf("velocity should decay to zero with no voltage, got %f", x[1])
	}
}

func TestRK4MoreAccurateThanEuler(t *testing.T) {
	m := DriveMechanism()
	dt := 0.05
	volts := 4.0
	steps := 40

	analytic := func(tm float64) float64 {
		tau := m.J / m.Kf
		return m.Kt / m.Kf * volts * (1 - math.Exp(-tm/tau))
	}

	run := func(integ Integrator) float64 {
		x := State{0, 0}
		tm := 0.0
		for i := 0; i < steps; i++ {
			x = integ.Step(m, x, volts, tm, dt)
			tm += dt
		}
		return math.Abs(x[1] - analytic(tm))
	}

	errEuler := run(NewEuler())
	errRK4 := run(NewRK4())
	if errRK4 >= errEuler {
		t.Errorf("rk4 error %e should beat euler error %e", errRK4, errEuler)
	}
}

func TestStateIsValid(t *testing.T) {
	if !(State{1, 2}).IsValid() {
		t.Error("finite state should be valid")
	}
	if (State{math.NaN()}).IsValid() {
		t.Error("NaN state should be invalid")
	}
	if (State{math.Inf(1)}).IsValid() {
		t.Error("Inf state should be invalid")
	}
}
