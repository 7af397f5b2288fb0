// Package plant provides the simulated mechanisms a module controller is
// exercised against: a state vector, an ODE interface, and fixed-step
// integrators.
package plant

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Dynamics is an ODE dX/dt = f(X, volts, t) driven by a single voltage input.
type Dynamics interface {
	Derivative(x State, volts float64, t float64) State
	Dim() int
}

type Integrator interface {
	Step(dyn Dynamics, x State, volts float64, t, dt float64) State
}
