package plant

// Mechanism is a voltage-driven rotational mechanism: a permanent-magnet DC
// motor through its gearbox, reduced to torque constant Kt, viscous friction
// Kf and inertia J. State is [position rad, velocity rad/s].
//
//	dθ/dt = ω
//	dω/dt = (Kt·V − Kf·ω) / J
//
// Steady-state velocity under constant voltage is (Kt/Kf)·V, so the effective
// kV of the mechanism is Kf/Kt.
type Mechanism struct {
	Kt float64
	Kf float64
	J  float64
}

func (m *Mechanism) Derivative(x State, volts float64, t float64) State {
	return State{x[1], (m.Kt*volts - m.Kf*x[1]) / m.J}
}

func (m *Mechanism) Dim() int { return 2 }

// KV returns the steady-state volts per rad/s of the mechanism.
func (m *Mechanism) KV() float64 {
	return m.Kf / m.Kt
}

// TurnMechanism returns the steering stack. With the default turn kP of 10
// the closed loop sits near critical damping at ~10 rad/s, comfortably under
// the 50 Hz control rate.
func TurnMechanism() *Mechanism {
	return &Mechanism{Kt: 0.2, Kf: 0.28, J: 0.02}
}

// DriveMechanism returns the drive stack. Kf/Kt is close to the sim drive kV
// default so feedforward alone nearly holds a velocity setpoint.
func DriveMechanism() *Mechanism {
	return &Mechanism{Kt: 1.0, Kf: 0.1, J: 0.025}
}
