package control

import "math"

// Feedforward is a simple permanent-magnet motor model: static friction plus
// a term proportional to velocity.
type Feedforward struct {
	KS float64 // volts to overcome static friction
	KV float64 // volts per unit of velocity
}

// Calculate returns the voltage needed to sustain the given velocity. At zero
// velocity there is nothing to overcome, so the static term is not applied.
func (f Feedforward) Calculate(velocity float64) float64 {
	if velocity == 0 {
		return 0
	}
	return f.KS*sign(velocity) + f.KV*velocity
}

func sign(x float64) float64 {
	if math.Signbit(x) {
		return -1
	}
	return 1
}
