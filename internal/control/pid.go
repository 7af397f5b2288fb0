package control

import "math"

// PID is a discrete PID controller stepped at a fixed period. With continuous
// input enabled the error is computed over the shortest path across the input
// range boundary, which is what a steering loop over [-π, π) needs.
type PID struct {
	Kp float64
	Ki float64
	Kd float64

	period     float64
	continuous bool
	minInput   float64
	maxInput   float64

	positionError float64
	prevError     float64
	totalError    float64
	first         bool
}

func NewPID(kp, ki, kd, period float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		period: period,
		first:  true,
	}
}

// EnableContinuousInput treats min and max as the same point and wraps error
// computation across the boundary.
func (p *PID) EnableContinuousInput(min, max float64) {
	p.continuous = true
	p.minInput = min
	p.maxInput = max
}

// SetGains replaces the controller gains. Accumulated state is kept so a live
// retune does not kick the output.
func (p *PID) SetGains(kp, ki, kd float64) {
	p.Kp = kp
	p.Ki = ki
	p.Kd = kd
}

// Calculate advances the controller by one period and returns the output.
func (p *PID) Calculate(measurement, setpoint float64) float64 {
	err := setpoint - measurement
	if p.continuous {
		bound := (p.maxInput - p.minInput) / 2
		err = inputModulus(err, -bound, bound)
	}
	p.positionError = err

	derivative := 0.0
	if p.first {
		p.first = false
	} else {
		derivative = (err - p.prevError) / p.period
	}
	p.prevError = err

	if p.Ki != 0 {
		p.totalError += err * p.period
	}

	return p.Kp*err + p.Ki*p.totalError + p.Kd*derivative
}

// PositionError returns the (wrapped) error from the last Calculate call.
func (p *PID) PositionError() float64 {
	return p.positionError
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.positionError = 0
	p.prevError = 0
	p.totalError = 0
	p.first = true
}

// inputModulus wraps value into [min, max).
func inputModulus(value, min, max float64) float64 {
	span := max - min
	wrapped := math.Mod(value-min, span)
	if wrapped < 0 {
		wrapped += span
	}
	return wrapped + min
}
