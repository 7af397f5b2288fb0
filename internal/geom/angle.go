package geom

import "math"

// WrapPi normalizes an angle in radians to [-π, π).
func WrapPi(rad float64) float64 {
	wrapped := math.Mod(rad+math.Pi, 2*math.Pi)
	if wrapped < 0 {
		wrapped += 2 * math.Pi
	}
	return wrapped - math.Pi
}

// Diff returns the smallest signed rotation that takes current to target,
// always in [-π, π).
func Diff(target, current float64) float64 {
	return WrapPi(target - current)
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// InchesToMeters converts inches to meters.
func InchesToMeters(in float64) float64 {
	return in * 0.0254
}
