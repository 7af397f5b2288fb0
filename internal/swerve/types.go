package swerve

import (
	"fmt"
	"math"

	"github.com/mkrett/swervesim/internal/geom"
)

// SetpointKind discriminates the control regime of a module.
type SetpointKind int

const (
	// KindDisabled: open loop, outputs are whatever was commanded directly.
	KindDisabled SetpointKind = iota
	// KindAngle: closed-loop steering only.
	KindAngle
	// KindAngleSpeed: closed-loop steering and drive velocity.
	KindAngleSpeed
)

// Setpoint is the control target of a module. A speed target cannot exist
// without an angle target; the variant has no speed-only case.
type Setpoint struct {
	kind  SetpointKind
	angle float64
	speed float64
}

func Disabled() Setpoint {
	return Setpoint{kind: KindDisabled}
}

func AngleOnly(angleRad float64) Setpoint {
	return Setpoint{kind: KindAngle, angle: angleRad}
}

func AngleSpeed(angleRad, speedMetersPerSec float64) Setpoint {
	return Setpoint{kind: KindAngleSpeed, angle: angleRad, speed: speedMetersPerSec}
}

func (s Setpoint) Kind() SetpointKind { return s.kind }

// Angle returns the target steering angle, if any.
func (s Setpoint) Angle() (float64, bool) {
	return s.angle, s.kind != KindDisabled
}

// Speed returns the target wheel speed, if any.
func (s Setpoint) Speed() (float64, bool) {
	return s.speed, s.kind == KindAngleSpeed
}

func (s Setpoint) String() string {
	switch s.kind {
	case KindAngle:
		return fmt.Sprintf("angle=%.3frad", s.angle)
	case KindAngleSpeed:
		return fmt.Sprintf("angle=%.3frad speed=%.2fm/s", s.angle, s.speed)
	default:
		return "disabled"
	}
}

// ModuleState is a wheel's angle and linear velocity.
type ModuleState struct {
	SpeedMetersPerSec float64
	AngleRad          float64
}

// ModulePosition is a wheel's angle and cumulative linear distance.
type ModulePosition struct {
	DistanceMeters float64
	AngleRad       float64
}

// Optimize picks between the requested angle and its half-turn complement
// (with negated speed), whichever needs the smaller rotation from current.
// A wheel 170° away from its target is better off turning -10° and driving
// backwards.
func Optimize(angleRad, speedMetersPerSec, currentRad float64) (float64, float64) {
	if math.Abs(geom.Diff(angleRad, currentRad)) > math.Pi/2 {
		return geom.WrapPi(angleRad + math.Pi), -speedMetersPerSec
	}
	return geom.WrapPi(angleRad), speedMetersPerSec
}
