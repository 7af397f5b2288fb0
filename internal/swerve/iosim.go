package swerve

import (
	"math"
	"math/rand"

	"github.com/mkrett/swervesim/internal/geom"
	"github.com/mkrett/swervesim/internal/plant"
)

const maxVolts = 12.0

// SimIO is a ModuleIO backed by two simulated mechanisms. The relative turn
// encoder starts at zero while the absolute sensor starts at a random nonzero
// angle, so the controller's lazy offset calibration has something to do.
type SimIO struct {
	turn  *plant.Mechanism
	drive *plant.Mechanism
	integ plant.Integrator

	turnState  plant.State
	driveState plant.State

	absoluteOffset float64

	turnVolts  float64
	driveVolts float64
	turnBrake  bool
	driveBrake bool

	t float64
}

// NewSimIO builds the simulated module. The seed fixes the absolute-encoder
// mounting offset so runs are reproducible.
func NewSimIO(seed int64) *SimIO {
	rng := rand.New(rand.NewSource(seed))

	// Anywhere on the circle but away from zero, which the absolute sensor
	// reserves for "not initialized".
	offset := geom.WrapPi(0.3 + rng.Float64()*(2*math.Pi-0.6))
	if offset == 0 {
		offset = 0.3
	}

	return &SimIO{
		turn:           plant.TurnMechanism(),
		drive:          plant.DriveMechanism(),
		integ:          plant.NewRK4(),
		turnState:      plant.State{0, 0},
		driveState:     plant.State{0, 0},
		absoluteOffset: offset,
	}
}

// Advance integrates both mechanisms forward dt seconds under the currently
// held voltages.
func (s *SimIO) Advance(dt float64) {
	s.turnState = s.integ.Step(s.turn, s.turnState, s.turnVolts, s.t, dt)
	s.driveState = s.integ.Step(s.drive, s.driveState, s.driveVolts, s.t, dt)
	s.t += dt
}

func (s *SimIO) UpdateInputs(in *ModuleInputs) {
	in.TurnAbsoluteRad = geom.WrapPi(s.turnState[0] + s.absoluteOffset)
	in.TurnPositionRad = s.turnState[0]
	in.DrivePositionRad = s.driveState[0]
	in.DriveVelocityRadPerSec = s.driveState[1]
}

func (s *SimIO) SetTurnVoltage(volts float64) {
	s.turnVolts = clamp(volts, -maxVolts, maxVolts)
}

func (s *SimIO) SetDriveVoltage(volts float64) {
	s.driveVolts = clamp(volts, -maxVolts, maxVolts)
}

func (s *SimIO) SetTurnBrake(enabled bool)  { s.turnBrake = enabled }
func (s *SimIO) SetDriveBrake(enabled bool) { s.driveBrake = enabled }

// TurnVolts returns the held turn command, for recording.
func (s *SimIO) TurnVolts() float64 { return s.turnVolts }

// DriveVolts returns the held drive command, for recording.
func (s *SimIO) DriveVolts() float64 { return s.driveVolts }

// Drive returns the drive mechanism, which characterization fits against.
func (s *SimIO) Drive() *plant.Mechanism { return s.drive }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
