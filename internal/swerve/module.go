package swerve

import (
	"math"

	"github.com/mkrett/swervesim/internal/config"
	"github.com/mkrett/swervesim/internal/control"
	"github.com/mkrett/swervesim/internal/geom"
	"github.com/mkrett/swervesim/internal/tunable"
)

// Tunable keys shared by every module.
const (
	KeyWheelRadius = "drive/wheel_radius"
	KeyDriveKS     = "drive/ks"
	KeyDriveKV     = "drive/kv"
	KeyDriveKP     = "drive/kp"
	KeyDriveKD     = "drive/kd"
	KeyTurnKP      = "turn/kp"
	KeyTurnKD      = "turn/kd"
)

// SeedGains registers the module tunables with defaults from a gain set.
// Call once per store before constructing modules.
func SeedGains(store *tunable.Store, g config.Gains) {
	store.Number(KeyWheelRadius, g.WheelRadiusMeters)
	store.Number(KeyDriveKS, g.DriveKS)
	store.Number(KeyDriveKV, g.DriveKV)
	store.Number(KeyDriveKP, g.DriveKP)
	store.Number(KeyDriveKD, g.DriveKD)
	store.Number(KeyTurnKP, g.TurnKP)
	store.Number(KeyTurnKD, g.TurnKD)
}

// Module runs the closed-loop control for one wheel: steering PID over
// [-π, π) and drive velocity PID with feedforward. It is ticked once per
// fixed control period; setpoints are pushed in between ticks.
type Module struct {
	io    ModuleIO
	index int
	sink  InputSink

	inputs ModuleInputs

	wheelRadius *tunable.Number
	driveKS     *tunable.Number
	driveKV     *tunable.Number
	driveKP     *tunable.Number
	driveKD     *tunable.Number
	turnKP      *tunable.Number
	turnKD      *tunable.Number

	driveFeedforward control.Feedforward
	driveFeedback    *control.PID
	turnFeedback     *control.PID

	setpoint Setpoint

	// Relative + offset = absolute. Calibrated once per session, on the
	// first cycle the absolute sensor reports a nonzero angle.
	turnOffset float64
	calibrated bool

	lastPositionMeters float64
}

// New builds a module around a hardware handle. Gains come from the tunable
// store (seed it with SeedGains first); sink may be nil. Brake mode starts
// enabled.
func New(io ModuleIO, index int, store *tunable.Store, sink InputSink, period float64) *Module {
	m := &Module{
		io:    io,
		index: index,
		sink:  sink,

		wheelRadius: store.Number(KeyWheelRadius, 0),
		driveKS:     store.Number(KeyDriveKS, 0),
		driveKV:     store.Number(KeyDriveKV, 0),
		driveKP:     store.Number(KeyDriveKP, 0),
		driveKD:     store.Number(KeyDriveKD, 0),
		turnKP:      store.Number(KeyTurnKP, 0),
		turnKD:      store.Number(KeyTurnKD, 0),

		setpoint: Disabled(),
	}

	m.driveFeedforward = control.Feedforward{KS: m.driveKS.Get(), KV: m.driveKV.Get()}
	m.driveFeedback = control.NewPID(m.driveKP.Get(), 0, m.driveKD.Get(), period)
	m.turnFeedback = control.NewPID(m.turnKP.Get(), 0, m.turnKD.Get(), period)

	m.turnFeedback.EnableContinuousInput(-math.Pi, math.Pi)
	m.SetBrakeMode(true)

	return m
}

func (m *Module) Index() int { return m.index }

// Tick advances the module one control period: refresh sensors, apply any
// retuned gains, calibrate the turn offset if possible, then run whatever
// closed loops the current setpoint asks for.
func (m *Module) Tick() {
	m.io.UpdateInputs(&m.inputs)
	if m.sink != nil {
		m.sink.ProcessInputs(m.index, m.inputs)
	}

	if m.driveKP.Changed(m.index) || m.driveKD.Changed(m.index) {
		m.driveFeedback.SetGains(m.driveKP.Get(), 0, m.driveKD.Get())
	}
	if m.turnKP.Changed(m.index) || m.turnKD.Changed(m.index) {
		m.turnFeedback.SetGains(m.turnKP.Get(), 0, m.turnKD.Get())
	}
	if m.driveKS.Changed(m.index) || m.driveKV.Changed(m.index) {
		m.driveFeedforward = control.Feedforward{KS: m.driveKS.Get(), KV: m.driveKV.Get()}
	}

	if !m.calibrated && m.inputs.TurnAbsoluteRad != 0 {
		m.turnOffset = geom.WrapPi(m.inputs.TurnAbsoluteRad - m.inputs.TurnPositionRad)
		m.calibrated = true
	}

	if angle, ok := m.setpoint.Angle(); ok {
		m.io.SetTurnVoltage(m.turnFeedback.Calculate(m.Angle(), angle))

		// Drive control only runs under active steering. The speed target is
		// scaled by cos(turn error): zero demand at 90° off, full demand
		// once aligned.
		if speed, ok := m.setpoint.Speed(); ok {
			adjusted := speed * math.Cos(m.turnFeedback.PositionError())

			velocityRadPerSec := adjusted / m.wheelRadius.Get()
			m.io.SetDriveVoltage(m.driveFeedforward.Calculate(velocityRadPerSec) +
				m.driveFeedback.Calculate(m.inputs.DriveVelocityRadPerSec, velocityRadPerSec))
		}
	}
}

// SetSetpoint stores an optimized angle/speed target for the next Tick and
// returns the optimized pair for the caller's kinematics bookkeeping.
func (m *Module) SetSetpoint(angleRad, speedMetersPerSec float64) (float64, float64) {
	angle, speed := Optimize(angleRad, speedMetersPerSec, m.Angle())
	m.setpoint = AngleSpeed(angle, speed)
	return angle, speed
}

// RunCharacterization holds the wheel at zero degrees closed-loop while
// driving open-loop at the given voltage.
func (m *Module) RunCharacterization(volts float64) {
	m.setpoint = AngleOnly(0)
	m.io.SetDriveVoltage(volts)
}

// Stop zeroes both outputs immediately and drops to open loop.
func (m *Module) Stop() {
	m.io.SetTurnVoltage(0)
	m.io.SetDriveVoltage(0)
	m.setpoint = Disabled()
}

// SetBrakeMode forwards the brake/coast flag to both actuators.
func (m *Module) SetBrakeMode(enabled bool) {
	m.io.SetDriveBrake(enabled)
	m.io.SetTurnBrake(enabled)
}

// Setpoint returns the current control target.
func (m *Module) Setpoint() Setpoint {
	return m.setpoint
}

// Angle returns the calibrated wheel angle, or zero before calibration.
func (m *Module) Angle() float64 {
	if !m.calibrated {
		return 0
	}
	return geom.WrapPi(m.inputs.TurnPositionRad + m.turnOffset)
}

// PositionMeters returns the cumulative linear drive distance.
func (m *Module) PositionMeters() float64 {
	return m.inputs.DrivePositionRad * m.wheelRadius.Get()
}

// VelocityMetersPerSec returns the linear drive velocity.
func (m *Module) VelocityMetersPerSec() float64 {
	return m.inputs.DriveVelocityRadPerSec * m.wheelRadius.Get()
}

// Position returns the module position (angle and distance).
func (m *Module) Position() ModulePosition {
	return ModulePosition{DistanceMeters: m.PositionMeters(), AngleRad: m.Angle()}
}

// State returns the module state (angle and velocity).
func (m *Module) State() ModuleState {
	return ModuleState{SpeedMetersPerSec: m.VelocityMetersPerSec(), AngleRad: m.Angle()}
}

// PositionDelta returns distance traveled since the previous call and
// advances the marker. One caller per cycle; odometry owns this.
func (m *Module) PositionDelta() ModulePosition {
	delta := ModulePosition{
		DistanceMeters: m.PositionMeters() - m.lastPositionMeters,
		AngleRad:       m.Angle(),
	}
	m.lastPositionMeters = m.PositionMeters()
	return delta
}

// CharacterizationVelocity returns the raw drive velocity in rad/s.
func (m *Module) CharacterizationVelocity() float64 {
	return m.inputs.DriveVelocityRadPerSec
}
