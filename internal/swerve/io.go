package swerve

// ModuleInputs is the per-cycle sensor snapshot for one module. The absolute
// angle sensor reports zero until it has initialized; consumers treat zero as
// "not ready yet".
type ModuleInputs struct {
	TurnAbsoluteRad        float64
	TurnPositionRad        float64
	DrivePositionRad       float64
	DriveVelocityRadPerSec float64
}

// ModuleIO is the hardware boundary of one module: sensors in, voltage and
// brake commands out. Implementations hold the last commanded values until
// overwritten.
type ModuleIO interface {
	UpdateInputs(in *ModuleInputs)
	SetTurnVoltage(volts float64)
	SetDriveVoltage(volts float64)
	SetTurnBrake(enabled bool)
	SetDriveBrake(enabled bool)
}

// InputSink receives each cycle's raw sensor snapshot, keyed by module index,
// for offline inspection and replay.
type InputSink interface {
	ProcessInputs(index int, in ModuleInputs)
}
