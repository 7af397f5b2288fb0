// Package swerve implements per-wheel closed-loop control for one
// swerve-drive module: a steering angle loop, a drive velocity loop with
// feedforward, and the setpoint bookkeeping between them.
//
// A [Module] owns no hardware. It reads sensor snapshots from and writes
// voltage commands to a [ModuleIO], which is either a real actuator stack or
// the simulated one in [SimIO]. Tick advances the controller exactly one
// fixed period; setpoint mutation happens between ticks from the same loop.
//
// # Thread safety
//
// Module is not safe for concurrent use. Tick, SetSetpoint, Stop and the
// accessors must all be called from the one control loop that owns the
// module.
package swerve
