// Package characterize fits drive feedforward gains by sweeping open-loop
// voltage on a simulated module and regressing steady velocity against volts.
package characterize

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mkrett/swervesim/internal/config"
	"github.com/mkrett/swervesim/internal/swerve"
	"github.com/mkrett/swervesim/internal/tunable"
)

type Config struct {
	Period     float64
	HoldSecs   float64
	StartVolts float64
	StepVolts  float64
	Levels     int
	Seed       int64
}

func DefaultConfig() Config {
	return Config{
		Period:     config.DefaultPeriod,
		HoldSecs:   1.5,
		StartVolts: 1.0,
		StepVolts:  1.0,
		Levels:     8,
	}
}

// Sample is one sweep level: commanded volts and the velocity it settled at.
type Sample struct {
	Volts             float64
	VelocityRadPerSec float64
}

// Fit is the regression V = KS + KV·ω over the sweep samples.
type Fit struct {
	KS      float64
	KV      float64
	R2      float64
	Samples []Sample
}

// Run executes the sweep. Each level holds the voltage long enough for the
// drive to settle, with the wheel held at zero degrees closed-loop
// throughout.
func Run(ctx context.Context, cfg Config, logger *zap.SugaredLogger) (*Fit, error) {
	if cfg.Levels < 2 {
		return nil, fmt.Errorf("characterize: need at least 2 sweep levels, got %d", cfg.Levels)
	}
	if cfg.Period <= 0 || cfg.HoldSecs <= 0 {
		return nil, fmt.Errorf("characterize: period and hold time must be positive")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	store := tunable.NewStore()
	swerve.SeedGains(store, config.DefaultGains(config.ModeSim))
	io := swerve.NewSimIO(cfg.Seed)
	module := swerve.New(io, 0, store, nil, cfg.Period)

	holdTicks := int(cfg.HoldSecs / cfg.Period)
	samples := make([]Sample, 0, cfg.Levels)

	for i := 0; i < cfg.Levels; i++ {
		volts := cfg.StartVolts + float64(i)*cfg.StepVolts

		for j := 0; j < holdTicks; j++ {
			select {
			case <-ctx.Done():
				module.Stop()
				return nil, ctx.Err()
			default:
			}

			module.RunCharacterization(volts)
			module.Tick()
			io.Advance(cfg.Period)
		}

		s := Sample{Volts: volts, VelocityRadPerSec: module.CharacterizationVelocity()}
		samples = append(samples, s)
		logger.Debugw("sweep level", "volts", s.Volts, "velocity", s.VelocityRadPerSec)
	}
	module.Stop()

	fit := fitLine(samples)
	logger.Infow("feedforward fit", "ks", fit.KS, "kv", fit.KV, "r2", fit.R2)
	return fit, nil
}

// fitLine runs ordinary least squares of volts on velocity.
func fitLine(samples []Sample) *Fit {
	n := float64(len(samples))

	var sumX, sumY float64
	for _, s := range samples {
		sumX += s.VelocityRadPerSec
		sumY += s.Volts
	}
	meanX, meanY := sumX/n, sumY/n

	var sxx, sxy float64
	for _, s := range samples {
		dx := s.VelocityRadPerSec - meanX
		sxx += dx * dx
		sxy += dx * (s.Volts - meanY)
	}

	kv := sxy / sxx
	ks := meanY - kv*meanX

	var ssRes, ssTot float64
	for _, s := range samples {
		pred := ks + kv*s.VelocityRadPerSec
		ssRes += (s.Volts - pred) * (s.Volts - pred)
		ssTot += (s.Volts - meanY) * (s.Volts - meanY)
	}
	r2 := 1.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}

	return &Fit{KS: ks, KV: kv, R2: r2, Samples: samples}
}
