// Package experiment runs one simulated module through a closed-loop session
// at a fixed control period and collects per-tick records.
package experiment

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/mkrett/swervesim/internal/config"
	"github.com/mkrett/swervesim/internal/replay"
	"github.com/mkrett/swervesim/internal/swerve"
	"github.com/mkrett/swervesim/internal/tunable"
)

// Record is one control cycle as seen from outside the module.
type Record struct {
	T             float64
	Inputs        swerve.ModuleInputs
	SetpointAngle float64
	SetpointSpeed float64
	AngleRad      float64
	SpeedMPS      float64
	TurnVolts     float64
	DriveVolts    float64
}

// Observer is notified after every control cycle.
type Observer interface {
	OnTick(rec Record)
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(rec Record)
	Value() float64
	Reset()
}

type Result struct {
	Records []Record
	Metrics map[string]float64
}

// Harness wires a Module to a SimIO and steps both at the control period.
type Harness struct {
	cfg       *config.Config
	store     *tunable.Store
	recorder  *replay.Recorder
	io        *swerve.SimIO
	module    *swerve.Module
	observers []Observer
	metrics   []Metric
	logger    *zap.SugaredLogger
}

func New(cfg *config.Config, logger *zap.SugaredLogger) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	store := tunable.NewStore()
	swerve.SeedGains(store, cfg.EffectiveGains())

	recorder := replay.NewRecorder(0)
	io := swerve.NewSimIO(cfg.Seed)
	module := swerve.New(io, 0, store, recorder, cfg.Period)

	return &Harness{
		cfg:      cfg,
		store:    store,
		recorder: recorder,
		io:       io,
		module:   module,
		logger:   logger,
	}, nil
}

func (h *Harness) AddObserver(o Observer) { h.observers = append(h.observers, o) }
func (h *Harness) AddMetric(m Metric)     { h.metrics = append(h.metrics, m) }

// Store exposes the tunables for live adjustment while the harness runs.
func (h *Harness) Store() *tunable.Store { return h.store }

// Module exposes the controller under test.
func (h *Harness) Module() *swerve.Module { return h.module }

// Recorder exposes the input log of the run.
func (h *Harness) Recorder() *replay.Recorder { return h.recorder }

// Step advances exactly one control cycle at time t and returns its record.
func (h *Harness) Step(t float64) Record {
	angle, speed := h.targetAt(t)
	h.module.SetSetpoint(angle, speed)
	h.module.Tick()
	h.io.Advance(h.cfg.Period)

	var in swerve.ModuleInputs
	h.io.UpdateInputs(&in)
	sp := h.module.Setpoint()
	spAngle, _ := sp.Angle()
	spSpeed, _ := sp.Speed()

	return Record{
		T:             t,
		Inputs:        in,
		SetpointAngle: spAngle,
		SetpointSpeed: spSpeed,
		AngleRad:      h.module.Angle(),
		SpeedMPS:      h.module.VelocityMetersPerSec(),
		TurnVolts:     h.io.TurnVolts(),
		DriveVolts:    h.io.DriveVolts(),
	}
}

// Run executes the whole session. The returned result contains every record
// even when the context is canceled mid-run.
func (h *Harness) Run(ctx context.Context) (*Result, error) {
	steps := int(h.cfg.Duration / h.cfg.Period)
	result := &Result{
		Records: make([]Record, 0, steps),
		Metrics: make(map[string]float64),
	}

	for _, m := range h.metrics {
		m.Reset()
	}

	h.logger.Infow("starting run",
		"mode", h.cfg.Mode,
		"profile", h.cfg.Schedule.Profile,
		"period", h.cfg.Period,
		"steps", steps,
	)

	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			h.module.Stop()
			return result, ctx.Err()
		default:
		}

		rec := h.Step(t)
		result.Records = append(result.Records, rec)

		for _, m := range h.metrics {
			m.Observe(rec)
		}
		for _, o := range h.observers {
			o.OnTick(rec)
		}

		t += h.cfg.Period
	}

	h.module.Stop()

	for _, m := range h.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	h.logger.Infow("run complete", "records", len(result.Records))
	return result, nil
}

// targetAt evaluates the setpoint schedule.
func (h *Harness) targetAt(t float64) (angleRad, speed float64) {
	s := h.cfg.Schedule
	switch s.Profile {
	case "reversal":
		if t < h.cfg.Duration/2 {
			return s.AngleRad, s.Speed
		}
		return -s.AngleRad, s.Speed
	case "spin":
		return math.Mod(s.RateRad*t+math.Pi, 2*math.Pi) - math.Pi, s.Speed
	case "hold":
		return 0, 0
	default: // step
		return s.AngleRad, s.Speed
	}
}

// Profiles lists the schedule profiles targetAt understands.
func Profiles() []string {
	return []string{"step", "reversal", "spin", "hold"}
}

// ValidateProfile rejects schedule profiles the harness cannot evaluate.
func ValidateProfile(name string) error {
	for _, p := range Profiles() {
		if p == name {
			return nil
		}
	}
	return fmt.Errorf("experiment: unknown profile %q", name)
}
