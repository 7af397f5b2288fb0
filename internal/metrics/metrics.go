// Package metrics provides run-level scalar summaries of a control session.
package metrics

import (
	"math"

	"github.com/mkrett/swervesim/internal/experiment"
	"github.com/mkrett/swervesim/internal/geom"
)

// TrackingError accumulates the RMS of the wrapped steering error.
type TrackingError struct {
	sumSq   float64
	samples int
}

func NewTrackingError() *TrackingError {
	return &TrackingError{}
}

func (m *TrackingError) Name() string { return "tracking_error_rms" }

func (m *TrackingError) Observe(rec experiment.Record) {
	err := geom.Diff(rec.SetpointAngle, rec.AngleRad)
	m.sumSq += err * err
	m.samples++
}

func (m *TrackingError) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return math.Sqrt(m.sumSq / float64(m.samples))
}

func (m *TrackingError) Reset() {
	m.sumSq = 0
	m.samples = 0
}

// ControlEffort accumulates the mean absolute commanded voltage across both
// outputs.
type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (m *ControlEffort) Name() string { return "control_effort" }

func (m *ControlEffort) Observe(rec experiment.Record) {
	m.sum += math.Abs(rec.TurnVolts) + math.Abs(rec.DriveVolts)
	m.samples++
}

func (m *ControlEffort) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *ControlEffort) Reset() {
	m.sum = 0
	m.samples = 0
}

// SettlingTime reports the first time after which the steering error stayed
// inside the band for the rest of the run. -1 means it never settled.
type SettlingTime struct {
	band    float64
	settled float64
	seen    bool
}

func NewSettlingTime(bandRad float64) *SettlingTime {
	return &SettlingTime{band: bandRad, settled: -1}
}

func (m *SettlingTime) Name() string { return "settling_time" }

func (m *SettlingTime) Observe(rec experiment.Record) {
	err := math.Abs(geom.Diff(rec.SetpointAngle, rec.AngleRad))
	if err > m.band {
		m.settled = -1
		m.seen = false
		return
	}
	if !m.seen {
		m.settled = rec.T
		m.seen = true
	}
}

func (m *SettlingTime) Value() float64 {
	return m.settled
}

func (m *SettlingTime) Reset() {
	m.settled = -1
	m.seen = false
}

// Default returns the standard metric set for a run.
func Default() []experiment.Metric {
	return []experiment.Metric{
		NewTrackingError(),
		NewControlEffort(),
		NewSettlingTime(0.05),
	}
}
