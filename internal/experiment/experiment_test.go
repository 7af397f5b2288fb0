package experiment_test

import (
	"context"
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/mkrett/swervesim/internal/config"
	"github.com/mkrett/swervesim/internal/experiment"
	"github.com/mkrett/swervesim/internal/geom"
	"github.com/mkrett/swervesim/internal/metrics"
)

func stepConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Duration = 5.0
	cfg.Seed = 11
	return cfg
}

func TestRunStepProfileSettles(t *testing.T) {
	g := NewWithT(t)

	cfg := stepConfig()
	h, err := experiment.New(cfg, nil)
	g.Expect(err).NotTo(HaveOccurred())

	for _, m := range metrics.Default() {
		h.AddMetric(m)
	}

	result, err := h.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Records).To(HaveLen(int(cfg.Duration / cfg.Period)))

	last := result.Records[len(result.Records)-1]
	finalErr := math.Abs(geom.Diff(last.SetpointAngle, last.AngleRad))
	g.Expect(finalErr).To(BeNumerically("<", 0.05), "steering should settle on the setpoint")

	g.Expect(result.Metrics).To(HaveKey("tracking_error_rms"))
	g.Expect(result.Metrics).To(HaveKey("control_effort"))
	g.Expect(result.Metrics["settling_time"]).To(BeNumerically(">=", 0), "run should settle")
	g.Expect(result.Metrics["control_effort"]).To(BeNumerically(">", 0))
}

func TestRunRecordsCarryVoltages(t *testing.T) {
	g := NewWithT(t)

	h, err := experiment.New(stepConfig(), nil)
	g.Expect(err).NotTo(HaveOccurred())

	result, err := h.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())

	sawTurn := false
	for _, rec := range result.Records {
		if rec.TurnVolts != 0 {
			sawTurn = true
			break
		}
	}
	g.Expect(sawTurn).To(BeTrue(), "closed-loop turn should command voltage")
}

func TestRunHonorsCancellation(t *testing.T) {
	g := NewWithT(t)

	h, err := experiment.New(stepConfig(), nil)
	g.Expect(err).NotTo(HaveOccurred())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := h.Run(ctx)
	g.Expect(err).To(MatchError(context.Canceled))
	g.Expect(result.Records).To(BeEmpty())
}

func TestRunNotifiesObservers(t *testing.T) {
	g := NewWithT(t)

	cfg := stepConfig()
	h, err := experiment.New(cfg, nil)
	g.Expect(err).NotTo(HaveOccurred())

	count := 0
	h.AddObserver(observerFunc(func(experiment.Record) { count++ }))

	_, err = h.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(count).To(Equal(int(cfg.Duration / cfg.Period)))
}

func TestRunRecordsInputLog(t *testing.T) {
	g := NewWithT(t)

	h, err := experiment.New(stepConfig(), nil)
	g.Expect(err).NotTo(HaveOccurred())

	result, err := h.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(h.Recorder().Snapshots(0)).To(HaveLen(len(result.Records)))
}

func TestValidateProfile(t *testing.T) {
	g := NewWithT(t)
	g.Expect(experiment.ValidateProfile("step")).To(Succeed())
	g.Expect(experiment.ValidateProfile("warp")).NotTo(Succeed())
}

type observerFunc func(experiment.Record)

func (f observerFunc) OnTick(rec experiment.Record) { f(rec) }
