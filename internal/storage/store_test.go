package storage

import (
	"testing"

	"github.com/mkrett/swervesim/internal/config"
	"github.com/mkrett/swervesim/internal/experiment"
	"github.com/mkrett/swervesim/internal/swerve"
)

func sampleResult() *experiment.Result {
	return &experiment.Result{
		Records: []experiment.Record{
			{T: 0, Inputs: swerve.ModuleInputs{TurnAbsoluteRad: 0.5}, TurnVolts: 1.5},
			{T: 0.02, AngleRad: 0.1, DriveVolts: -2},
		},
		Metrics: map[string]float64{"tracking_error_rms": 0.12},
	}
}

func TestSaveAndLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	runID, err := st.Save(cfg, sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.ID != runID || meta.Mode != "sim" || meta.Profile != "step" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Metrics["tracking_error_rms"] != 0.12 {
		t.Errorf("metrics should roundtrip, got %+v", meta.Metrics)
	}
}

func TestLoadRecords(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := st.Save(config.DefaultConfig(), sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	header, rows, err := st.LoadRecords(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(header) != len(Header) {
		t.Errorf("header mismatch: %v", header)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][1] != 0.5 {
		t.Errorf("turn_abs_rad should be 0.5, got %f", rows[0][1])
	}
	if rows[1][10] != -2 {
		t.Errorf("drive_volts should be -2, got %f", rows[1][10])
	}
}

func TestListEmptyDir(t *testing.T) {
	st := New(t.TempDir() + "/absent")
	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Save(config.DefaultConfig(), sampleResult()); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("run_0"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, _, err := st.LoadRecords("run_0"); err == nil {
		t.Error("expected error for missing records")
	}
}
