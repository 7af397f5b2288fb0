package config

import (
	"math"
	"path/filepath"
	"testing"
)

func TestDefaultGainsReal(t *testing.T) {
	g := DefaultGains(ModeReal)
	if g.DriveKP != 0.08 || g.TurnKP != 9.0 {
		t.Errorf("unexpected real gains: %+v", g)
	}
	if g.DriveKS != 0 || g.DriveKV != 0 {
		t.Error("real feedforward defaults should be zero until characterized")
	}
	if math.Abs(g.WheelRadiusMeters-0.0381) > 1e-9 {
		t.Errorf("wheel radius should be 1.5in = 0.0381m, got %f", g.WheelRadiusMeters)
	}
}

func TestDefaultGainsSim(t *testing.T) {
	g := DefaultGains(ModeSim)
	if g.DriveKS != 0.02284 || g.DriveKV != 0.10084 {
		t.Errorf("unexpected sim feedforward: %+v", g)
	}
	if g.DriveKP != 0.1 || g.TurnKP != 10.0 {
		t.Errorf("unexpected sim feedback gains: %+v", g)
	}
}

func TestReplayMatchesReal(t *testing.T) {
	if DefaultGains(ModeReplay) != DefaultGains(ModeReal) {
		t.Error("replay must recompute with the real gain set")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	cfg.Period = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero period should fail validation")
	}

	cfg = DefaultConfig()
	cfg.Mode = "flight"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown mode should fail validation")
	}

	cfg = DefaultConfig()
	cfg.Gains = &Gains{WheelRadiusMeters: -1}
	if err := cfg.Validate(); err == nil {
		t.Error("negative wheel radius should fail validation")
	}
}

func TestEffectiveGains(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.EffectiveGains() != DefaultGains(ModeSim) {
		t.Error("nil gains should resolve to mode defaults")
	}

	custom := Gains{WheelRadiusMeters: 0.05, TurnKP: 4}
	cfg.Gains = &custom
	if cfg.EffectiveGains() != custom {
		t.Error("explicit gains should win")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Duration = 42.0
	cfg.Schedule.Profile = "spin"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Duration != 42.0 || got.Schedule.Profile != "spin" {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPresets(t *testing.T) {
	if GetPreset("step") == nil {
		t.Fatal("step preset should exist")
	}
	if GetPreset("warp") != nil {
		t.Error("unknown preset should be nil")
	}
	if len(ListPresets()) != len(Presets) {
		t.Error("ListPresets should cover all presets")
	}
	for name, p := range Presets {
		if err := p.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
