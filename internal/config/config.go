package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPeriod   = 0.02
	DefaultDuration = 10.0
	WheelRadiusIn   = 1.5
)

// Mode selects which gain set a controller is built with. The physics
// simulation is tuned as if it were a separate robot.
type Mode string

const (
	ModeReal   Mode = "real"
	ModeSim    Mode = "sim"
	ModeReplay Mode = "replay"
)

// Gains holds the tunable defaults for one wheel module.
type Gains struct {
	WheelRadiusMeters float64 `yaml:"wheel_radius_m"`
	DriveKS           float64 `yaml:"drive_ks"`
	DriveKV           float64 `yaml:"drive_kv"`
	DriveKP           float64 `yaml:"drive_kp"`
	DriveKD           float64 `yaml:"drive_kd"`
	TurnKP            float64 `yaml:"turn_kp"`
	TurnKD            float64 `yaml:"turn_kd"`
}

// DefaultGains returns the gain set for a mode. Replay uses the real-robot
// gains so logged cycles recompute identically.
func DefaultGains(mode Mode) Gains {
	radius := WheelRadiusIn * 0.0254

	switch mode {
	case ModeReal, ModeReplay:
		return Gains{
			WheelRadiusMeters: radius,
			DriveKP:           0.08,
			TurnKP:            9.0,
		}
	case ModeSim:
		return Gains{
			WheelRadiusMeters: radius,
			DriveKS:           0.02284,
			DriveKV:           0.10084,
			DriveKP:           0.1,
			TurnKP:            10.0,
		}
	default:
		return Gains{WheelRadiusMeters: radius}
	}
}

// Schedule describes the setpoint profile the run harness feeds the module.
type Schedule struct {
	Profile  string  `yaml:"profile"`   // step, reversal, spin, hold
	AngleRad float64 `yaml:"angle_rad"` // target angle (step, reversal)
	Speed    float64 `yaml:"speed"`     // target speed m/s
	RateRad  float64 `yaml:"rate_rad"`  // angular rate of the target (spin)
}

type Config struct {
	Mode     Mode     `yaml:"mode"`
	Period   float64  `yaml:"period"`
	Duration float64  `yaml:"duration"`
	Seed     int64    `yaml:"seed"`
	Gains    *Gains   `yaml:"gains"` // nil = mode defaults
	Schedule Schedule `yaml:"schedule"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:     ModeSim,
		Period:   DefaultPeriod,
		Duration: DefaultDuration,
		Schedule: Schedule{
			Profile:  "step",
			AngleRad: 1.0,
			Speed:    2.0,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) Validate() error {
	if c.Period <= 0 {
		return fmt.Errorf("config: period must be positive, got %f", c.Period)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %f", c.Duration)
	}
	switch c.Mode {
	case ModeReal, ModeSim, ModeReplay:
	default:
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	if c.Gains != nil && c.Gains.WheelRadiusMeters <= 0 {
		return fmt.Errorf("config: wheel radius must be positive, got %f", c.Gains.WheelRadiusMeters)
	}
	return nil
}

// EffectiveGains resolves the gain set: explicit gains win, otherwise the
// mode defaults.
func (c *Config) EffectiveGains() Gains {
	if c.Gains != nil {
		return *c.Gains
	}
	return DefaultGains(c.Mode)
}
