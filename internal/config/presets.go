package config

var Presets = map[string]*Config{
	"step": {
		Mode: ModeSim, Period: DefaultPeriod, Duration: 5.0,
		Schedule: Schedule{Profile: "step", AngleRad: 1.0, Speed: 2.0},
	},
	"reversal": {
		Mode: ModeSim, Period: DefaultPeriod, Duration: 8.0,
		Schedule: Schedule{Profile: "reversal", AngleRad: 2.9, Speed: 1.5},
	},
	"spin": {
		Mode: ModeSim, Period: DefaultPeriod, Duration: 10.0,
		Schedule: Schedule{Profile: "spin", RateRad: 1.0, Speed: 1.0},
	},
	"hold": {
		Mode: ModeSim, Period: DefaultPeriod, Duration: 3.0,
		Schedule: Schedule{Profile: "hold"},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
