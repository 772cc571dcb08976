package config

import (
	"sort"

	"github.com/san-kum/paraxial/internal/fieldmap"
)

func preset(method string, gamma, length float64, samples int, ez, bz fieldmap.Profiles) *Config {
	cfg := DefaultConfig()
	cfg.Method = method
	cfg.GammaInitial = gamma
	cfg.End = length
	cfg.Samples = samples
	cfg.Ez = ez
	cfg.Bz = bz
	return cfg
}

var gunEz = fieldmap.Profiles{
	{Shape: "uniform", Amplitude: 3e6},
	{Shape: "gaussian", Amplitude: 2e6, Center: 0.1, Width: 0.05},
}

var gunBz = fieldmap.Profiles{
	{Shape: "gaussian", Amplitude: 0.05, Center: 0.2, Width: 0.03},
}

var Presets = map[string]map[string]*Config{
	"gun": {
		"rest":         preset("midpoint", 1, 0.3, 20001, gunEz, gunBz),
		"relativistic": preset("midpoint", 2, 0.3, 20001, gunEz, gunBz),
	},
	"solenoid": {
		"weak": preset("constant_field", 2, 1, 10001, nil,
			fieldmap.Profiles{{Shape: "uniform", Amplitude: 0.01}}),
		"strong": preset("constant_field", 2, 0.5, 10001, nil,
			fieldmap.Profiles{{Shape: "uniform", Amplitude: 0.1}}),
		"lens": preset("midpoint", 2, 0.4, 20001, nil,
			fieldmap.Profiles{{Shape: "hard_edge", Amplitude: 0.05, Start: 0.15, End: 0.25}}),
	},
	"drift": {
		"free": preset("midpoint", 2, 1, 1001, nil, nil),
	},
	"accelerator": {
		"uniform": preset("midpoint", 1, 0.5, 20001,
			fieldmap.Profiles{{Shape: "uniform", Amplitude: 1e6}}, nil),
		"booster": preset("rk4", 3, 1, 10001,
			fieldmap.Profiles{{Shape: "uniform", Amplitude: 5e6}}, nil),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(group, name string) *Config {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	cfg, ok := groupPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(group string) []string {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(groupPresets))
	for name := range groupPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListGroups() []string {
	groups := make([]string, 0, len(Presets))
	for g := range Presets {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}
