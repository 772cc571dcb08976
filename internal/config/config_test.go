package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/paraxial/internal/beam"
	"github.com/san-kum/paraxial/internal/fieldmap"
	"github.com/san-kum/paraxial/internal/transfer"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Method != "midpoint" {
		t.Errorf("expected method midpoint, got %s", cfg.Method)
	}
	if cfg.GammaInitial != 1 {
		t.Errorf("expected gamma 1, got %f", cfg.GammaInitial)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_KeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beamline.yaml")
	data := []byte(`method: rk4
gamma_initial: 2
ez:
  - shape: uniform
    amplitude: 1.5e6
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MethodName() != transfer.RK4 {
		t.Errorf("expected rk4, got %s", cfg.Method)
	}
	if cfg.Samples != DefaultSamples {
		t.Errorf("expected default samples, got %d", cfg.Samples)
	}
	if cfg.Scan.Normalization != DefaultNormalization {
		t.Errorf("expected default normalization, got %f", cfg.Scan.Normalization)
	}
	if len(cfg.Ez) != 1 || cfg.Ez[0].Amplitude != 1.5e6 {
		t.Errorf("unexpected ez profiles %+v", cfg.Ez)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gun.yaml")
	cfg := GetPreset("gun", "rest")
	cfg.Scan.Voltages = []float64{1000, 2000}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.End != cfg.End || got.Samples != cfg.Samples || len(got.Ez) != len(cfg.Ez) {
		t.Errorf("round trip changed config: %+v", got)
	}
	if len(got.Scan.Voltages) != 2 {
		t.Errorf("expected 2 voltages, got %v", got.Scan.Voltages)
	}
}

func TestLoadOver_Preset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := []byte(`gamma_initial: 3
scan:
  voltages: [1000, 2000]
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOver(path, GetPreset("gun", "rest"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GammaInitial != 3 {
		t.Errorf("expected file gamma 3, got %f", cfg.GammaInitial)
	}
	if len(cfg.Scan.Voltages) != 2 {
		t.Errorf("expected file voltages, got %v", cfg.Scan.Voltages)
	}
	if cfg.Samples != 20001 || cfg.End != 0.3 {
		t.Errorf("preset grid lost: samples=%d end=%f", cfg.Samples, cfg.End)
	}
	if len(cfg.Ez) != 2 || len(cfg.Bz) != 1 {
		t.Errorf("preset profiles lost: ez=%v bz=%v", cfg.Ez, cfg.Bz)
	}
	if Presets["gun"]["rest"].GammaInitial != 1 {
		t.Error("loading over a preset copy changed the preset")
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		target error
	}{
		{"unknown method", func(c *Config) { c.Method = "leapfrog" }, beam.ErrUnknownMethod},
		{"few samples", func(c *Config) { c.Samples = 1 }, beam.ErrTooFewSamples},
		{"gamma below one", func(c *Config) { c.GammaInitial = 0.5 }, nil},
		{"reversed range", func(c *Config) { c.Start, c.End = 1, 0 }, nil},
		{"bad profile", func(c *Config) { c.Bz = fieldmap.Profiles{{Shape: "gaussian"}} }, nil},
		{"zero normalization", func(c *Config) { c.Scan.Normalization = 0 }, nil},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.modify(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if tt.target != nil && !errors.Is(err, tt.target) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.target, err)
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("solenoid", "weak")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.GammaInitial != 2 {
		t.Errorf("expected gamma 2, got %f", cfg.GammaInitial)
	}

	cfg.Bz[0].Amplitude = 1
	if Presets["solenoid"]["weak"].Bz[0].Amplitude != 0.01 {
		t.Error("modifying a preset copy changed the preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("gun", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "rest"); cfg != nil {
		t.Error("expected nil for nonexistent group")
	}
}

func TestPresetsValid(t *testing.T) {
	for _, group := range ListGroups() {
		for _, name := range ListPresets(group) {
			if err := GetPreset(group, name).Validate(); err != nil {
				t.Errorf("%s/%s: %v", group, name, err)
			}
		}
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets("gun")
	if len(names) != 2 || names[0] != "relativistic" || names[1] != "rest" {
		t.Errorf("unexpected gun presets %v", names)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent group")
	}
}

func TestField_Profiles(t *testing.T) {
	cfg := GetPreset("accelerator", "uniform")
	cfg.EzScale = 2

	f, err := cfg.Field()
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	if f.Len() != cfg.Samples {
		t.Fatalf("expected %d samples, got %d", cfg.Samples, f.Len())
	}
	if math.Abs(f.Dz-0.5/float64(cfg.Samples-1)) > 1e-15 {
		t.Errorf("unexpected dz %g", f.Dz)
	}
	for i := range f.Ez {
		if f.Ez[i] != 2e6 || f.Bz[i] != 0 {
			t.Fatalf("sample %d: ez=%g bz=%g", i, f.Ez[i], f.Bz[i])
		}
	}
}

func TestField_Map(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "anode.csv")
	data := []byte("z,ez,bz\n0,0,0.02\n1,1e6,0.02\n")
	if err := os.WriteFile(mapPath, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.FieldMap = mapPath
	cfg.End = 1
	cfg.Samples = 11
	cfg.BzScale = 0.5
	cfg.Ez = fieldmap.Profiles{{Shape: "uniform", Amplitude: 1}}

	f, err := cfg.Field()
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	if math.Abs(f.Ez[5]-5e5) > 1e-6 {
		t.Errorf("expected interpolated ez 5e5, got %g", f.Ez[5])
	}
	if math.Abs(f.Bz[3]-0.01) > 1e-15 {
		t.Errorf("expected scaled bz 0.01, got %g", f.Bz[3])
	}
}
