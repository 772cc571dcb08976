package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/paraxial/internal/beam"
	"github.com/san-kum/paraxial/internal/fieldmap"
	"github.com/san-kum/paraxial/internal/transfer"
)

const (
	DefaultMethod        = string(transfer.DefaultMethod)
	DefaultGamma         = 1.0
	DefaultSamples       = 10001
	DefaultLength        = 0.3
	DefaultNormalization = 9000.0
	DefaultWorkers       = 4
)

type Config struct {
	Method       string            `yaml:"method"`
	GammaInitial float64           `yaml:"gamma_initial"`
	Samples      int               `yaml:"samples"`
	Start        float64           `yaml:"start"`
	End          float64           `yaml:"end"`
	FieldMap     string            `yaml:"field_map,omitempty"`
	EzScale      float64           `yaml:"ez_scale"`
	BzScale      float64           `yaml:"bz_scale"`
	Ez           fieldmap.Profiles `yaml:"ez,omitempty"`
	Bz           fieldmap.Profiles `yaml:"bz,omitempty"`
	Scan         ScanConfig        `yaml:"scan"`
}

type ScanConfig struct {
	Voltages      []float64 `yaml:"voltages,omitempty"`
	Normalization float64   `yaml:"normalization"`
	Workers       int       `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Method:       DefaultMethod,
		GammaInitial: DefaultGamma,
		Samples:      DefaultSamples,
		Start:        0,
		End:          DefaultLength,
		EzScale:      1,
		BzScale:      1,
		Scan: ScanConfig{
			Normalization: DefaultNormalization,
			Workers:       DefaultWorkers,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of base: keys present in the file replace the
// values in base, everything else is kept. base is modified and returned.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Ez = append(fieldmap.Profiles(nil), c.Ez...)
	out.Bz = append(fieldmap.Profiles(nil), c.Bz...)
	out.Scan.Voltages = append([]float64(nil), c.Scan.Voltages...)
	return &out
}

func (c *Config) Validate() error {
	if _, err := transfer.ParseMethod(c.Method); err != nil {
		return err
	}
	if c.GammaInitial < 1 {
		return fmt.Errorf("config: gamma_initial must be >= 1, got %g", c.GammaInitial)
	}
	if c.Samples < 2 {
		return fmt.Errorf("config: %w: samples=%d", beam.ErrTooFewSamples, c.Samples)
	}
	if !(c.End > c.Start) {
		return fmt.Errorf("config: end %g must be after start %g", c.End, c.Start)
	}
	if err := c.Ez.Validate(); err != nil {
		return fmt.Errorf("config: ez: %w", err)
	}
	if err := c.Bz.Validate(); err != nil {
		return fmt.Errorf("config: bz: %w", err)
	}
	if c.Scan.Normalization == 0 {
		return fmt.Errorf("config: scan normalization must be non-zero")
	}
	return nil
}

func (c *Config) MethodName() transfer.Method {
	m, err := transfer.ParseMethod(c.Method)
	if err != nil {
		return transfer.DefaultMethod
	}
	return m
}

// Field samples the configured on-axis field on Samples points over
// [Start, End]. A field map file takes precedence over profiles.
func (c *Config) Field() (beam.Field, error) {
	z, dz := fieldmap.Grid(c.Start, c.End, c.Samples)

	if c.FieldMap != "" {
		m, err := fieldmap.LoadFile(c.FieldMap)
		if err != nil {
			return beam.Field{}, err
		}
		f, err := m.Sample(z, dz, c.EzScale, c.BzScale)
		if err != nil {
			return beam.Field{}, fmt.Errorf("config: %s: %w", c.FieldMap, err)
		}
		return f, nil
	}

	f, err := fieldmap.FromProfiles(c.Ez, c.Bz, z, dz)
	if err != nil {
		return beam.Field{}, fmt.Errorf("config: %w", err)
	}
	for i := range f.Ez {
		f.Ez[i] *= c.EzScale
		f.Bz[i] *= c.BzScale
	}
	return f, nil
}
