package fieldmap

import (
	"fmt"
	"math"

	"github.com/san-kum/paraxial/internal/beam"
)

// Profile is an analytic on-axis field shape.
type Profile struct {
	Shape     string  `yaml:"shape" json:"shape"`
	Amplitude float64 `yaml:"amplitude" json:"amplitude"`
	Center    float64 `yaml:"center,omitempty" json:"center,omitempty"`
	Width     float64 `yaml:"width,omitempty" json:"width,omitempty"`
	Start     float64 `yaml:"start,omitempty" json:"start,omitempty"`
	End       float64 `yaml:"end,omitempty" json:"end,omitempty"`
}

func (p Profile) Validate() error {
	switch p.Shape {
	case "", "zero", "uniform":
		return nil
	case "gaussian":
		if !(p.Width > 0) {
			return fmt.Errorf("fieldmap: gaussian width must be positive, got %g", p.Width)
		}
		return nil
	case "hard_edge":
		if p.End < p.Start {
			return fmt.Errorf("fieldmap: hard_edge end %g before start %g", p.End, p.Start)
		}
		return nil
	default:
		return fmt.Errorf("fieldmap: unknown profile shape %q", p.Shape)
	}
}

// At evaluates the profile at z. The profile must be valid.
func (p Profile) At(z float64) float64 {
	switch p.Shape {
	case "uniform":
		return p.Amplitude
	case "gaussian":
		d := (z - p.Center) / p.Width
		return p.Amplitude * math.Exp(-d*d)
	case "hard_edge":
		if z >= p.Start && z <= p.End {
			return p.Amplitude
		}
		return 0
	default:
		return 0
	}
}

// Profiles is a sum of shapes.
type Profiles []Profile

func (ps Profiles) Validate() error {
	for i, p := range ps {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("profile %d: %w", i, err)
		}
	}
	return nil
}

func (ps Profiles) At(z float64) float64 {
	sum := 0.0
	for _, p := range ps {
		sum += p.At(z)
	}
	return sum
}

// FromProfiles samples analytic Ez and Bz on the grid z.
func FromProfiles(ez, bz Profiles, z []float64, dz float64) (beam.Field, error) {
	if err := ez.Validate(); err != nil {
		return beam.Field{}, fmt.Errorf("ez: %w", err)
	}
	if err := bz.Validate(); err != nil {
		return beam.Field{}, fmt.Errorf("bz: %w", err)
	}

	f := beam.Field{
		Ez: make([]float64, len(z)),
		Bz: make([]float64, len(z)),
		Dz: dz,
	}
	if len(z) > 0 {
		f.Z0 = z[0]
	}
	for i, zi := range z {
		f.Ez[i] = ez.At(zi)
		f.Bz[i] = bz.At(zi)
	}
	return f, nil
}
