package integrators

import (
	"github.com/san-kum/paraxial/internal/beam"
	"github.com/san-kum/paraxial/internal/kinematics"
)

// Midpoint averages gamma, beta, ω_L and γ'' over each step and takes the
// Cayley form (I - h/2·A)⁻¹(I + h/2·A). Second order.
type Midpoint struct{}

func NewMidpoint() *Midpoint {
	return &Midpoint{}
}

func (m *Midpoint) Name() string { return "midpoint" }

func (m *Midpoint) Build(f beam.Field, gammaInitial float64) (beam.Sequence, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	p, err := kinematics.Compute(f.Ez, f.Dz, gammaInitial)
	if err != nil {
		return nil, err
	}

	// Step i uses the average of samples i-1 and i, stored at i-1.
	gamma := kinematics.Midpoints(p.Gamma)
	beta := kinematics.Midpoints(p.Beta)
	omega := kinematics.Midpoints(kinematics.Larmor(f.Bz, p.Gamma))
	gpp := kinematics.Midpoints(p.GammaPrimePrime)

	h := f.Dz
	seq := newSequence(f.Len())

	beam.ParallelFor(f.Len()-1, minChunk, func(start, end int) {
		for j := start; j < end; j++ {
			a, k := coefficients(gamma[j], beta[j], omega[j], gpp[j])
			d := 1 + h*h*a*k/4
			diag := 2/d - 1
			seq[j+1] = beam.Mat2{diag, h * a / d, -h * k / d, diag}
		}
	})

	return seq, nil
}
