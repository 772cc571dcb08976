package integrators

import (
	"github.com/san-kum/paraxial/internal/beam"
	"github.com/san-kum/paraxial/internal/kinematics"
)

// ImplicitEuler evaluates the coefficients at the destination sample and
// takes (I - hA)⁻¹ as the step matrix. First order, unconditionally stable.
type ImplicitEuler struct{}

func NewImplicitEuler() *ImplicitEuler {
	return &ImplicitEuler{}
}

func (e *ImplicitEuler) Name() string { return "implicit_euler" }

func (e *ImplicitEuler) Build(f beam.Field, gammaInitial float64) (beam.Sequence, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	p, err := kinematics.Compute(f.Ez, f.Dz, gammaInitial)
	if err != nil {
		return nil, err
	}
	omega := kinematics.Larmor(f.Bz, p.Gamma)

	h := f.Dz
	seq := newSequence(f.Len())

	beam.ParallelFor(f.Len()-1, minChunk, func(start, end int) {
		for i := start + 1; i <= end; i++ {
			a, k := coefficients(p.Gamma[i], p.Beta[i], omega[i], p.GammaPrimePrime[i])
			d := 1 + h*h*a*k
			diag := 1 / d
			seq[i] = beam.Mat2{diag, h * a / d, -h * k / d, diag}
		}
	})

	return seq, nil
}
