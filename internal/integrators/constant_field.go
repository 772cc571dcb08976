package integrators

import (
	"math"

	"github.com/san-kum/paraxial/internal/beam"
	"github.com/san-kum/paraxial/internal/kinematics"
)

// ConstantField holds Bz at its upstream value across each step and uses the
// closed-form Larmor rotation for that segment, written in the rapidity
// w = asinh(βγ). A first-order γ'' edge term is applied with β at the end of
// the step.
//
// The rotation is exact for uniform fields, including a uniform Ez.
type ConstantField struct{}

func NewConstantField() *ConstantField {
	return &ConstantField{}
}

func (c *ConstantField) Name() string { return "constant_field" }

func (c *ConstantField) Build(f beam.Field, gammaInitial float64) (beam.Sequence, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	p, err := kinematics.Compute(f.Ez, f.Dz, gammaInitial)
	if err != nil {
		return nil, err
	}
	w := kinematics.Rapidity(p.Gamma)

	h := f.Dz
	seq := newSequence(f.Len())

	beam.ParallelFor(f.Len()-1, minChunk, func(start, end int) {
		for i := start + 1; i <= end; i++ {
			// b = qBz/(2mc) in 1/m.
			b := f.Bz[i-1] * beam.SpeedOfLight / (2 * beam.RestEnergy)

			// ∫dz/(βγ) across the step divided by h.
			dw := w[i] - w[i-1]
			ls := 1 / (sinhc(dw/2) * math.Sinh((w[i]+w[i-1])/2))

			theta := b * h * ls
			cos, sin := math.Cos(theta), math.Sin(theta)
			snc := sinc(theta) * ls * h
			edge := p.GammaPrimePrime[i-1] * h / (2 * p.Beta[i])

			seq[i] = beam.Mat2{
				cos, snc,
				-b*sin - cos*edge, cos - snc*edge,
			}
		}
	})

	return seq, nil
}
