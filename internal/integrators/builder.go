package integrators

import (
	"math"

	"github.com/san-kum/paraxial/internal/beam"
)

// Builder turns sampled fields into one step matrix per sample.
//
// Index 0 of the returned sequence is always the identity; entry i maps the
// state at sample i-1 to the state at sample i.
type Builder interface {
	Name() string
	Build(f beam.Field, gammaInitial float64) (beam.Sequence, error)
}

// minChunk is the smallest slice of steps handed to a worker goroutine.
const minChunk = 4096

const c2 = beam.SpeedOfLight * beam.SpeedOfLight

// coefficients returns the off-diagonal entries of the paraxial system
//
//	d/dz [x; P] = [[0, a], [-k, 0]] [x; P]
//
// with a = 1/(βγ) and k = (2γω² + c²γ'')/(2c²β).
func coefficients(gamma, beta, omega, gpp float64) (a, k float64) {
	a = 1 / (beta * gamma)
	k = (2*gamma*omega*omega + c2*gpp) / (2 * c2 * beta)
	return a, k
}

func newSequence(n int) beam.Sequence {
	seq := make(beam.Sequence, n)
	seq[0] = beam.Identity()
	return seq
}

// sinc is sin(x)/x with the removable singularity filled in.
func sinc(x float64) float64 {
	if math.Abs(x) < 1e-6 {
		return 1 - x*x/6
	}
	return math.Sin(x) / x
}

// sinhc is sinh(x)/x with the removable singularity filled in.
func sinhc(x float64) float64 {
	if math.Abs(x) < 1e-6 {
		return 1 + x*x/6
	}
	return math.Sinh(x) / x
}
