package integrators

import (
	"math"

	"github.com/san-kum/paraxial/internal/beam"
	"github.com/san-kum/paraxial/internal/kinematics"
)

// State is the flattened fundamental matrix [x₁, P₁, x₂, P₂]: the two
// columns propagated from the unit vectors.
type State []float64

// System is a first-order system dy/ds = f(y, s).
type System interface {
	Derive(y State, s float64) State
}

type rk4 struct {
	k1, k2, k3, k4 State
	scratch        State
}

func (r *rk4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(State, n)
		r.k2 = make(State, n)
		r.k3 = make(State, n)
		r.k4 = make(State, n)
		r.scratch = make(State, n)
	}
}

func (r *rk4) Step(sys System, y State, s, ds float64) State {
	n := len(y)
	r.ensureScratch(n)

	copy(r.k1, sys.Derive(y, s))

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + ds*0.5*r.k1[i]
	}
	copy(r.k2, sys.Derive(r.scratch, s+ds*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + ds*0.5*r.k2[i]
	}
	copy(r.k3, sys.Derive(r.scratch, s+ds*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + ds*r.k3[i]
	}
	copy(r.k4, sys.Derive(r.scratch, s+ds))

	result := make(State, n)
	ds6 := ds / 6.0
	for i := 0; i < n; i++ {
		result[i] = y[i] + ds6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}

// segment is the paraxial system between two neighbouring samples, with
// gamma, Bz and γ'' interpolated linearly in s ∈ [0, h].
type segment struct {
	h        float64
	g0, g1   float64
	bz0, bz1 float64
	p0, p1   float64
}

func (sg *segment) Derive(y State, s float64) State {
	t := s / sg.h
	g := sg.g0 + t*(sg.g1-sg.g0)
	bz := sg.bz0 + t*(sg.bz1-sg.bz0)
	gpp := sg.p0 + t*(sg.p1-sg.p0)

	beta := math.Sqrt(1 - 1/(g*g))
	omega := beam.ChargeToMass / (2 * g) * bz
	a, k := coefficients(g, beta, omega, gpp)

	return State{a * y[1], -k * y[0], a * y[3], -k * y[2]}
}

// RK4 integrates the fundamental matrix across each step with classical
// fourth-order Runge-Kutta. It is the most expensive builder and is used as a
// cross-check for the others.
//
// Coefficients are evaluated inside the step, so the beam must already be
// moving at the first sample: gammaInitial must exceed 1.
type RK4 struct {
	Substeps int
}

func NewRK4() *RK4 {
	return &RK4{Substeps: 4}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Build(f beam.Field, gammaInitial float64) (beam.Sequence, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if !(gammaInitial > 1) {
		return nil, &beam.GammaError{Index: 0, Gamma: gammaInitial}
	}

	p, err := kinematics.Compute(f.Ez, f.Dz, gammaInitial)
	if err != nil {
		return nil, err
	}

	sub := r.Substeps
	if sub < 1 {
		sub = 1
	}
	ds := f.Dz / float64(sub)
	seq := newSequence(f.Len())

	beam.ParallelFor(f.Len()-1, minChunk/sub+1, func(start, end int) {
		var st rk4
		for i := start + 1; i <= end; i++ {
			sg := &segment{
				h:  f.Dz,
				g0: p.Gamma[i-1], g1: p.Gamma[i],
				bz0: f.Bz[i-1], bz1: f.Bz[i],
				p0: p.GammaPrimePrime[i-1], p1: p.GammaPrimePrime[i],
			}

			y := State{1, 0, 0, 1}
			for j := 0; j < sub; j++ {
				y = st.Step(sg, y, float64(j)*ds, ds)
			}

			seq[i] = beam.Mat2{y[0], y[2], y[1], y[3]}
		}
	})

	return seq, nil
}
