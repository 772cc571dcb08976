package kinematics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/paraxial/internal/beam"
)

// Profile is the relativistic state along the grid. All slices have the same
// length as the Ez samples it was computed from.
type Profile struct {
	Gamma           []float64
	Beta            []float64
	GammaPrime      []float64 // dγ/dz = Ez/mc², 1/m
	GammaPrimePrime []float64 // d²γ/dz², 1/m²
}

// Len returns the number of samples.
func (p *Profile) Len() int { return len(p.Gamma) }

// Compute integrates the normalized Ez with the cumulative trapezoid rule,
// seeded with gammaInitial at index 0.
//
// gammaInitial must be at least 1. Every later sample must have gamma > 1
// strictly, otherwise a *beam.GammaError names the first offending index.
func Compute(ez []float64, dz, gammaInitial float64) (*Profile, error) {
	if !(gammaInitial >= 1) || math.IsInf(gammaInitial, 0) {
		return nil, &beam.GammaError{Index: 0, Gamma: gammaInitial}
	}

	n := len(ez)
	gp := make([]float64, n)
	for i, e := range ez {
		gp[i] = e / beam.RestEnergy
	}

	gamma := make([]float64, n)
	if n > 0 {
		incr := make([]float64, n)
		incr[0] = gammaInitial
		for i := 1; i < n; i++ {
			incr[i] = 0.5 * dz * (gp[i-1] + gp[i])
		}
		floats.CumSum(gamma, incr)
	}

	for i := 1; i < n; i++ {
		if !(gamma[i] > 1) || math.IsInf(gamma[i], 0) {
			return nil, &beam.GammaError{Index: i, Gamma: gamma[i]}
		}
	}

	return &Profile{
		Gamma:           gamma,
		Beta:            Beta(gamma),
		GammaPrime:      gp,
		GammaPrimePrime: Gradient(gp, dz),
	}, nil
}

// Beta returns sqrt(1 - 1/γ²) per sample, or 0 where γ <= 1.
func Beta(gamma []float64) []float64 {
	beta := make([]float64, len(gamma))
	for i, g := range gamma {
		if g > 1 {
			beta[i] = math.Sqrt(1 - 1/(g*g))
		}
	}
	return beta
}

// Rapidity returns w = asinh(sqrt(γ² - 1)) per sample, so that
// cosh w = γ and sinh w = βγ.
func Rapidity(gamma []float64) []float64 {
	w := make([]float64, len(gamma))
	for i, g := range gamma {
		if g > 1 {
			w[i] = math.Asinh(math.Sqrt(g*g - 1))
		}
	}
	return w
}

// Larmor returns ω_L = q·Bz/(2γm) in rad/s. gamma must come from Compute.
func Larmor(bz, gamma []float64) []float64 {
	omega := make([]float64, len(bz))
	for i, b := range bz {
		omega[i] = beam.ChargeToMass / (2 * gamma[i]) * b
	}
	return omega
}

// Gradient differentiates uniformly spaced samples: central differences in
// the interior and one-sided first differences at both ends.
func Gradient(f []float64, h float64) []float64 {
	n := len(f)
	g := make([]float64, n)
	if n < 2 {
		return g
	}

	g[0] = (f[1] - f[0]) / h
	g[n-1] = (f[n-1] - f[n-2]) / h
	for i := 1; i < n-1; i++ {
		g[i] = (f[i+1] - f[i-1]) / (2 * h)
	}
	return g
}

// Midpoints returns the n-1 averages (a[i] + a[i+1])/2.
func Midpoints(a []float64) []float64 {
	if len(a) < 2 {
		return nil
	}
	m := make([]float64, len(a)-1)
	for i := range m {
		m[i] = 0.5 * (a[i] + a[i+1])
	}
	return m
}
