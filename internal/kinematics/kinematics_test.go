package kinematics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/paraxial/internal/beam"
)

func constant(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func TestCompute_UniformField(t *testing.T) {
	const (
		n  = 101
		dz = 1e-3
		ez = 5e6 // V/m
	)

	p, err := Compute(constant(n, ez), dz, 1)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if p.Gamma[0] != 1 {
		t.Errorf("gamma[0] = %v, want 1", p.Gamma[0])
	}
	if p.Beta[0] != 0 {
		t.Errorf("beta[0] = %v, want 0 at rest", p.Beta[0])
	}

	for i := 0; i < n; i++ {
		want := 1 + ez/beam.RestEnergy*float64(i)*dz
		if math.Abs(p.Gamma[i]-want) > 1e-12 {
			t.Fatalf("gamma[%d] = %.15f, want %.15f", i, p.Gamma[i], want)
		}
		if math.Abs(p.GammaPrimePrime[i]) > 1e-6 {
			t.Fatalf("gamma''[%d] = %g, want 0 for uniform field", i, p.GammaPrimePrime[i])
		}
	}
}

func TestCompute_Relativistic(t *testing.T) {
	p, err := Compute(make([]float64, 10), 0.01, 2)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	wantBeta := math.Sqrt(3) / 2
	for i := range p.Gamma {
		if p.Gamma[i] != 2 {
			t.Errorf("gamma[%d] = %v, want 2", i, p.Gamma[i])
		}
		if math.Abs(p.Beta[i]-wantBeta) > 1e-15 {
			t.Errorf("beta[%d] = %v, want %v", i, p.Beta[i], wantBeta)
		}
	}
}

func TestCompute_Unphysical(t *testing.T) {
	tests := []struct {
		name      string
		ez        []float64
		gamma0    float64
		wantIndex int
	}{
		{"below rest", make([]float64, 4), 0.5, 0},
		{"NaN start", make([]float64, 4), math.NaN(), 0},
		{"at rest, no field", make([]float64, 4), 1, 1},
		{"decelerated from rest", constant(4, -1e6), 1, 1},
		// 1 MV/m over 0.1 m steps removes ~0.196 per step.
		{"decelerated later", constant(10, -1e6), 1.5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.ez, 0.1, tt.gamma0)
			if !errors.Is(err, beam.ErrUnphysical) {
				t.Fatalf("expected ErrUnphysical, got %v", err)
			}
			var ge *beam.GammaError
			if !errors.As(err, &ge) {
				t.Fatalf("expected *beam.GammaError, got %T", err)
			}
			if ge.Index != tt.wantIndex {
				t.Errorf("index = %d, want %d", ge.Index, tt.wantIndex)
			}
		})
	}
}

func TestCompute_DeceleratingButPhysical(t *testing.T) {
	p, err := Compute(constant(5, -1e5), 0.1, 3)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	for i := 1; i < p.Len(); i++ {
		if p.Gamma[i] >= p.Gamma[i-1] {
			t.Errorf("gamma should decrease: gamma[%d]=%v gamma[%d]=%v", i-1, p.Gamma[i-1], i, p.Gamma[i])
		}
	}
}

func TestGradient(t *testing.T) {
	h := 0.5
	f := make([]float64, 6)
	for i := range f {
		x := float64(i) * h
		f[i] = x * x
	}

	g := Gradient(f, h)

	// Interior central differences are exact for a quadratic.
	for i := 1; i < len(f)-1; i++ {
		want := 2 * float64(i) * h
		if math.Abs(g[i]-want) > 1e-12 {
			t.Errorf("g[%d] = %v, want %v", i, g[i], want)
		}
	}
	if want := (f[1] - f[0]) / h; g[0] != want {
		t.Errorf("g[0] = %v, want %v", g[0], want)
	}
	if want := (f[5] - f[4]) / h; g[5] != want {
		t.Errorf("g[5] = %v, want %v", g[5], want)
	}
}

func TestLarmor(t *testing.T) {
	bz := []float64{0.01, 0.01, 0}
	gamma := []float64{1, 2, 2}

	omega := Larmor(bz, gamma)

	want := beam.ElementaryCharge / (2 * beam.ElectronMass) * 0.01
	if math.Abs(omega[0]-want)/want > 1e-12 {
		t.Errorf("omega[0] = %g, want %g", omega[0], want)
	}
	if math.Abs(omega[1]-want/2)/want > 1e-12 {
		t.Errorf("omega[1] = %g, want %g", omega[1], want/2)
	}
	if omega[2] != 0 {
		t.Errorf("omega[2] = %g, want 0", omega[2])
	}
}

func TestRapidity(t *testing.T) {
	gamma := []float64{1, 1.5, 2, 10}
	w := Rapidity(gamma)
	for i, g := range gamma {
		if math.Abs(math.Cosh(w[i])-g) > 1e-12*g {
			t.Errorf("cosh(w[%d]) = %v, want %v", i, math.Cosh(w[i]), g)
		}
	}
}

func TestMidpoints(t *testing.T) {
	m := Midpoints([]float64{0, 2, 6})
	if len(m) != 2 || m[0] != 1 || m[1] != 4 {
		t.Errorf("Midpoints = %v", m)
	}
	if Midpoints([]float64{1}) != nil {
		t.Error("expected nil for a single sample")
	}
}
