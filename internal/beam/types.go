package beam

import (
	"fmt"
	"math"
)

// Field holds Ez (V/m) and Bz (T) on a uniform grid z_i = Z0 + i*Dz.
type Field struct {
	Ez []float64
	Bz []float64
	Dz float64
	Z0 float64
}

// Len returns the number of samples.
func (f Field) Len() int { return len(f.Ez) }

// Validate checks the shape invariants every builder depends on.
func (f Field) Validate() error {
	if len(f.Ez) != len(f.Bz) {
		return fmt.Errorf("%w: len(Ez)=%d len(Bz)=%d", ErrLengthMismatch, len(f.Ez), len(f.Bz))
	}
	if len(f.Ez) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewSamples, len(f.Ez))
	}
	if !(f.Dz > 0) || math.IsInf(f.Dz, 0) {
		return fmt.Errorf("%w: got %g", ErrBadStep, f.Dz)
	}
	return nil
}

// Positions returns the z coordinate of every sample.
func (f Field) Positions() []float64 {
	z := make([]float64, len(f.Ez))
	for i := range z {
		z[i] = f.Z0 + float64(i)*f.Dz
	}
	return z
}

// ScaleEz returns a copy of f with Ez multiplied by s. Bz is shared.
func (f Field) ScaleEz(s float64) Field {
	ez := make([]float64, len(f.Ez))
	for i, v := range f.Ez {
		ez[i] = v * s
	}
	f.Ez = ez
	return f
}

// Vec2 is the transverse state: position and canonical transverse momentum.
type Vec2 struct {
	X float64
	P float64
}

// Mat2 is a row-major 2×2 matrix {m00, m01, m10, m11}.
type Mat2 [4]float64

// Identity returns the 2×2 identity.
func Identity() Mat2 { return Mat2{1, 0, 0, 1} }

// Mul returns m·n.
func (m Mat2) Mul(n Mat2) Mat2 {
	return Mat2{
		m[0]*n[0] + m[1]*n[2], m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2], m[2]*n[1] + m[3]*n[3],
	}
}

func (m Mat2) Det() float64   { return m[0]*m[3] - m[1]*m[2] }
func (m Mat2) Trace() float64 { return m[0] + m[3] }

// Apply maps a state through the matrix.
func (m Mat2) Apply(v Vec2) Vec2 {
	return Vec2{
		X: m[0]*v.X + m[1]*v.P,
		P: m[2]*v.X + m[3]*v.P,
	}
}

// IsFinite reports whether no entry is NaN or Inf.
func (m Mat2) IsFinite() bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ApproxEqual reports whether every entry satisfies
// |m-n| <= atol + rtol*|n|.
func (m Mat2) ApproxEqual(n Mat2, rtol, atol float64) bool {
	for i := range m {
		if math.Abs(m[i]-n[i]) > atol+rtol*math.Abs(n[i]) {
			return false
		}
	}
	return true
}

func (m Mat2) String() string {
	return fmt.Sprintf("[[%.9g, %.9g], [%.9g, %.9g]]", m[0], m[1], m[2], m[3])
}

// Sequence is an ordered list of matrices, one per field sample.
type Sequence []Mat2

// Clone returns an independent copy.
func (s Sequence) Clone() Sequence {
	c := make(Sequence, len(s))
	copy(c, s)
	return c
}
