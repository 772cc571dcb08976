package fieldmap

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := floats.Span(make([]float64, n), lo, hi)
	out[n-1] = hi
	return out
}

// Grid returns n evenly spaced points from start to end inclusive and their
// spacing.
func Grid(start, end float64, n int) ([]float64, float64) {
	if n < 2 {
		return []float64{start}, 0
	}
	return Linspace(start, end, n), (end - start) / float64(n-1)
}

// CenteredGrid splits [0, length] into n-1 equal boxes and returns the box
// centers and their spacing.
func CenteredGrid(length float64, n int) ([]float64, float64) {
	edges, dz := Grid(0, length, n)
	if len(edges) < 2 {
		return nil, 0
	}
	z := make([]float64, len(edges)-1)
	for i := range z {
		z[i] = 0.5 * (edges[i] + edges[i+1])
	}
	return z, dz
}

// Linear interpolates a table piecewise linearly and reads zero outside
// [xp[0], xp[n-1]].
type Linear struct {
	pl     interp.PiecewiseLinear
	lo, hi float64
}

// NewLinear fits fp(xp). xp must be strictly increasing with at least two
// points.
func NewLinear(xp, fp []float64) (*Linear, error) {
	if len(xp) != len(fp) {
		return nil, fmt.Errorf("fieldmap: %d positions, %d values", len(xp), len(fp))
	}
	l := &Linear{}
	if err := l.pl.Fit(xp, fp); err != nil {
		return nil, fmt.Errorf("fieldmap: %w", err)
	}
	l.lo, l.hi = xp[0], xp[len(xp)-1]
	return l, nil
}

func (l *Linear) At(x float64) float64 {
	if x < l.lo || x > l.hi {
		return 0
	}
	return l.pl.Predict(x)
}
