// Package metrics summarizes a cumulative transfer-matrix run.
package metrics

import "github.com/san-kum/paraxial/internal/beam"

// Metric observes cumulative matrices in z order.
type Metric interface {
	Name() string
	Observe(z float64, m beam.Mat2)
	Value() float64
	Reset()
}

func Defaults() []Metric {
	return []Metric{
		NewDetDrift(),
		NewEnvelope(),
		NewCrossings(),
	}
}

// Evaluate feeds every (z, M) pair to each metric and collects the values.
func Evaluate(z []float64, cum beam.Sequence, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for i, M := range cum {
			m.Observe(z[i], M)
		}
		out[m.Name()] = m.Value()
	}
	return out
}
