package metrics

import (
	"math"

	"github.com/san-kum/paraxial/internal/beam"
)

// DetDrift is the largest |det M - 1| seen. The exact paraxial flow keeps
// det M = 1.
type DetDrift struct {
	name     string
	maxDrift float64
}

func NewDetDrift() *DetDrift {
	return &DetDrift{name: "det_drift"}
}

func (d *DetDrift) Name() string { return d.name }

func (d *DetDrift) Observe(z float64, m beam.Mat2) {
	d.maxDrift = math.Max(d.maxDrift, math.Abs(m.Det()-1))
}

func (d *DetDrift) Value() float64 { return d.maxDrift }

func (d *DetDrift) Reset() { d.maxDrift = 0 }
