package metrics

import (
	"math"

	"github.com/san-kum/paraxial/internal/beam"
)

// Envelope is the largest |m00|, the peak magnification of an off-axis ray
// launched parallel to the axis.
type Envelope struct {
	name string
	peak float64
}

func NewEnvelope() *Envelope {
	return &Envelope{name: "envelope"}
}

func (e *Envelope) Name() string { return e.name }

func (e *Envelope) Observe(z float64, m beam.Mat2) {
	e.peak = math.Max(e.peak, math.Abs(m[0]))
}

func (e *Envelope) Value() float64 { return e.peak }

func (e *Envelope) Reset() { e.peak = 0 }

// Crossings counts sign changes of m00: how often a parallel ray crosses
// the axis.
type Crossings struct {
	name    string
	prev    float64
	count   int
	samples int
}

func NewCrossings() *Crossings {
	return &Crossings{name: "crossings"}
}

func (c *Crossings) Name() string { return c.name }

func (c *Crossings) Observe(z float64, m beam.Mat2) {
	if c.samples > 0 && c.prev*m[0] < 0 {
		c.count++
	}
	if m[0] != 0 {
		c.prev = m[0]
	}
	c.samples++
}

func (c *Crossings) Value() float64 { return float64(c.count) }

func (c *Crossings) Reset() {
	c.prev = 0
	c.count = 0
	c.samples = 0
}
